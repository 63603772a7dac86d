package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laserlab/internal/adapters/opener"
	"laserlab/internal/adapters/render"
	"laserlab/internal/application/commands"
	"laserlab/internal/domain"
)

var (
	exportOutput string
	exportOpen   bool
	texOutput    string
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Manage saved layout diagrams",
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, local, err := openLayouts()
		if err != nil {
			return err
		}
		defer local.Close()

		list, err := commands.NewListLayoutsCommand(store).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No saved layouts.")
			return nil
		}
		for _, l := range list {
			fmt.Printf("%s  %-24s %3d nodes  %3d beams  %s\n",
				l.ID, l.Name, len(l.Nodes), len(l.Edges), l.SavedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var layoutsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the nodes and beams of a layout",
	Long: `Show the nodes and beams of a saved layout.

Examples:
  laserlab-cli layouts show layout-1718000000000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, local, err := openLayouts()
		if err != nil {
			return err
		}
		defer local.Close()

		layout, err := store.Get(args[0])
		if err != nil {
			return err
		}
		printLayout(layout)
		return nil
	},
}

var layoutsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, local, err := openLayouts()
		if err != nil {
			return err
		}
		defer local.Close()

		result, err := commands.NewDeleteLayoutCommand(store, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var layoutsExportCmd = &cobra.Command{
	Use:   "export-png <id>",
	Short: "Render a saved layout to PNG",
	Long: `Render a saved layout to a PNG image.

Examples:
  laserlab-cli layouts export-png layout-1718000000000
  laserlab-cli layouts export-png layout-1718000000000 -o bench.png
  laserlab-cli layouts export-png layout-1718000000000 --open`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, local, err := openLayouts()
		if err != nil {
			return err
		}
		defer local.Close()

		renderer, err := render.NewRenderer()
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = args[0] + ".png"
		}
		layout, err := writeExport(path, func(f *os.File) (*domain.Layout, error) {
			return commands.NewExportLayoutCommand(store, renderer, args[0]).Execute(context.Background(), f)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Exported %q to %s\n", layout.Name, path)
		if exportOpen {
			return opener.New().View(path)
		}
		return nil
	},
}

var layoutsExportTeXCmd = &cobra.Command{
	Use:   "export-tex <id>",
	Short: "Write a saved layout as LaTeX",
	Long: `Write a saved layout as a standalone pst-optexp LaTeX document.
Compile it with xelatex or latex+dvipdf to get a PDF.

Examples:
  laserlab-cli layouts export-tex layout-1718000000000
  laserlab-cli layouts export-tex layout-1718000000000 -o bench.tex
  laserlab-cli layouts export-tex layout-1718000000000 -o -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, local, err := openLayouts()
		if err != nil {
			return err
		}
		defer local.Close()

		export := commands.NewExportLayoutTeXCommand(store, render.NewTeXRenderer(), args[0])
		if texOutput == "-" {
			_, err := export.Execute(context.Background(), cmd.OutOrStdout())
			return err
		}

		path := texOutput
		if path == "" {
			path = args[0] + ".tex"
		}
		layout, err := writeExport(path, func(f *os.File) (*domain.Layout, error) {
			return export.Execute(context.Background(), f)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Exported %q to %s\n", layout.Name, path)
		return nil
	},
}

// writeExport creates path, runs export into it and removes the file again
// when the export fails
func writeExport(path string, export func(f *os.File) (*domain.Layout, error)) (*domain.Layout, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	layout, err := export(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return layout, nil
}

func printLayout(l domain.Layout) {
	fmt.Printf("%s  %s\n", l.ID, l.Name)
	fmt.Printf("saved %s\n\n", l.SavedAt.Local().Format("2006-01-02 15:04:05"))

	fmt.Println("Nodes:")
	for _, n := range l.Nodes {
		fmt.Printf("  %-28s %-10s %-24s (%.0f,%.0f) %.0fx%.0f\n",
			n.ID, n.Kind, n.Title(), n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height)
	}
	fmt.Println("Beams:")
	for _, e := range l.Edges {
		fmt.Printf("  %s.%s -> %s.%s  %s\n", e.Source, e.SourceHandle, e.Target, e.TargetHandle, e.Beam)
	}
}

func init() {
	layoutsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default <id>.png)")
	layoutsExportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the image when done")
	layoutsExportTeXCmd.Flags().StringVarP(&texOutput, "output", "o", "", "output file, - for stdout (default <id>.tex)")
	layoutsCmd.AddCommand(layoutsListCmd, layoutsShowCmd, layoutsDeleteCmd, layoutsExportCmd, layoutsExportTeXCmd)
	rootCmd.AddCommand(layoutsCmd)
}
