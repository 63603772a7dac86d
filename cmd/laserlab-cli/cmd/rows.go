package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"laserlab/internal/adapters/opener"
	"laserlab/internal/application/commands"
	"laserlab/internal/application/rows"
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List and edit inventory rows on the row server",
}

var rowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory rows",
	Long: `List the inventory rows in position order.

Examples:
  laserlab-cli rows list
  laserlab-cli rows list --server http://bench-pc:3001`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := commands.NewListRowsCommand(rowClient()).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No rows.")
			return nil
		}
		for _, r := range list {
			fmt.Printf("%4s  %-20s %-16s %s\n", r.Position, r.Element, r.System, r.Model)
		}
		return nil
	},
}

var rowsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the inventory as CSV",
	Long: `Print the inventory as CSV with positions renumbered 1..N.

Examples:
  laserlab-cli rows export > inventory.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := rows.NewStore(rowClient(), logger)
		if err := store.Load(context.Background()); err != nil {
			return err
		}
		text, err := store.Export()
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

var rowsEditCmd = &cobra.Command{
	Use:   "edit <position> <field> <value>",
	Short: "Change one field of a row and save",
	Long: `Change the Element, System or Model of the row at a 1-based position
and save the whole inventory.

Examples:
  laserlab-cli rows edit 2 Model LA1608
  laserlab-cli rows edit 3 system "Beam path"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[0], err)
		}
		client := rowClient()
		result, err := commands.NewEditRowCommand(client, client, position, args[1], args[2]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var rowsMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a row to a new position and save",
	Long: `Move the row at a 1-based position to another position. Positions of
all rows are renumbered.

Examples:
  laserlab-cli rows move 5 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[0], err)
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[1], err)
		}
		client := rowClient()
		result, err := commands.NewMoveRowCommand(client, client, from, to).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var rowsEditCSVCmd = &cobra.Command{
	Use:   "edit-csv",
	Short: "Edit the whole inventory in $EDITOR and save",
	Long: `Open the inventory CSV in $EDITOR. When the editor exits the file is
parsed, positions are renumbered and the full set is saved. Nothing is
saved when the file is left unchanged.

Examples:
  EDITOR=nano laserlab-cli rows edit-csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client := rowClient()

		store := rows.NewStore(client, logger)
		if err := store.Load(ctx); err != nil {
			return err
		}
		before, err := store.Export()
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", "laserlab-rows-*.csv")
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString(before); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}

		if err := opener.New().Edit(tmp.Name()); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}

		edited, err := os.ReadFile(tmp.Name())
		if err != nil {
			return err
		}
		if err := store.LoadText(string(edited)); err != nil {
			return err
		}
		after, err := store.Export()
		if err != nil {
			return err
		}
		if after == before {
			fmt.Println("No changes.")
			return nil
		}
		if err := client.SaveRows(ctx, after); err != nil {
			return err
		}
		fmt.Printf("Saved %d rows\n", store.Len())
		return nil
	},
}

func init() {
	rowsCmd.AddCommand(rowsListCmd, rowsExportCmd, rowsEditCmd, rowsMoveCmd, rowsEditCSVCmd)
	rootCmd.AddCommand(rowsCmd)
}
