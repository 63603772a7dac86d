package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"laserlab/internal/application/commands"
	"laserlab/internal/domain"
)

var catalogCategory string

var catalogCmd = &cobra.Command{
	Use:   "catalog [query]",
	Short: "Search the component library",
	Long: `Search the component library by display name or file id.

Examples:
  laserlab-cli catalog
  laserlab-cli catalog lens
  laserlab-cli catalog --category electronic pd`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		category, err := domain.ParseCategory(catalogCategory)
		if err != nil {
			return err
		}
		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		results, err := commands.NewSearchCatalogCommand(catalog(ctx), category, query).Execute(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No components found.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%-20s %-20s %s\n", r.ID, r.DisplayName, r.Category)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogCategory, "category", "c", "all", "category: all, beam, complex, electronic")
	rootCmd.AddCommand(catalogCmd)
}
