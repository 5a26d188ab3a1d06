package cmd

import (
	"fmt"
	"strings"

	ledgerrender "github.com/bnema/usahome-cli/internal/adapters/render/ledger"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [category]",
		Short: "List the professional service catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := domain.ListCategories()
			if len(args) == 1 {
				category, err := findCategory(args[0])
				if err != nil {
					return err
				}
				categories = []domain.Category{category}
			}

			rendered, err := ledgerrender.RenderCatalog(categories)
			if err != nil {
				return fmt.Errorf("render catalog: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func findCategory(raw string) (domain.Category, error) {
	needle := strings.TrimSpace(raw)
	for _, category := range domain.ListCategories() {
		if strings.EqualFold(string(category), needle) {
			return category, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}
