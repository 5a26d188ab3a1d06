package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/usahome-cli/internal/application"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/spf13/cobra"
)

type feeOutput struct {
	Identity     string `json:"identity"`
	ServiceCount int    `json:"service_count"`
	Fee          string `json:"fee"`
	Overridden   bool   `json:"overridden"`
	Source       string `json:"source"`
}

func newFeeCmd(app *app) *cobra.Command {
	var (
		identity string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Show the monthly listing fee for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := app.sessions.ResolveIdentity(cmd.Context(), identity)
			if err != nil {
				return err
			}

			var report application.FeeReport
			err = withSyncSpinner(cmd.Context(), cmd.ErrOrStderr(), asJSON || app.offline, "Syncing services...", func(ctx context.Context) (domain.ReconciliationSource, error) {
				var quoteErr error
				report, quoteErr = app.fees.Quote(ctx, resolved)
				return report.Snapshot.Source, quoteErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(feeOutput{
					Identity:     report.Quote.Identity.String(),
					ServiceCount: report.Quote.ServiceCount,
					Fee:          report.Quote.Amount.StringFixed(2),
					Overridden:   report.Quote.Overridden,
					Source:       string(report.Snapshot.Source),
				})
			}

			rendered, err := app.feeRenderer(report)
			if err != nil {
				return fmt.Errorf("render fee: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (defaults to the logged in session)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
