package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	ledgerrender "github.com/bnema/usahome-cli/internal/adapters/render/ledger"
	"github.com/bnema/usahome-cli/internal/application"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/spf13/cobra"
)

const defaultWatchInterval = 3 * time.Second

type ledgerOutput struct {
	Identity  string   `json:"identity"`
	Source    string   `json:"source"`
	Services  []string `json:"services"`
	LastAdded string   `json:"last_added,omitempty"`
	Fee       string   `json:"fee"`
}

func newServicesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"svc"},
		Short:   "Manage the professional services on an account",
	}

	cmd.AddCommand(
		newServicesListCmd(app),
		newServicesAddCmd(app),
		newServicesRemoveCmd(app),
		newServicesWatchCmd(app),
	)

	return cmd
}

func newServicesListCmd(app *app) *cobra.Command {
	var (
		identity string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the reconciled service list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := app.sessions.ResolveIdentity(cmd.Context(), identity)
			if err != nil {
				return err
			}

			var snapshot application.Snapshot
			err = withSyncSpinner(cmd.Context(), cmd.ErrOrStderr(), asJSON || app.offline, "Syncing services...", func(ctx context.Context) (domain.ReconciliationSource, error) {
				var syncErr error
				snapshot, syncErr = app.ledger.GetAll(ctx, resolved)
				return snapshot.Source, syncErr
			})
			if err != nil {
				return err
			}

			return writeLedgerOutput(cmd, app, snapshot, asJSON)
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (defaults to the logged in session)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newServicesAddCmd(app *app) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "add <service name>",
		Short: "Add a service to the account",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := app.sessions.ResolveIdentity(cmd.Context(), identity)
			if err != nil {
				return err
			}

			mutation, err := app.ledger.Add(cmd.Context(), resolved, strings.Join(args, " "))
			if err != nil {
				return err
			}

			verb := "added"
			if !mutation.Changed {
				verb = "already listed"
			}
			return writeMutationOutput(cmd, app, mutation, verb)
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (defaults to the logged in session)")

	return cmd
}

func newServicesRemoveCmd(app *app) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:     "remove <service name>",
		Aliases: []string{"rm"},
		Short:   "Remove a service from the account",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := app.sessions.ResolveIdentity(cmd.Context(), identity)
			if err != nil {
				return err
			}

			mutation, err := app.ledger.Remove(cmd.Context(), resolved, strings.Join(args, " "))
			if err != nil {
				return err
			}

			verb := "removed"
			if !mutation.Changed {
				verb = "not listed"
			}
			return writeMutationOutput(cmd, app, mutation, verb)
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (defaults to the logged in session)")

	return cmd
}

func newServicesWatchCmd(app *app) *cobra.Command {
	var (
		identity string
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the ledger and print a line whenever it changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			resolved, err := app.sessions.ResolveIdentity(cmd.Context(), identity)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watchLedger(ctx, cmd, app, resolved, interval, count)
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (defaults to the logged in session)")
	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "Polling interval")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many polls (0 runs until interrupted)")

	return cmd
}

func watchLedger(ctx context.Context, cmd *cobra.Command, app *app, identity domain.Identity, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		previous     domain.ServiceList
		previousLast domain.ServiceName
		seen         bool
	)

	for polls := 0; count <= 0 || polls < count; polls++ {
		if polls > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		snapshot, err := app.ledger.GetAll(ctx, identity)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		lastAdded, _ := app.ledger.LastAdded(ctx, identity)

		if seen && slices.Equal(previous, snapshot.Services) && previousLast == lastAdded {
			continue
		}
		seen = true
		previous = snapshot.Services.Clone()
		previousLast = lastAdded

		fee := app.fees.QuoteForCount(identity, snapshot.Count())
		line := fmt.Sprintf("%s  %s  fee %s  source %s",
			app.now().Format("15:04:05"), serviceCountLabel(snapshot.Count()), fee, snapshot.Source.Label())
		if lastAdded != "" {
			line += fmt.Sprintf("  last added %s", lastAdded)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}

	return nil
}

func writeLedgerOutput(cmd *cobra.Command, app *app, snapshot application.Snapshot, asJSON bool) error {
	lastAdded, _ := app.ledger.LastAdded(cmd.Context(), snapshot.Identity)
	fee := app.fees.QuoteForCount(snapshot.Identity, snapshot.Count())

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ledgerOutput{
			Identity:  snapshot.Identity.String(),
			Source:    string(snapshot.Source),
			Services:  snapshot.Services.Strings(),
			LastAdded: string(lastAdded),
			Fee:       fee.Amount.StringFixed(2),
		})
	}

	rendered, err := app.ledgerRenderer(snapshot, ledgerrender.LedgerOptions{
		LastAdded: lastAdded,
		Fee:       &fee,
		Offline:   app.offline,
	})
	if err != nil {
		return fmt.Errorf("render services: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func writeMutationOutput(cmd *cobra.Command, app *app, mutation application.Mutation, verb string) error {
	if mutation.Changed && !mutation.Published && !app.offline {
		if _, err := fmt.Fprintln(cmd.ErrOrStderr(), "warning: saved locally, backend update failed"); err != nil {
			return err
		}
	}

	fee := app.fees.QuoteForCount(mutation.Identity, mutation.Services.Count())
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, monthly fee %s\n", verb, serviceCountLabel(mutation.Services.Count()), fee)
	return err
}

func serviceCountLabel(n int) string {
	if n == 1 {
		return "1 service"
	}
	return fmt.Sprintf("%d services", n)
}
