package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/cache"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/identity"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/report"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
)

type ledgerOptions struct {
	tripID   string
	userID   string
	currency string
	settle   bool
	output   string
}

func newLedgerCmd(a *app) *cobra.Command {
	opts := ledgerOptions{}

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Export a trip ledger or settle-up plan as CSV",
		Long: `Reads the database directly and writes CSV. With --user the ledger of
that collaborator is exported; with --settle the suggested transfers for
the whole trip are exported instead.`,
		Example: `  tripledger ledger --trip 7f3c... --user alice
  tripledger ledger --trip 7f3c... --settle --currency EUR -o plan.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.tripID == "" {
				return fmt.Errorf("--trip is required")
			}
			if !opts.settle && opts.userID == "" {
				return fmt.Errorf("either --user or --settle is required")
			}

			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return exportLedger(cmd.Context(), a, opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.tripID, "trip", "", "trip id")
	cmd.Flags().StringVar(&opts.userID, "user", "", "collaborator whose ledger to export")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "currency to aggregate (required when bills mix currencies)")
	cmd.Flags().BoolVar(&opts.settle, "settle", false, "export suggested settle-up transfers instead of a ledger")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func exportLedger(ctx context.Context, a *app, opts ledgerOptions, out io.Writer) error {
	store, err := sqlite.New(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	trip, err := store.GetTrip(ctx, opts.tripID)
	if err != nil {
		return err
	}
	stored, err := store.ListBillsByTrip(ctx, trip.ID)
	if err != nil {
		return err
	}
	bills := make([]models.Bill, 0, len(stored))
	for _, b := range stored {
		if !b.Archived {
			bills = append(bills, *b)
		}
	}

	currency, err := calculator.ResolveCurrency(bills, opts.currency, a.cfg.Ledger.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("%w; pass --currency", err)
	}
	bills = calculator.FilterByCurrency(bills, currency)

	resolver := identity.NewResolver(store, cache.NewMemoryCache(), 0)

	if opts.settle {
		members, edges := calculator.CalculateGroupBalances(bills)
		ids := make([]string, len(members))
		for i, mb := range members {
			ids[i] = mb.MemberID
		}
		names, err := resolver.DisplayNames(ctx, ids)
		if err != nil {
			return err
		}
		return report.WriteTransfersCSV(out, edges, names, currency)
	}

	if !trip.HasCollaborator(opts.userID) {
		return fmt.Errorf("%s is not a collaborator of trip %s", opts.userID, trip.ID)
	}
	ledger := calculator.CalculateLedger(bills, opts.userID, trip.Collaborators)
	names, err := resolver.DisplayNames(ctx, ledger.Counterparties())
	if err != nil {
		return err
	}
	return report.WriteLedgerCSV(out, ledger, names, currency)
}
