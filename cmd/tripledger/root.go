package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/pkg/logging"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "tripledger",
		Short: "Shared trip expenses and who owes whom",
		Long: `tripledger records bills shared between trip collaborators, keeps a
per-bill ledger of who owes whom and aggregates it into balances and
settle-up suggestions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default: ./config.yaml or $HOME/.tripledger/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(a),
		newLedgerCmd(a),
		newTokenCmd(a),
	)
	return cmd
}
