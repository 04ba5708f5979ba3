package main

import (
	"fmt"
	"log/slog"

	ioconfig "github.com/cardionet/acsdex/internal/io/config"
	"github.com/cardionet/acsdex/pkg/config"
	"github.com/cardionet/acsdex/pkg/logger"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "acsdex",
		Short:   "acsdex builds an ACS patient-level analytic record",
		Version: Version,
		Long: `acsdex streams hospital episode rows into patient-level analytic
records for acute coronary syndrome research.

It classifies diagnosis and procedure codes against a configured
taxonomy, groups episodes into spells and spells into patients, locates
qualifying index events (ACS admissions and PCI procedures), and counts
surrounding clinical activity within a configured before/after window.

Configuration is managed through an acsdex.yaml file, environment
variables (with ACSDEX_ prefix), and command-line flags.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			loaded, err = ioconfig.BindFlags(cmd, loaded)
			if err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			cfg = loaded
			log = logger.New(cfg.Log)
			return nil
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./acsdex.yaml or ~/.config/acsdex/acsdex.yaml)")
	rootCmd.PersistentFlags().Int("window-seconds", 0,
		"before/after window length in seconds (default from config)")
	rootCmd.PersistentFlags().Bool("save-records", true,
		"persist feature records to the output file")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "",
		"log format: json, text, tint")

	rootCmd.AddCommand(getRunCmd())

	return rootCmd
}
