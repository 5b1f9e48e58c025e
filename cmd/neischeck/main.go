package main

import (
	"fmt"
	"os"

	"github.com/Nomadcxx/neischeck/internal/config"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/report"
	"github.com/Nomadcxx/neischeck/internal/service"
	"github.com/Nomadcxx/neischeck/internal/ui"
	"github.com/spf13/cobra"
)

var (
	version      = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile      string
	verbose      bool
	outputFormat string
	noColor      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.ErrorMsg("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neischeck",
		Short: "Checks NEIS school-record exports",
		Long: `neischeck checks spreadsheets exported from NEIS before they are
entered into the school record.

Checks:
  - Date notation in 자율활동 descriptions, e.g. (2024.03.04.-2024.03.08./5회)
  - Duplicate and near-duplicate titles in each student's 독서활동 상황`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				ui.DisableColors()
			}
			_, err := report.ParseFormat(outputFormat)
			return err
		},
	}

	originalHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "neischeck" {
			printHeader(cmd.OutOrStdout(), version)
		}
		originalHelpFunc(cmd, args)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/neischeck/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "text", "output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newDatesCmd())
	rootCmd.AddCommand(newReadingCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printHeader(cmd.OutOrStdout(), version)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := cfg.Logging.LoggerConfig()
	if verbose {
		logCfg.Console = os.Stderr
		if logCfg.Level == "info" {
			logCfg.Level = "debug"
		}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// setup loads config and builds the checker every command shares.
func setup() (*config.Config, *service.Checker, *logging.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	checker, err := service.NewChecker(cfg, logger)
	if err != nil {
		logger.Close()
		return nil, nil, nil, err
	}
	return cfg, checker, logger, nil
}

func format() report.Format {
	f, _ := report.ParseFormat(outputFormat)
	return f
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
