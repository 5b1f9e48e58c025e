package main

import (
	"fmt"

	"github.com/Nomadcxx/neischeck/internal/config"
	"github.com/Nomadcxx/neischeck/internal/ui"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage neischeck configuration",
		Long: `Commands for managing neischeck configuration.

The config file is stored at: ~/.config/neischeck/config.toml
Any key can be overridden with an environment variable, e.g.
NEISCHECK_READING_SIMILARITY_THRESHOLD=0.8.

Examples:
  neischeck config init              # Create default config file
  neischeck config show              # Display current configuration
  neischeck config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget()
			if err != nil {
				return err
			}
			if fileExists(path) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			ui.SuccessMsg("Created config file: %s", path)
			fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
			fmt.Fprintln(cmd.OutOrStdout(), "  1. Set year_prefix to the school year you are checking")
			fmt.Fprintln(cmd.OutOrStdout(), "  2. Adjust the column settings if your export differs")
			fmt.Fprintln(cmd.OutOrStdout(), "  3. Run 'neischeck config show' to review settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := configTarget()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if fileExists(path) {
				fmt.Fprintf(out, "# Config file: %s\n\n", path)
			} else {
				fmt.Fprintf(out, "# No config file at %s; showing defaults\n\n", path)
			}
			fmt.Fprint(out, cfg.ToTOML())
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configTarget() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.ConfigPath()
}
