package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xvierd/somatic/internal/config"
	"github.com/xvierd/somatic/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the session configuration",
	Long:  `Show the effective configuration, print the config file path, or persist the session length.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := app.config

		if jsonOutput {
			jsonData, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		duration := "not set"
		if cfg.Session.DurationSeconds != 0 {
			duration = fmt.Sprintf("%ds", cfg.Session.DurationSeconds)
		}
		notifStatus := "off"
		if cfg.Notifications.Enabled {
			notifStatus = "on"
			if cfg.Notifications.Sound {
				notifStatus = "on (with sound)"
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Session length:   %s\n", duration)
		fmt.Fprintf(out, "    Grace:            %s\n", cfg.Session.Grace)
		fmt.Fprintf(out, "    Phase dwell:      %v\n", cfg.Afterglow.PhaseDwell)
		fmt.Fprintf(out, "    Auto-dismiss:     %s\n", cfg.Afterglow.AutoDismiss)
		fmt.Fprintf(out, "    Notifications:    %s\n", notifStatus)
		fmt.Fprintf(out, "    Log:              %s (%s)\n", cfg.Log.File, cfg.Log.Level)
		fmt.Fprintln(out)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.configPath)
		return nil
	},
}

var configDurationCmd = &cobra.Command{
	Use:   "duration <seconds>",
	Short: "Persist the session length",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}
		if seconds <= 0 {
			return fmt.Errorf("%w: %d", domain.ErrInvalidDuration, seconds)
		}

		app.config.Session.DurationSeconds = seconds
		if err := config.Save(app.configPath, app.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "  Saved: sessions last %ds\n", seconds)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configDurationCmd)
}
