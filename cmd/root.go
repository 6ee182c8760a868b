// Package cmd provides the CLI commands for somatic.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/somatic/internal/adapters/tui"
	"github.com/xvierd/somatic/internal/config"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath   string
	durationFlag int
	logLevelFlag string
	jsonOutput   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "somatic",
	Short: "Somatic - guided body-state regulation sessions",
	Long: `Somatic runs short guided sessions that help move the body out of a
heavy, anxious or chaotic state.

Run "somatic" with no arguments to check in and start a session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.somatic/config.toml)")
	rootCmd.PersistentFlags().IntVarP(&durationFlag, "duration", "d", 0, "Session length in seconds (overrides session.duration_seconds)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Somatic\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(moodsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// runSession launches the full-screen check-in / player / afterglow flow.
func runSession(cmd *cobra.Command, args []string) error {
	sess, err := newSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := setupSignalHandler()
	defer stop()

	program := tui.NewProgram(sess.ctrl, sess.loop, tui.Options{
		Theme:                &app.config.Theme,
		NotificationsEnabled: app.config.Notifications.Enabled,
		OnNotificationToggle: func(enabled bool) {
			app.config.Notifications.Enabled = enabled
			if err := config.Save(app.configPath, app.config); err != nil {
				app.logger.Warn("failed to persist notification setting", "err", err)
			}
		},
	})

	if err := program.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session error: %w", err)
	}
	return nil
}
