// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the task-tracker CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/task-tracker/internal/store"
	"github.com/pdiddy/task-tracker/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration (defaults, config file, env, flags).
	cfg types.TrackerConfig

	// logger receives diagnostics on stderr at the configured level.
	logger = slog.New(slog.DiscardHandler)
)

// rootCmd is the base command for the task-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "task-tracker",
	Short: "Track project tasks and import them from PRD documents",
	Long: `task-tracker keeps projects and their tasks in a local SQLite database.
Tasks move through a workflow of todo, in_progress, and completed.

Tasks can be added one at a time or bulk-imported from a PRD (product
requirements document). The prd subcommands scan the document for task
headers such as "# Task: ..." and "Task 3: ...", falling back to one task
per short paragraph, and let you review the candidates before import.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		logger = newLogger(cfg.Log.Level, os.Stderr)
		logger.Debug("configuration loaded",
			"config_file", viper.ConfigFileUsed(),
			"data_dir", cfg.Store.DataDir,
		)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./task-tracker.yaml or ~/.config/task-tracker/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the task database (default \"data\")")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error")

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.db_file", "tracker.db")
	viper.SetDefault("store.max_results", 0)
	viper.SetDefault("import.create_project", false)
	viper.SetDefault("import.review_file", "prd-review.yaml")
	viper.SetDefault("task.default_priority", string(types.PriorityMedium))
	viper.SetDefault("log.level", "warn")

	_ = viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("task-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "task-tracker"))
		}
	}

	viper.SetEnvPrefix("TASK_TRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the task database described by the loaded configuration.
func openStore() (*store.Store, error) {
	return store.NewStore(cfg.Store, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
