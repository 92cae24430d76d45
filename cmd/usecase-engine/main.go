// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the usecase-engine CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/usecase-engine/internal/logging"
	"github.com/pdiddy/usecase-engine/internal/secrets"
	"github.com/pdiddy/usecase-engine/internal/telemetry"
)

const appName = "usecase-engine"

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials from .secrets/ and the environment.
	loadedSecrets *secrets.Secrets

	// logger is the redacting logger shared by all subcommands.
	logger = slog.Default()

	// shutdownTracing flushes spans when the command returns.
	shutdownTracing telemetry.ShutdownFunc
)

// rootCmd is the base command for the usecase-engine CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Propose and rank AI use cases for a company or industry",
	Long: `usecase-engine researches a company or industry on the web, asks an LLM
for AI/GenAI use cases grounded in that research, attaches public datasets
and repositories from Kaggle, Hugging Face and GitHub, ranks the proposals
by impact and complexity, and writes a markdown report.

Run the whole pipeline with "run", or exercise single stages with
"research", "keywords" and "resources". Past runs are kept in a local
archive listed by "history".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose := viper.GetBool("verbose")
		if viper.GetBool("log_json") {
			logger = logging.NewJSON(os.Stderr, verbose)
		} else {
			logger = logging.New(os.Stderr, verbose)
		}
		slog.SetDefault(logger)

		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			logger.Info("loaded secrets", "keys", names)
		}

		shutdown, err := telemetry.Setup(cmd.Context(), viper.GetString("otlp_endpoint"))
		if err != nil {
			return err
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(context.WithoutCancel(cmd.Context()))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./usecase-engine.yaml or $XDG_CONFIG_HOME/usecase-engine/usecase-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP/HTTP endpoint for traces (e.g. http://localhost:4318)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = viper.BindPFlag("otlp_endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	viper.SetEnvPrefix("USECASE_ENGINE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
