// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsletter-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-engine/internal/logging"
	"github.com/pdiddy/newsletter-engine/internal/secrets"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger carries diagnostics; pipeline progress goes to stdout.
var logger *slog.Logger

// logCleanup closes the debug log file, when one is open.
var logCleanup = func() error { return nil }

// rootCmd is the base command for the newsletter-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "newsletter-engine",
	Short: "Agent pipeline for topic newsletters",
	Long: `newsletter-engine coordinates four role-specialized language-model agents
(researcher, insights expert, writer, editor) in a fixed linear pipeline to
produce a topic newsletter. Two recency-bounded web searches run first and
their results are injected into the research and insights stages.

Use generate to run the pipeline, search for a one-off web search, and
archive to browse previously generated newsletters.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		logger, logCleanup = logging.Setup(
			viper.GetString("log_file"),
			logging.ParseLevel(viper.GetString("log_level")),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logCleanup()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./newsletter-engine.yaml or ~/.config/newsletter-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostics log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "optional JSON debug log file")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("newsletter-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "newsletter-engine"))
		}
	}

	viper.SetEnvPrefix("NEWSLETTER_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig resolves the pipeline configuration from config file,
// environment, and the secrets directory. Credentials end up as explicit
// fields; no component reads the environment on its own.
func buildConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: "newsletter-engine/" + version,
			},
			APIKey:     secrets.Resolve(loadedSecrets, "exa-api-key", viper.GetString("search.api_key")),
			MaxResults: viper.GetInt("search.max_results"),
		},
		Agent: types.AgentConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("agent.timeout"),
				UserAgent: "newsletter-engine/" + version,
			},
			Model:       viper.GetString("agent.model"),
			APIKey:      secrets.Resolve(loadedSecrets, "openai-api-key", viper.GetString("agent.api_key")),
			Temperature: viper.GetFloat64("agent.temperature"),
			MaxTokens:   viper.GetInt("agent.max_tokens"),
		},
		Archive: types.ArchiveConfig{
			Path:       viper.GetString("archive.path"),
			MaxResults: viper.GetInt("archive.max_results"),
		},
		RolesFile: viper.GetString("roles_file"),
	}

	if cfg.Agent.Model == "" {
		cfg.Agent.Model = "gpt-4-turbo"
	}
	if cfg.Agent.Temperature == 0 {
		cfg.Agent.Temperature = 0.1
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 5
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
