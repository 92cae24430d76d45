// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/usecase-engine/internal/secrets"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Config file keys. Environment variables use the same names upper-cased
// with the USECASE_ENGINE_ prefix and dots replaced by underscores.
const (
	keyMaxResults     = "research.max_results"
	keyResearchTO     = "research.timeout"
	keyDelayMin       = "research.delay_min"
	keyDelayMax       = "research.delay_max"
	keyModel          = "generation.model"
	keyTemperature    = "generation.temperature"
	keyMaxTokens      = "generation.max_tokens"
	keyMinUseCases    = "generation.min_use_cases"
	keyDatasetResults = "resources.max_results"
	keyResourceTO     = "resources.timeout"
	keyOutputDir      = "report.output_dir"
	keyHTML           = "report.html"
	keyPDF            = "report.pdf"
	keySnapshot       = "report.snapshot"
	keyArchivePath    = "report.archive_path"
)

func init() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// defaultArchivePath returns the run archive location under the XDG data
// directory.
func defaultArchivePath() string {
	return filepath.Join(xdg.DataHome, appName, types.DefaultArchiveFileName)
}

// pipelineConfig resolves the pipeline configuration. Precedence is flag,
// then config file or environment, then default. Credentials come from
// config, then the environment or .secrets/.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	cfg.Research.MaxResults = intSetting(cmd, "max-results", keyMaxResults, cfg.Research.MaxResults)
	cfg.Research.Timeout = durationSetting(cmd, "timeout", keyResearchTO, cfg.Research.Timeout)
	cfg.Research.DelayMin = durationSetting(cmd, "delay-min", keyDelayMin, cfg.Research.DelayMin)
	cfg.Research.DelayMax = durationSetting(cmd, "delay-max", keyDelayMax, cfg.Research.DelayMax)

	cfg.Generation.Model = stringSetting(cmd, "model", keyModel, cfg.Generation.Model)
	cfg.Generation.Temperature = floatSetting(cmd, "temperature", keyTemperature, cfg.Generation.Temperature)
	cfg.Generation.MaxTokens = intSetting(cmd, "max-tokens", keyMaxTokens, cfg.Generation.MaxTokens)
	cfg.Generation.MinUseCases = intSetting(cmd, "", keyMinUseCases, cfg.Generation.MinUseCases)

	cfg.Resources.MaxResults = intSetting(cmd, "dataset-results", keyDatasetResults, cfg.Resources.MaxResults)
	cfg.Resources.Timeout = durationSetting(cmd, "timeout", keyResourceTO, cfg.Resources.Timeout)

	cfg.Report.OutputDir = stringSetting(cmd, "output-dir", keyOutputDir, cfg.Report.OutputDir)
	cfg.Report.HTML = boolSetting(cmd, "html", keyHTML, cfg.Report.HTML)
	cfg.Report.PDF = boolSetting(cmd, "pdf", keyPDF, cfg.Report.PDF)
	cfg.Report.Snapshot = boolSetting(cmd, "snapshot", keySnapshot, cfg.Report.Snapshot)
	cfg.Report.ArchivePath = stringSetting(cmd, "", keyArchivePath, defaultArchivePath())
	if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
		cfg.Report.ArchivePath = ""
	}

	cfg.Research.SerpAPIKey = loadedSecrets.Or(secrets.SerpAPIKey, viper.GetString("research.serpapi_api_key"))
	cfg.Generation.APIKey = loadedSecrets.Or(secrets.AnthropicAPIKey, viper.GetString("generation.api_key"))
	cfg.Resources.GitHubToken = loadedSecrets.Or(secrets.GitHubToken, viper.GetString("resources.github_token"))
	cfg.Resources.HuggingFaceToken = loadedSecrets.Or(secrets.HuggingFaceToken, viper.GetString("resources.hf_token"))
	cfg.Resources.KaggleUsername = loadedSecrets.Or(secrets.KaggleUsername, viper.GetString("resources.kaggle_username"))
	cfg.Resources.KaggleKey = loadedSecrets.Or(secrets.KaggleKey, viper.GetString("resources.kaggle_key"))

	return cfg
}

// --- setting helpers ---

// flagChanged reports whether cmd defines flag and the user set it.
func flagChanged(cmd *cobra.Command, flag string) bool {
	if flag == "" {
		return false
	}
	f := cmd.Flags().Lookup(flag)
	return f != nil && f.Changed
}

func intSetting(cmd *cobra.Command, flag, key string, def int) int {
	if flagChanged(cmd, flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

func floatSetting(cmd *cobra.Command, flag, key string, def float64) float64 {
	if flagChanged(cmd, flag) {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return def
}

func stringSetting(cmd *cobra.Command, flag, key, def string) string {
	if flagChanged(cmd, flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func boolSetting(cmd *cobra.Command, flag, key string, def bool) bool {
	if flagChanged(cmd, flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return def
}

func durationSetting(cmd *cobra.Command, flag, key string, def time.Duration) time.Duration {
	if flagChanged(cmd, flag) {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return def
}
