// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent to JSON APIs
	// (e.g. "usecase-engine/0.1"). Page fetches use a rotating browser identity instead.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResearchConfig holds settings for the research stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of organic search results to fetch (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DelayMin is the lower bound of the pause before each page fetch (default 2s).
	DelayMin time.Duration `json:"delay_min" yaml:"delay_min"`

	// DelayMax is the upper bound of the pause before each page fetch (default 5s).
	DelayMax time.Duration `json:"delay_max" yaml:"delay_max"`

	// SerpAPIKey authenticates against the search API. Required.
	SerpAPIKey string `json:"serpapi_api_key,omitempty" yaml:"serpapi_api_key,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. Required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the length of the completion (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// GenerationConfig holds settings for the use-case generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// MinUseCases is the count below which a quality warning is logged (default 3).
	MinUseCases int `json:"min_use_cases" yaml:"min_use_cases"`
}

// ResourceConfig holds settings for the resource finding stage.
type ResourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of links each backend may contribute (default 2).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// GitHubToken enables the GitHub backend. Without it the backend is skipped.
	GitHubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty"`

	// HuggingFaceToken is an optional token for the Hugging Face Hub.
	HuggingFaceToken string `json:"hf_token,omitempty" yaml:"hf_token,omitempty"`

	// KaggleUsername and KaggleKey authenticate against the Kaggle API.
	KaggleUsername string `json:"kaggle_username,omitempty" yaml:"kaggle_username,omitempty"`
	KaggleKey      string `json:"kaggle_key,omitempty" yaml:"kaggle_key,omitempty"`
}

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// OutputDir is the directory reports are written to (default "outputs").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// HTML also renders the report as a standalone HTML page.
	HTML bool `json:"html" yaml:"html"`

	// PDF also prints the report to PDF through a headless browser.
	PDF bool `json:"pdf" yaml:"pdf"`

	// Snapshot writes a YAML snapshot of the run next to the report (default true).
	Snapshot bool `json:"snapshot" yaml:"snapshot"`

	// ArchivePath is the SQLite run archive. Empty disables archiving.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Resources  ResourceConfig   `json:"resources" yaml:"resources"`
	Report     ReportConfig     `json:"report" yaml:"report"`
}

// Defaults used by DefaultPipelineConfig.
const (
	DefaultUserAgent       = "usecase-engine/0.1"
	DefaultModel           = "claude-sonnet-4-5-20250929"
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 4096
	DefaultSearchResults   = 3
	DefaultDatasetResults  = 2
	DefaultMinUseCases     = 3
	DefaultRequestTimeout  = 15 * time.Second
	DefaultFetchDelayMin   = 2 * time.Second
	DefaultFetchDelayMax   = 5 * time.Second
	DefaultOutputDir       = "outputs"
	DefaultArchiveFileName = "runs.db"
)

// DefaultPipelineConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	httpCfg := HTTPConfig{Timeout: DefaultRequestTimeout, UserAgent: DefaultUserAgent}
	return PipelineConfig{
		Research: ResearchConfig{
			HTTPConfig: httpCfg,
			MaxResults: DefaultSearchResults,
			DelayMin:   DefaultFetchDelayMin,
			DelayMax:   DefaultFetchDelayMax,
		},
		Generation: GenerationConfig{
			AIConfig: AIConfig{
				Model:       DefaultModel,
				Temperature: DefaultTemperature,
				MaxTokens:   DefaultMaxTokens,
			},
			MinUseCases: DefaultMinUseCases,
		},
		Resources: ResourceConfig{
			HTTPConfig: httpCfg,
			MaxResults: DefaultDatasetResults,
		},
		Report: ReportConfig{
			OutputDir: DefaultOutputDir,
			Snapshot:  true,
		},
	}
}

// Configuration errors returned by Validate.
var (
	ErrMissingSerpAPIKey   = errors.New("missing search API key: set SERPAPI_API_KEY or .secrets/serpapi-api-key")
	ErrMissingAnthropicKey = errors.New("missing LLM API key: set ANTHROPIC_API_KEY or .secrets/anthropic-api-key")
)

// Validate reports every required credential that is missing.
func (c PipelineConfig) Validate() error {
	var errs []error
	if c.Research.SerpAPIKey == "" {
		errs = append(errs, ErrMissingSerpAPIKey)
	}
	if c.Generation.APIKey == "" {
		errs = append(errs, ErrMissingAnthropicKey)
	}
	return errors.Join(errs...)
}
