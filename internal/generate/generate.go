// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns research text into structured use-case proposals.
// It renders one prompt per run, sends it to an LLM, and recovers labelled
// blocks from the free-form reply.
package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// CompletionRequest is one prompt plus the sampling settings for it.
type CompletionRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLM abstracts the text-completion provider so tests can supply a fake.
type LLM interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Generator produces use cases for a subject from research documents.
type Generator struct {
	llm    LLM
	cfg    types.GenerationConfig
	logger *slog.Logger
}

// New returns a Generator. Zero values in cfg fall back to the package
// defaults; a nil logger uses slog.Default().
func New(llm LLM, cfg types.GenerationConfig, logger *slog.Logger) *Generator {
	if cfg.Model == "" {
		cfg.Model = types.DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = types.DefaultMaxTokens
	}
	if cfg.MinUseCases <= 0 {
		cfg.MinUseCases = types.DefaultMinUseCases
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, cfg: cfg, logger: logger}
}

// Generate returns the use cases parsed from a single LLM call over the
// concatenated document text. It returns nil without calling the LLM when
// no document carries text, and nil when the call fails.
func (g *Generator) Generate(ctx context.Context, subject string, docs []types.ResearchDocument) []types.UseCase {
	corpus := JoinContext(docs)
	if corpus == "" {
		g.logger.Warn("no research context available to generate use cases", "subject", subject)
		return nil
	}

	prompt, err := BuildPrompt(subject, corpus)
	if err != nil {
		g.logger.Error("building prompt", "error", err)
		return nil
	}

	raw, err := g.llm.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		g.logger.Error("generating use cases", "subject", subject, "error", err)
		return nil
	}

	useCases := ParseUseCases(raw)
	if len(useCases) < g.cfg.MinUseCases {
		g.logger.Warn("fewer use cases than expected",
			"subject", subject, "parsed", len(useCases), "min", g.cfg.MinUseCases)
		g.logger.Debug("raw model output", "output", raw)
	}
	return useCases
}

// JoinContext concatenates the non-empty text of docs with newlines.
func JoinContext(docs []types.ResearchDocument) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Text != "" {
			parts = append(parts, d.Text)
		}
	}
	return strings.Join(parts, "\n")
}
