// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resource finds public datasets and repositories relevant to each
// use case. Each catalog is a Backend; the Finder queries them one after
// another and isolates every call so a failing catalog only loses its own
// contribution.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// Backend searches a single resource catalog.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.ResourceLink, error)
}

// Sentinel errors a Backend returns to signal a non-failure outcome.
var (
	// ErrNoCredential means the backend is not configured and made no call.
	ErrNoCredential = errors.New("no credential configured")

	// ErrRateLimited means the provider refused the call for quota reasons.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Outcome classifies one backend call.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmpty       Outcome = "empty"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeFailed      Outcome = "failed"
)

// Result is the explicit record of one backend call for one query.
type Result struct {
	Backend string
	Query   string
	Links   []types.ResourceLink
	Outcome Outcome
	Err     error
}

// Summary counts backend outcomes across a batch of use cases.
type Summary struct {
	OK          int
	Empty       int
	Skipped     int
	RateLimited int
	Failed      int

	// Errors lists failed and rate-limited calls as "backend: error".
	Errors []string
}

// Total returns the number of backend calls attempted or skipped.
func (s Summary) Total() int {
	return s.OK + s.Empty + s.Skipped + s.RateLimited + s.Failed
}

// HasFailures reports whether any backend call failed or was rate limited.
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.RateLimited > 0
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case OutcomeOK:
		s.OK++
	case OutcomeEmpty:
		s.Empty++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeRateLimited:
		s.RateLimited++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", r.Backend, r.Err))
	case OutcomeFailed:
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", r.Backend, r.Err))
	}
}

// Finder attaches resource links to use cases.
type Finder struct {
	backends   []Backend
	maxResults int
	logger     *slog.Logger
}

// NewFinder returns a Finder that queries backends in the given order.
func NewFinder(backends []Backend, cfg types.ResourceConfig, logger *slog.Logger) *Finder {
	n := cfg.MaxResults
	if n <= 0 {
		n = types.DefaultDatasetResults
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{backends: backends, maxResults: n, logger: logger}
}

// NewBackends builds the Kaggle, Hugging Face and GitHub backends, in that
// order, sharing one HTTP client.
func NewBackends(cfg types.ResourceConfig, client *http.Client) []Backend {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	return []Backend{
		&KaggleBackend{Client: client, Username: cfg.KaggleUsername, Key: cfg.KaggleKey, UserAgent: cfg.UserAgent},
		&HuggingFaceBackend{Client: client, Token: cfg.HuggingFaceToken, UserAgent: cfg.UserAgent},
		&GitHubBackend{Client: client, Token: cfg.GitHubToken, UserAgent: cfg.UserAgent},
	}
}

// Attach returns copies of useCases with Resources replaced by the links
// every backend returned for that use case's query, in backend order.
// Backend errors never propagate; they are logged and counted.
func (f *Finder) Attach(ctx context.Context, useCases []types.UseCase) ([]types.UseCase, Summary) {
	var summary Summary
	out := make([]types.UseCase, 0, len(useCases))
	for _, uc := range useCases {
		c := uc.Clone()
		q := Query(uc.Title, uc.Description)
		links, results := f.Find(ctx, q)
		for _, r := range results {
			summary.add(r)
		}
		c.Resources = links
		out = append(out, c)
	}
	return out, summary
}

// Find runs query against every backend and returns the concatenated links
// together with the per-backend results.
func (f *Finder) Find(ctx context.Context, query string) ([]types.ResourceLink, []Result) {
	var links []types.ResourceLink
	results := make([]Result, 0, len(f.backends))
	for _, b := range f.backends {
		r := f.call(ctx, b, query)
		results = append(results, r)
		links = append(links, r.Links...)
	}
	return links, results
}

// call runs one backend and classifies the outcome.
func (f *Finder) call(ctx context.Context, b Backend, query string) Result {
	r := Result{Backend: b.Name(), Query: query}
	links, err := b.Search(ctx, query, f.maxResults)
	switch {
	case errors.Is(err, ErrNoCredential):
		r.Outcome = OutcomeSkipped
		f.logger.Info("skipping resource backend", "backend", r.Backend, "reason", err)
	case errors.Is(err, ErrRateLimited):
		r.Outcome, r.Err = OutcomeRateLimited, err
		f.logger.Warn("resource backend rate limited; wait or use a credential with a higher limit", "backend", r.Backend)
	case err != nil:
		r.Outcome, r.Err = OutcomeFailed, err
		f.logger.Warn("resource backend failed", "backend", r.Backend, "query", query, "error", err)
	case len(links) == 0:
		r.Outcome = OutcomeEmpty
		f.logger.Info("no resources found", "backend", r.Backend, "query", query)
	default:
		if len(links) > f.maxResults {
			links = links[:f.maxResults]
		}
		r.Outcome, r.Links = OutcomeOK, links
		f.logger.Debug("resources found", "backend", r.Backend, "query", query, "count", len(links))
	}
	return r
}
