// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers readable text about a company or industry. It
// asks a web search provider for organic results, then fetches each page
// with a browser identity and keeps the text of its paragraphs.
package research

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// querySuffix is appended to the subject to form the search query.
const querySuffix = " company profile and recent news"

// OrganicResult is one unpaid search hit.
type OrganicResult struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// SearchResponse is the part of a search reply the collector reads. Error
// is set when the provider reports a problem inside an otherwise valid reply.
type SearchResponse struct {
	Error   string          `json:"error,omitempty"`
	Organic []OrganicResult `json:"organic_results"`
}

// SearchProvider runs a web search.
type SearchProvider interface {
	Search(ctx context.Context, query string) (SearchResponse, error)
}

// Page is a fetched web page.
type Page struct {
	StatusCode int
	Body       []byte
}

// PageFetcher retrieves a page. Non-200 statuses are returned in Page, not
// as errors; err is reserved for transport failures.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Collector runs the research stage.
type Collector struct {
	search  SearchProvider
	fetcher PageFetcher
	pacer   Pacer
	logger  *slog.Logger
}

// NewCollector returns a Collector. A nil pacer disables the inter-fetch
// delay; a nil logger uses slog.Default().
func NewCollector(search SearchProvider, fetcher PageFetcher, pacer Pacer, logger *slog.Logger) *Collector {
	if pacer == nil {
		pacer = NoDelay{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{search: search, fetcher: fetcher, pacer: pacer, logger: logger}
}

// SearchQuery returns the query the collector sends for subject.
func SearchQuery(subject string) string {
	return subject + querySuffix
}

// Collect searches for subject and returns one document for each of the
// first maxResults organic hits whose page yielded paragraph text. Every
// failure is logged and skipped; Collect never returns an error.
func (c *Collector) Collect(ctx context.Context, subject string, maxResults int) []types.ResearchDocument {
	if maxResults <= 0 {
		maxResults = types.DefaultSearchResults
	}

	resp, err := c.search.Search(ctx, SearchQuery(subject))
	if err != nil {
		c.logger.Error("web search failed", "subject", subject, "error", err)
		return nil
	}
	if resp.Error != "" {
		c.logger.Error("web search returned an error", "subject", subject, "error", resp.Error)
		return nil
	}
	if len(resp.Organic) == 0 {
		c.logger.Warn("no organic results found", "subject", subject)
		return nil
	}

	hits := resp.Organic
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	var docs []types.ResearchDocument
	for _, hit := range hits {
		if hit.Link == "" || hit.Title == "" {
			continue
		}
		if err := sleep(ctx, c.pacer.NextDelay()); err != nil {
			c.logger.Warn("research interrupted", "error", err)
			break
		}
		if doc, ok := c.scrape(ctx, hit); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// scrape fetches one hit and extracts its paragraph text.
func (c *Collector) scrape(ctx context.Context, hit OrganicResult) (types.ResearchDocument, bool) {
	page, err := c.fetcher.Fetch(ctx, hit.Link)
	if err != nil {
		c.logger.Warn("error scraping page", "url", hit.Link, "error", err)
		return types.ResearchDocument{}, false
	}
	switch page.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		c.logger.Warn("page forbidden, skipping", "url", hit.Link)
		return types.ResearchDocument{}, false
	default:
		c.logger.Warn("page fetch failed", "url", hit.Link, "status", page.StatusCode)
		return types.ResearchDocument{}, false
	}

	text, err := ExtractParagraphs(bytes.NewReader(page.Body))
	if err != nil {
		c.logger.Warn("parsing page", "url", hit.Link, "error", err)
		return types.ResearchDocument{}, false
	}
	if text == "" {
		c.logger.Debug("page has no paragraph text", "url", hit.Link)
		return types.ResearchDocument{}, false
	}
	c.logger.Info("scraped page", "url", hit.Link, "chars", len(text))
	return types.ResearchDocument{URL: hit.Link, Title: hit.Title, Text: text}, true
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
