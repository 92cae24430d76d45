// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/pdiddy/usecase-engine/internal/httputil"
)

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 5 << 20

// browserAgents are the User-Agent strings a fetch picks from.
var browserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0 Safari/537.36",
}

// browserHeaders are sent with every page fetch alongside a User-Agent.
var browserHeaders = map[string]string{
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.google.com/",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Connection":      "keep-alive",
}

// HTTPFetcher fetches pages while presenting itself as a desktop browser.
type HTTPFetcher struct {
	Client *http.Client

	// Agents overrides the User-Agent pool. Empty uses the built-in list.
	Agents []string
}

// NewHTTPFetcher returns a fetcher whose client gives up after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: httputil.NewClient(timeout)}
}

// Fetch issues one GET for url with a randomly chosen User-Agent.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent())
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	page := Page{StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return page, nil
	}
	page.Body, err = io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading body: %w", err)
	}
	return page, nil
}

func (f *HTTPFetcher) userAgent() string {
	agents := f.Agents
	if len(agents) == 0 {
		agents = browserAgents
	}
	return agents[rand.IntN(len(agents))]
}
