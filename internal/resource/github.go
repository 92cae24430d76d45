// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// githubAPIBase is the GitHub REST API root. Declared as a var so tests can
// substitute an httptest server.
var githubAPIBase = "https://api.github.com"

// githubQualifier narrows repository search to dataset repositories.
const githubQualifier = "dataset"

// GitHubBackend searches repositories by star count. It requires a token
// and is skipped without one.
type GitHubBackend struct {
	Client    *http.Client
	Token     string
	UserAgent string
}

// Name returns the backend identifier.
func (b *GitHubBackend) Name() string { return "github" }

type githubSearchResponse struct {
	Items []struct {
		HTMLURL         string `json:"html_url"`
		FullName        string `json:"full_name"`
		StargazersCount int    `json:"stargazers_count"`
	} `json:"items"`
}

// Search finds repositories for "<query> dataset", most starred first.
// Quota refusals are reported as ErrRateLimited.
func (b *GitHubBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResourceLink, error) {
	if b.Token == "" {
		return nil, ErrNoCredential
	}

	params := url.Values{
		"q":     {strings.TrimSpace(query + " " + githubQualifier)},
		"sort":  {"stars"},
		"order": {"desc"},
	}
	if maxResults > 0 {
		params.Set("per_page", strconv.Itoa(maxResults))
	}

	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	h.Set("Authorization", "Bearer "+b.Token)
	h.Set("X-GitHub-Api-Version", "2022-11-28")
	if b.UserAgent != "" {
		h.Set("User-Agent", b.UserAgent)
	}

	var sr githubSearchResponse
	if err := httputil.GetJSON(ctx, b.Client, githubAPIBase+"/search/repositories?"+params.Encode(), h, &sr); err != nil {
		if isRateLimit(err) {
			return nil, fmt.Errorf("GitHub search: %w", ErrRateLimited)
		}
		return nil, fmt.Errorf("GitHub search: %w", err)
	}

	items := sr.Items
	if maxResults > 0 && len(items) > maxResults {
		items = items[:maxResults]
	}
	links := make([]types.ResourceLink, 0, len(items))
	for _, repo := range items {
		links = append(links, types.ResourceLink{
			URL:    repo.HTMLURL,
			Title:  repo.FullName,
			Notes:  fmt.Sprintf("GitHub Repo, stars: %d", repo.StargazersCount),
			Source: b.Name(),
		})
	}
	return links, nil
}

// isRateLimit reports whether err is a GitHub quota refusal: HTTP 429, or
// HTTP 403 with the remaining-requests header at zero.
func isRateLimit(err error) bool {
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return se.Header.Get("X-RateLimit-Remaining") == "0"
	}
	return false
}
