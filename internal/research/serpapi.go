// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/usecase-engine/internal/httputil"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// SerpAPI runs Google searches through SerpAPI.
type SerpAPI struct {
	Client *http.Client
	APIKey string
}

// Search returns the organic results for query. Provider-reported errors
// are returned in SearchResponse.Error when the body carries one.
func (s *SerpAPI) Search(ctx context.Context, query string) (SearchResponse, error) {
	if s.APIKey == "" {
		return SearchResponse{}, errors.New("SerpAPI key not configured")
	}
	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"api_key": {s.APIKey},
	}

	var resp SearchResponse
	if err := httputil.GetJSON(ctx, s.Client, serpAPIBase+"?"+params.Encode(), nil, &resp); err != nil {
		return SearchResponse{}, fmt.Errorf("SerpAPI request: %w", err)
	}
	return resp, nil
}
