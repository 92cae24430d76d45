// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// hubAPIBase is the Hugging Face Hub dataset search endpoint. Declared as a
// var so tests can substitute an httptest server.
var hubAPIBase = "https://huggingface.co/api/datasets"

const hubDatasetBase = "https://huggingface.co/datasets/"

// HuggingFaceBackend lists Hub datasets sorted by downloads. The token is
// optional; anonymous calls work with a lower rate limit.
type HuggingFaceBackend struct {
	Client    *http.Client
	Token     string
	UserAgent string
}

// Name returns the backend identifier.
func (b *HuggingFaceBackend) Name() string { return "huggingface" }

type hubDataset struct {
	ID        string `json:"id"`
	Downloads int    `json:"downloads"`
}

// Search lists datasets matching query, most downloaded first.
func (b *HuggingFaceBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResourceLink, error) {
	params := url.Values{
		"search":    {query},
		"sort":      {"downloads"},
		"direction": {"-1"},
	}
	if maxResults > 0 {
		params.Set("limit", strconv.Itoa(maxResults))
	}

	h := http.Header{}
	if b.Token != "" {
		h.Set("Authorization", "Bearer "+b.Token)
	}
	if b.UserAgent != "" {
		h.Set("User-Agent", b.UserAgent)
	}

	var datasets []hubDataset
	if err := httputil.GetJSON(ctx, b.Client, hubAPIBase+"?"+params.Encode(), h, &datasets); err != nil {
		return nil, fmt.Errorf("Hugging Face dataset search: %w", err)
	}

	links := make([]types.ResourceLink, 0, len(datasets))
	for _, ds := range datasets {
		if ds.ID == "" {
			continue
		}
		links = append(links, types.ResourceLink{
			URL:    hubDatasetBase + ds.ID,
			Title:  ds.ID[strings.LastIndex(ds.ID, "/")+1:],
			Notes:  fmt.Sprintf("HuggingFace Dataset, downloads: %d", ds.Downloads),
			Source: b.Name(),
		})
	}
	return links, nil
}
