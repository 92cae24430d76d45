// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/usecase-engine/internal/httputil"
	"github.com/pdiddy/usecase-engine/pkg/types"
)

// kaggleAPIBase is the Kaggle public API root. Declared as a var so tests
// can substitute an httptest server.
var kaggleAPIBase = "https://www.kaggle.com/api/v1"

const (
	kaggleSiteBase    = "https://www.kaggle.com/"
	kaggleUntitled    = "Untitled Dataset"
	kaggleSizeMissing = ", Size info not available"
	bytesPerMegabyte  = 1024 * 1024
	kaggleSortHottest = "hottest"
	kaggleBackendName = "kaggle"
)

// KaggleBackend lists Kaggle datasets sorted by current popularity.
type KaggleBackend struct {
	Client    *http.Client
	Username  string
	Key       string
	UserAgent string
}

// Name returns the backend identifier.
func (b *KaggleBackend) Name() string { return kaggleBackendName }

type kaggleDataset struct {
	Ref           string `json:"ref"`
	Title         string `json:"title"`
	DownloadCount int    `json:"downloadCount"`
	ViewCount     int    `json:"viewCount"`
}

type kaggleFileList struct {
	DatasetFiles []struct {
		Name       string `json:"name"`
		TotalBytes int64  `json:"totalBytes"`
	} `json:"datasetFiles"`
}

// Search lists datasets matching query. For each hit a second call sums
// the dataset's file sizes; when that call fails the size is left out of
// the notes and the hit is kept.
func (b *KaggleBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResourceLink, error) {
	if b.Username == "" || b.Key == "" {
		return nil, ErrNoCredential
	}

	params := url.Values{
		"search": {query},
		"sortBy": {kaggleSortHottest},
	}
	var datasets []kaggleDataset
	if err := httputil.GetJSON(ctx, b.Client, kaggleAPIBase+"/datasets/list?"+params.Encode(), b.header(), &datasets); err != nil {
		return nil, fmt.Errorf("Kaggle dataset list: %w", err)
	}

	if maxResults > 0 && len(datasets) > maxResults {
		datasets = datasets[:maxResults]
	}

	links := make([]types.ResourceLink, 0, len(datasets))
	for _, ds := range datasets {
		title := ds.Title
		if title == "" {
			title = kaggleUntitled
		}
		notes := fmt.Sprintf("Kaggle Dataset - Downloads: %d, Views: %d", ds.DownloadCount, ds.ViewCount)
		if size, ok, err := b.totalSize(ctx, ds.Ref); err == nil {
			if ok {
				notes += fmt.Sprintf(", Total Size: %.2f MB", float64(size)/bytesPerMegabyte)
			} else {
				notes += kaggleSizeMissing
			}
		}
		links = append(links, types.ResourceLink{
			URL:    kaggleSiteBase + ds.Ref,
			Title:  title,
			Notes:  notes,
			Source: kaggleBackendName,
		})
	}
	return links, nil
}

// totalSize sums the byte counts of every file in the dataset. ok is false
// when the dataset lists no files.
func (b *KaggleBackend) totalSize(ctx context.Context, ref string) (int64, bool, error) {
	fileURL, err := kaggleFilesURL(ref)
	if err != nil {
		return 0, false, err
	}
	var files kaggleFileList
	if err := httputil.GetJSON(ctx, b.Client, fileURL, b.header(), &files); err != nil {
		return 0, false, err
	}
	if len(files.DatasetFiles) == 0 {
		return 0, false, nil
	}
	var total int64
	for _, f := range files.DatasetFiles {
		total += f.TotalBytes
	}
	return total, true, nil
}

// kaggleFilesURL builds the file-list URL for an "owner/slug" ref. Each
// segment is path-escaped; empty and dot segments are rejected so a ref
// cannot leave the datasets/list prefix.
func kaggleFilesURL(ref string) (string, error) {
	elems := []string{"datasets", "list"}
	for _, seg := range strings.Split(strings.Trim(ref, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid Kaggle dataset ref %q", ref)
		}
		elems = append(elems, url.PathEscape(seg))
	}
	return url.JoinPath(kaggleAPIBase, elems...)
}

func (b *KaggleBackend) header() http.Header {
	h := http.Header{}
	creds := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Key))
	h.Set("Authorization", "Basic "+creds)
	if b.UserAgent != "" {
		h.Set("User-Agent", b.UserAgent)
	}
	return h
}
