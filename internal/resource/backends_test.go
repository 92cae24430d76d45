// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBase points a package-level API base at ts for the duration of a test.
func withBase(t *testing.T, base *string, ts *httptest.Server) {
	t.Helper()
	old := *base
	*base = ts.URL
	t.Cleanup(func() { *base = old })
}

// --- Kaggle ---

func TestKaggleSearch(t *testing.T) {
	var listQuery, auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/datasets/list":
			listQuery = r.URL.RawQuery
			auth = r.Header.Get("Authorization")
			fmt.Fprint(w, `[
				{"ref":"alice/churn","title":"Telco Churn","downloadCount":1200,"viewCount":9000},
				{"ref":"bob/empty","title":"","downloadCount":3,"viewCount":10},
				{"ref":"carol/broken","title":"Broken","downloadCount":1,"viewCount":2},
				{"ref":"dave/extra","title":"Extra","downloadCount":0,"viewCount":0}
			]`)
		case r.URL.Path == "/datasets/list/alice/churn":
			fmt.Fprint(w, `{"datasetFiles":[{"name":"a.csv","totalBytes":1048576},{"name":"b.csv","totalBytes":524288}]}`)
		case r.URL.Path == "/datasets/list/bob/empty":
			fmt.Fprint(w, `{"datasetFiles":[]}`)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer ts.Close()
	withBase(t, &kaggleAPIBase, ts)

	b := &KaggleBackend{Client: ts.Client(), Username: "user", Key: "secret"}
	links, err := b.Search(context.Background(), "customer churn", 3)
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Contains(t, listQuery, "search=customer+churn")
	assert.Contains(t, listQuery, "sortBy=hottest")
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("user:secret")), auth)

	assert.Equal(t, "https://www.kaggle.com/alice/churn", links[0].URL)
	assert.Equal(t, "Telco Churn", links[0].Title)
	assert.Equal(t, "Kaggle Dataset - Downloads: 1200, Views: 9000, Total Size: 1.50 MB", links[0].Notes)
	assert.Equal(t, "kaggle", links[0].Source)

	assert.Equal(t, "Untitled Dataset", links[1].Title)
	assert.Equal(t, "Kaggle Dataset - Downloads: 3, Views: 10, Size info not available", links[1].Notes)

	assert.Equal(t, "Kaggle Dataset - Downloads: 1, Views: 2", links[2].Notes, "failed size lookup omits size")
}

func TestKaggleFilesURL(t *testing.T) {
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "alice/churn", want: "https://www.kaggle.com/api/v1/datasets/list/alice/churn"},
		{ref: "/alice/churn/", want: "https://www.kaggle.com/api/v1/datasets/list/alice/churn"},
		{ref: "eve/q?x=1#frag", want: "https://www.kaggle.com/api/v1/datasets/list/eve/q%3Fx=1%23frag"},
		{ref: "eve/a b", want: "https://www.kaggle.com/api/v1/datasets/list/eve/a%20b"},
		{ref: "eve/a%2Fb", want: "https://www.kaggle.com/api/v1/datasets/list/eve/a%252Fb"},
		{ref: "../../secrets", wantErr: true},
		{ref: "eve//x", wantErr: true},
		{ref: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := kaggleFilesURL(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKaggleRefCannotChangeRequest(t *testing.T) {
	var filePaths, fileQueries []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/datasets/list" {
			fmt.Fprint(w, `[
				{"ref":"eve/q?sortBy=stolen","title":"Query","downloadCount":1,"viewCount":1},
				{"ref":"../../admin","title":"Dots","downloadCount":2,"viewCount":2}
			]`)
			return
		}
		filePaths = append(filePaths, r.URL.Path)
		fileQueries = append(fileQueries, r.URL.RawQuery)
		fmt.Fprint(w, `{"datasetFiles":[{"name":"a.csv","totalBytes":1048576}]}`)
	}))
	defer ts.Close()
	withBase(t, &kaggleAPIBase, ts)

	b := &KaggleBackend{Client: ts.Client(), Username: "u", Key: "k"}
	links, err := b.Search(context.Background(), "q", 5)
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, []string{"/datasets/list/eve/q?sortBy=stolen"}, filePaths)
	assert.Equal(t, []string{""}, fileQueries)
	assert.Contains(t, links[0].Notes, "Total Size: 1.00 MB")
	assert.Equal(t, "Kaggle Dataset - Downloads: 2, Views: 2", links[1].Notes, "rejected ref omits size")
}

func TestKaggleSkippedWithoutCredentials(t *testing.T) {
	b := &KaggleBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), "q", 2)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestKaggleListFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()
	withBase(t, &kaggleAPIBase, ts)

	b := &KaggleBackend{Client: ts.Client(), Username: "u", Key: "k"}
	_, err := b.Search(context.Background(), "q", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

// --- Hugging Face ---

func TestHuggingFaceSearch(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `[{"id":"acme/support-chats","downloads":5400},{"id":"plain","downloads":7},{"id":""}]`)
	}))
	defer ts.Close()
	withBase(t, &hubAPIBase, ts)

	b := &HuggingFaceBackend{Client: ts.Client(), Token: "hf_test"}
	links, err := b.Search(context.Background(), "support chat", 2)
	require.NoError(t, err)
	require.Len(t, links, 2)

	q := captured.URL.Query()
	assert.Equal(t, "support chat", q.Get("search"))
	assert.Equal(t, "downloads", q.Get("sort"))
	assert.Equal(t, "2", q.Get("limit"))
	assert.Equal(t, "Bearer hf_test", captured.Header.Get("Authorization"))

	assert.Equal(t, "https://huggingface.co/datasets/acme/support-chats", links[0].URL)
	assert.Equal(t, "support-chats", links[0].Title)
	assert.Equal(t, "HuggingFace Dataset, downloads: 5400", links[0].Notes)
	assert.Equal(t, "plain", links[1].Title)
}

func TestHuggingFaceAnonymous(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()
	withBase(t, &hubAPIBase, ts)

	b := &HuggingFaceBackend{Client: ts.Client()}
	links, err := b.Search(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Empty(t, auth)
}

// --- GitHub ---

func TestGitHubSearch(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"items":[
			{"html_url":"https://github.com/acme/chatlogs","full_name":"acme/chatlogs","stargazers_count":321},
			{"html_url":"https://github.com/acme/other","full_name":"acme/other","stargazers_count":12},
			{"html_url":"https://github.com/acme/third","full_name":"acme/third","stargazers_count":1}
		]}`)
	}))
	defer ts.Close()
	withBase(t, &githubAPIBase, ts)

	b := &GitHubBackend{Client: ts.Client(), Token: "ghp_test"}
	links, err := b.Search(context.Background(), "chat logs", 2)
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, "/search/repositories", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, "chat logs dataset", q.Get("q"))
	assert.Equal(t, "stars", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "2", q.Get("per_page"))
	assert.Equal(t, "Bearer ghp_test", captured.Header.Get("Authorization"))

	assert.Equal(t, "https://github.com/acme/chatlogs", links[0].URL)
	assert.Equal(t, "acme/chatlogs", links[0].Title)
	assert.Equal(t, "GitHub Repo, stars: 321", links[0].Notes)
}

func TestGitHubSkippedWithoutToken(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer ts.Close()
	withBase(t, &githubAPIBase, ts)

	b := &GitHubBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), "q", 2)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, calls, "no call is made without a token")
}

func TestGitHubErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		remaining     string
		wantRateLimit bool
	}{
		{"429", http.StatusTooManyRequests, "", true},
		{"403 quota exhausted", http.StatusForbidden, "0", true},
		{"403 forbidden", http.StatusForbidden, "42", false},
		{"500", http.StatusInternalServerError, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.remaining != "" {
					w.Header().Set("X-RateLimit-Remaining", tt.remaining)
				}
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()
			withBase(t, &githubAPIBase, ts)

			b := &GitHubBackend{Client: ts.Client(), Token: "t"}
			_, err := b.Search(context.Background(), "q", 2)
			require.Error(t, err)
			assert.Equal(t, tt.wantRateLimit, errors.Is(err, ErrRateLimited))
			assert.True(t, strings.HasPrefix(err.Error(), "GitHub search"))
		})
	}
}
