// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/ledger"
	"github.com/pdiddy/content-extract/pkg/types"
)

// pageAdapter writes a one-line article for any URL on pages.test and fails
// everything else.
type pageAdapter struct{}

func (pageAdapter) ResourceType() string { return "web" }

func (pageAdapter) CanHandle(string, string) bool { return true }

func (pageAdapter) Extract(_ context.Context, url, _ string, dir string) types.ExtractionResult {
	if !strings.Contains(url, "pages.test") {
		return types.ExtractionResult{ResourceType: "web", Error: "not reachable"}
	}
	path, err := article.WriteFile(dir, article.MainFile, []byte("# Page\n"))
	if err != nil {
		return types.Failed("web", err)
	}
	res := types.Succeeded("web", path)
	res.Metadata = types.Metadata{"title": "Page"}
	return res
}

func newTestServer(t *testing.T, withLedger bool) (*httptest.Server, string) {
	t.Helper()
	out := t.TempDir()
	reg := extractor.NewRegistry()
	reg.RegisterFallback(pageAdapter{})
	ext := extractor.New(reg)

	var l Ledger
	if withLedger {
		store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		l = store
	}
	ts := httptest.NewServer(New(ext, l, out).Router())
	t.Cleanup(ts.Close)
	return ts, out
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, false)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListAdapters(t *testing.T) {
	ts, _ := newTestServer(t, false)
	var body adaptersResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/adapters", &body))
	assert.Equal(t, []extractor.Entry{{Position: 1, ResourceType: "web", Fallback: true}}, body.Primary)
	assert.Equal(t, body.Primary, body.Resources)
}

func TestCreateExtractionRecordsAndLists(t *testing.T) {
	ts, out := newTestServer(t, true)

	resp := postJSON(t, ts.URL+"/v1/extractions", `{"url":"https://pages.test/hello","skipResources":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created extractionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Success)
	assert.Equal(t, extractor.ArticleDir(out, "https://pages.test/hello"), created.ArticleDir)
	assert.FileExists(t, filepath.Join(created.ArticleDir, article.MainFile))

	var got ledger.Entry
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/extractions/"+created.ID, &got))
	assert.Equal(t, "Page", got.Title)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Success)

	var list struct {
		Extractions []ledger.Entry `json:"extractions"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/extractions?limit=5", &list))
	require.Len(t, list.Extractions, 1)
	assert.Equal(t, created.ID, list.Extractions[0].ID)
}

func TestCreateExtractionPrimaryFailureIsStillOK(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp := postJSON(t, ts.URL+"/v1/extractions", `{"url":"https://elsewhere.test/x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created extractionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.False(t, created.Success)
	assert.Equal(t, "not reachable", created.Primary.Error)

	var list struct {
		Extractions []ledger.Entry `json:"extractions"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/extractions?failed=true", &list))
	assert.Len(t, list.Extractions, 1)
}

func TestCreateExtractionRejectsBadRequests(t *testing.T) {
	ts, _ := newTestServer(t, false)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{"url":`, http.StatusBadRequest},
		{"missing url", `{}`, http.StatusUnprocessableEntity},
		{"not a url", `{"url":"definitely not a url"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/extractions", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			var body errResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestLedgerEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		ledger bool
		path   string
		want   int
	}{
		{"list without ledger", false, "/v1/extractions", http.StatusServiceUnavailable},
		{"get without ledger", false, "/v1/extractions/abc", http.StatusServiceUnavailable},
		{"unknown id", true, "/v1/extractions/abc", http.StatusNotFound},
		{"empty list", true, "/v1/extractions", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t, tt.ledger)
			assert.Equal(t, tt.want, getJSON(t, ts.URL+tt.path, nil))
		})
	}
}

func TestCreateWithoutLedgerHasNoID(t *testing.T) {
	ts, _ := newTestServer(t, false)
	resp := postJSON(t, ts.URL+"/v1/extractions", `{"url":"https://pages.test/a"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotContains(t, created, "id")
	assert.Equal(t, true, created["success"])
}

func TestLockDirSerializesAndForgets(t *testing.T) {
	s := New(nil, nil, "out")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holding int
		overlap bool
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.lockDir("out/post")
			mu.Lock()
			holding++
			overlap = overlap || holding > 1
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			holding--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap)
	assert.Empty(t, s.locks)

	unlock := s.lockDir("out/other")
	assert.Len(t, s.locks, 1)
	unlock()
	assert.Empty(t, s.locks)
}
