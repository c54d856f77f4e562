// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-extract/internal/httputil"
	"github.com/pdiddy/content-extract/pkg/types"
)

func newTestDrive(ts *httptest.Server) *Drive {
	d := NewDrive(httputil.NewClient(types.HTTPConfig{MaxRetries: 1}))
	d.client.HTTP = ts.Client()
	d.docsBase = ts.URL
	d.driveBase = ts.URL
	return d
}

func TestDriveExportFor(t *testing.T) {
	d := NewDrive(nil)
	tests := []struct {
		name     string
		url      string
		want     string
		fallback string
		wantErr  bool
	}{
		{"doc", "https://docs.google.com/document/d/DOC_1/edit", "https://docs.google.com/document/d/DOC_1/export?format=pdf", "DOC_1.pdf", false},
		{"sheet", "https://docs.google.com/spreadsheets/d/SHEET-2/edit#gid=0", "https://docs.google.com/spreadsheets/d/SHEET-2/export?format=xlsx", "SHEET-2.xlsx", false},
		{"slides", "https://docs.google.com/presentation/d/S3/edit", "https://docs.google.com/presentation/d/S3/export?format=pptx", "S3.pptx", false},
		{"file", "https://drive.google.com/file/d/F4/view?usp=sharing", "https://drive.google.com/uc?export=download&id=F4", "F4", false},
		{"open id", "https://drive.google.com/open?id=F5", "https://drive.google.com/uc?export=download&id=F5", "F5", false},
		{"folder", "https://drive.google.com/drive/folders/abc", "", "", true},
		{"unknown", "https://drive.google.com/drive/my-drive", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := d.exportFor(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.url)
			assert.Equal(t, tt.fallback, exp.fallback)
		})
	}

	_, err := d.exportFor("https://drive.google.com/drive/folders/abc")
	assert.True(t, errors.Is(err, ErrDriveFolder))
}

func TestDriveDownloadsExport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/document/d/DOC/export", r.URL.Path)
		assert.Equal(t, "pdf", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Design Notes.pdf"`)
		w.Write([]byte("%PDF-1.7"))
	}))
	defer ts.Close()
	dir := t.TempDir()

	res := newTestDrive(ts).Extract(context.Background(), "https://docs.google.com/document/d/DOC/edit", "", dir)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "drive", res.ResourceType)
	assert.Equal(t, []string{filepath.Join(dir, "Design Notes.pdf")}, res.FilesCreated)
	data, err := os.ReadFile(res.FilesCreated[0])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestDriveFollowsInterstitial(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><body><form id="download-form" action="%s/download">
<input type="hidden" name="id" value="BIG"><input type="hidden" name="confirm" value="t">
</form></body></html>`, ts.URL)
			return
		}
		assert.Equal(t, "BIG", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("payload"))
	}))
	defer ts.Close()
	dir := t.TempDir()

	res := newTestDrive(ts).Extract(context.Background(), "https://drive.google.com/file/d/BIG/view", "", dir)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{filepath.Join(dir, "BIG")}, res.FilesCreated)
}

func TestDriveFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) { http.NotFound(w, nil) }, "HTTP 404"},
		{"sign-in page", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body>Sign in</body></html>"))
		}, "not be shared publicly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()
			res := newTestDrive(ts).Extract(context.Background(), "https://drive.google.com/file/d/X/view", "", t.TempDir())
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.want)
		})
	}
}

func TestDriveUnzips(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"prompts/one.md":    "one",
		"two.md":            "two",
		"__MACOSX/._two.md": "junk",
		"prompts/.DS_Store": "junk",
	} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		f.Write([]byte(body))
	}
	require.NoError(t, zw.Close())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="bundle.zip"`)
		w.Write(buf.Bytes())
	}))
	defer ts.Close()
	dir := t.TempDir()

	res := newTestDrive(ts).Extract(context.Background(), "https://drive.google.com/file/d/Z/view", "", dir)

	require.True(t, res.Success, res.Error)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "bundle", "prompts", "one.md"),
		filepath.Join(dir, "bundle", "two.md"),
	}, res.FilesCreated)
	assert.NoFileExists(t, filepath.Join(dir, "bundle.zip"))
}

func TestFilenameFrom(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="report.pdf"`, "report.pdf"},
		{`attachment; filename="../../etc/passwd"`, "passwd"},
		{`attachment; filename*=UTF-8''na%C3%AFve.txt`, "naïve.txt"},
		{"", "fallback"},
		{"attachment", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, filenameFrom(tt.header, "fallback"))
		})
	}
}
