// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/httputil"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

var (
	docIDRe   = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)
	sheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	slideIDRe = regexp.MustCompile(`/presentation/d/([a-zA-Z0-9_-]+)`)
	fileIDRe  = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
)

// ErrDriveFolder is returned for folder links, which have no export URL.
var ErrDriveFolder = errors.New("drive folders cannot be exported directly")

// Drive downloads Google Docs, Sheets, Slides, and Drive files through
// their public export URLs. Only files shared with "anyone with the link"
// can be fetched this way.
type Drive struct {
	client    *httputil.Client
	docsBase  string
	driveBase string
}

func NewDrive(c *httputil.Client) *Drive {
	return &Drive{client: c, docsBase: "https://docs.google.com", driveBase: "https://drive.google.com"}
}

func (*Drive) ResourceType() string { return string(urlkind.Drive) }

func (*Drive) CanHandle(url, hint string) bool {
	return hint == string(urlkind.Drive) || urlkind.Detect(url) == urlkind.Drive
}

// export describes where to download a Drive resource and what to call it
// when the server does not say.
type export struct {
	url      string
	id       string
	fallback string
}

func (a *Drive) exportFor(raw string) (export, error) {
	if strings.Contains(raw, "/folders/") {
		return export{}, ErrDriveFolder
	}
	kinds := []struct {
		re     *regexp.Regexp
		format string
		base   string
	}{
		{docIDRe, "document/d/%s/export?format=pdf", a.docsBase},
		{sheetIDRe, "spreadsheets/d/%s/export?format=xlsx", a.docsBase},
		{slideIDRe, "presentation/d/%s/export?format=pptx", a.docsBase},
	}
	for _, k := range kinds {
		if m := k.re.FindStringSubmatch(raw); m != nil {
			ext := k.format[strings.LastIndex(k.format, "=")+1:]
			return export{url: k.base + "/" + fmt.Sprintf(k.format, m[1]), id: m[1], fallback: m[1] + "." + ext}, nil
		}
	}
	id := ""
	if m := fileIDRe.FindStringSubmatch(raw); m != nil {
		id = m[1]
	} else if u, err := url.Parse(raw); err == nil {
		id = u.Query().Get("id")
	}
	if id == "" {
		return export{}, fmt.Errorf("unrecognized drive url %s", raw)
	}
	return export{url: a.driveBase + "/uc?export=download&id=" + url.QueryEscape(id), id: id, fallback: id}, nil
}

func (a *Drive) Extract(ctx context.Context, raw, _ string, dir string) types.ExtractionResult {
	exp, err := a.exportFor(raw)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	log.Debug().Str("url", raw).Str("export", exp.url).Msg("drive export")

	resp, err := a.fetch(ctx, exp.url)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	defer resp.Body.Close()

	if isHTML(resp) {
		next, err := confirmURL(resp)
		if err != nil {
			return types.Failed(a.ResourceType(), err)
		}
		resp.Body.Close()
		if resp, err = a.fetch(ctx, next); err != nil {
			return types.Failed(a.ResourceType(), err)
		}
		defer resp.Body.Close()
		if isHTML(resp) {
			return types.Failed(a.ResourceType(), errors.New("drive returned a page instead of the file; it may not be shared publicly"))
		}
	}

	name := filenameFrom(resp.Header.Get("Content-Disposition"), exp.fallback)
	path, err := article.Copy(dir, name, resp.Body)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	files := []string{path}
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		if files, err = unzip(path, filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))); err != nil {
			return types.Failed(a.ResourceType(), err)
		}
	}
	log.Info().Str("url", raw).Str("file", name).Int("files", len(files)).Msg("drive file saved")

	res := types.Succeeded(a.ResourceType(), files...)
	res.Note = "exported via direct URL"
	return res
}

func (a *Drive) fetch(ctx context.Context, u string) (*http.Response, error) {
	resp, err := a.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("downloading %s: HTTP %d", u, resp.StatusCode)
	}
	return resp, nil
}

func isHTML(resp *http.Response) bool {
	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return mt == "text/html"
}

// confirmURL finds the download link on Drive's "can't scan this file for
// viruses" interstitial.
func confirmURL(resp *http.Response) (string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading drive interstitial: %w", err)
	}
	base := resp.Request.URL

	if href, ok := doc.Find("#uc-download-link, a[href*='confirm=']").First().Attr("href"); ok {
		ref, err := url.Parse(href)
		if err != nil {
			return "", fmt.Errorf("parsing drive download link: %w", err)
		}
		return base.ResolveReference(ref).String(), nil
	}

	form := doc.Find("form#download-form").First()
	action, ok := form.Attr("action")
	if !ok {
		return "", errors.New("drive returned a page instead of the file; it may not be shared publicly")
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("parsing drive download form: %w", err)
	}
	target := base.ResolveReference(ref)
	q := target.Query()
	form.Find("input[type='hidden']").Each(func(_ int, in *goquery.Selection) {
		if name, ok := in.Attr("name"); ok {
			q.Set(name, in.AttrOr("value", ""))
		}
	})
	target.RawQuery = q.Encode()
	return target.String(), nil
}

// filenameFrom returns the Content-Disposition filename, reduced to a base
// name, or fallback.
func filenameFrom(disposition, fallback string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	name := filepath.Base(filepath.Clean("/" + params["filename"]))
	if name == "/" || name == "." || name == "" {
		return fallback
	}
	return name
}

// unzip extracts archive into dest and removes it. Entries that would land
// outside dest, macOS resource forks, and dotfiles are skipped.
func unzip(archive, dest string) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(archive), err)
	}
	defer r.Close()

	var files []string
	for _, f := range r.File {
		name := filepath.Clean(f.Name)
		if f.FileInfo().IsDir() || strings.HasPrefix(name, "..") || filepath.IsAbs(name) ||
			strings.HasPrefix(name, "__MACOSX") || strings.HasPrefix(filepath.Base(name), ".") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		path, err := article.Copy(filepath.Join(dest, filepath.Dir(name)), filepath.Base(name), rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	r.Close()
	if err := os.Remove(archive); err != nil {
		return nil, fmt.Errorf("removing %s: %w", filepath.Base(archive), err)
	}
	return files, nil
}
