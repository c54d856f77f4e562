// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/slug"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

const excalidrawPageInfoJS = `(() => {
  const btn = document.querySelector('button');
  return JSON.stringify({
    url: window.location.href,
    title: document.title.replace(/\s*[\u2014-]\s*Excalidraw.*$/, ''),
    hasCanvas: !!document.querySelector('canvas.excalidraw__canvas'),
    hasJoinButton: !!btn && btn.textContent.includes('Join room')
  });
})()`

const excalidrawJoinJS = `(() => {
  const btn = document.querySelector('button');
  if (btn && btn.textContent.includes('Join room')) { btn.click(); return 'joined'; }
  return 'no join button';
})()`

// excalidrawInterceptJS replaces showSaveFilePicker so exports are captured
// in page memory instead of hitting the native dialog.
const excalidrawInterceptJS = `(() => {
  window.__exportChunks = [];
  window.__exportDone = false;
  window.showSaveFilePicker = async function (options) {
    window.__exportChunks = [];
    window.__exportDone = false;
    const stream = new WritableStream({
      write(chunk) {
        if (chunk instanceof Uint8Array) window.__exportChunks.push(Array.from(chunk));
        else if (chunk instanceof Blob) chunk.arrayBuffer().then(b => window.__exportChunks.push(Array.from(new Uint8Array(b))));
      },
      close() { window.__exportDone = true; }
    });
    return { createWritable: async () => stream, name: (options && options.suggestedName) || 'export' };
  };
  return 'installed';
})()`

const excalidrawMenuJS = `(() => {
  const m = document.querySelector('[data-testid="main-menu-trigger"]');
  if (m) m.click();
  return 'menu';
})()`

const excalidrawExportImageJS = `(() => {
  const b = document.querySelector('[data-testid="image-export-button"]');
  if (b) b.click();
  return 'image';
})()`

const excalidrawPNGJS = `(() => {
  const b = document.querySelector('button[aria-label="Export to PNG"]');
  if (b) b.click();
  return 'png';
})()`

const excalidrawSaveJS = `(() => {
  for (const b of document.querySelectorAll('[data-testid="dropdown-menu"] button')) {
    if (b.textContent.trim().startsWith('Save to file')) { b.click(); return 'save'; }
  }
  return 'no save';
})()`

const excalidrawStatusJS = `(() => JSON.stringify({
  chunks: (window.__exportChunks || []).length,
  done: !!window.__exportDone
}))()`

// excalidrawChunkJS returns chunks [%d, %d) as base64.
const excalidrawChunkJS = `(() => {
  const batch = (window.__exportChunks || []).slice(%d, %d);
  let bin = '';
  for (const c of batch) for (const b of c) bin += String.fromCharCode(b);
  return JSON.stringify({base64: btoa(bin)});
})()`

const (
	excalidrawSession  = "excalidraw"
	exportPolls        = 30
	exportChunkBatch   = 3
	minExportBytes     = 100
	excalidrawJoinWait = 5 * time.Second
	exportStepWait     = 500 * time.Millisecond
)

// DedicatedSessions opens sessions outside the shared pool.
type DedicatedSessions interface {
	Dedicated(name, profile string) (browser.Session, error)
}

// Excalidraw exports shared Excalidraw scenes as PNG and .excalidraw JSON.
// It runs in its own browser session and profile, closed after each
// extraction.
type Excalidraw struct {
	sessions DedicatedSessions
	profile  string
}

func NewExcalidraw(s DedicatedSessions, profile string) *Excalidraw {
	return &Excalidraw{sessions: s, profile: profile}
}

func (*Excalidraw) ResourceType() string { return string(urlkind.Excalidraw) }

func (*Excalidraw) CanHandle(url, hint string) bool {
	return hint == string(urlkind.Excalidraw) || urlkind.Detect(url) == urlkind.Excalidraw
}

type excalidrawInfo struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	HasCanvas     bool   `json:"hasCanvas"`
	HasJoinButton bool   `json:"hasJoinButton"`
}

func (a *Excalidraw) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	sess, err := a.sessions.Dedicated(excalidrawSession, a.profile)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	defer sess.Close(context.WithoutCancel(ctx))

	if err := sess.Open(ctx, url); err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	info := a.pageInfo(ctx, sess)
	if info.HasJoinButton {
		log.Debug().Str("url", url).Msg("joining excalidraw room")
		if _, err := sess.Eval(ctx, excalidrawJoinJS); err != nil {
			return types.Failed(a.ResourceType(), err)
		}
		if err := pause(ctx, excalidrawJoinWait); err != nil {
			return types.Failed(a.ResourceType(), err)
		}
		info = a.pageInfo(ctx, sess)
	}
	if !info.HasCanvas {
		return types.Failed(a.ResourceType(), errors.New("excalidraw canvas not found on page"))
	}

	title := firstNonEmpty(info.Title, linkText, "Excalidraw Diagram")
	name := slug.Make(title)
	if name == "" {
		name = "diagram"
	}

	var files []string
	png, err := a.export(ctx, sess, excalidrawExportImageJS, excalidrawPNGJS)
	if err != nil {
		log.Warn().Str("url", url).Err(err).Msg("png export failed")
	} else if path, err := article.WriteFile(dir, name+".png", png); err != nil {
		return types.Failed(a.ResourceType(), err)
	} else {
		files = append(files, path)
	}
	hasPNG := len(files) > 0

	var elements, embedded int
	hasScene := false
	scene, err := a.export(ctx, sess, excalidrawSaveJS)
	if err != nil {
		log.Warn().Str("url", url).Err(err).Msg("scene export failed")
	} else if path, err := article.WriteFile(dir, name+".excalidraw", scene); err != nil {
		return types.Failed(a.ResourceType(), err)
	} else {
		files = append(files, path)
		hasScene = true
		elements, embedded = sceneCounts(scene)
	}

	meta := types.Metadata{
		"title":                title,
		"url":                  url,
		"finalUrl":             firstNonEmpty(info.URL, url),
		types.MetaResourceType: a.ResourceType(),
		"elements":             elements,
		"embeddedFiles":        embedded,
		"hasPng":               hasPNG,
		"hasExcalidraw":        hasScene,
	}
	metaPath, err := article.WriteMetadata(dir, meta)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	files = append(files, metaPath)

	if !hasPNG {
		res := types.Failed(a.ResourceType(), errors.New("failed to export PNG from excalidraw"))
		res.FilesCreated = files
		return res
	}
	res := types.Succeeded(a.ResourceType(), files...)
	res.Metadata = meta
	return res
}

func (a *Excalidraw) pageInfo(ctx context.Context, sess browser.Session) excalidrawInfo {
	var info excalidrawInfo
	raw, err := sess.Eval(ctx, excalidrawPageInfoJS)
	if err == nil {
		err = browser.DecodeJSON(raw, &info)
	}
	if err != nil {
		log.Debug().Err(err).Msg("excalidraw page info unavailable")
	}
	return info
}

// export installs the save intercept, runs the menu steps, waits for the
// export stream to close, and pulls the bytes out of the page.
func (a *Excalidraw) export(ctx context.Context, sess browser.Session, steps ...string) ([]byte, error) {
	for _, js := range append([]string{excalidrawInterceptJS, excalidrawMenuJS}, steps...) {
		if _, err := sess.Eval(ctx, js); err != nil {
			return nil, err
		}
		if err := pause(ctx, exportStepWait); err != nil {
			return nil, err
		}
	}

	var status struct {
		Chunks int  `json:"chunks"`
		Done   bool `json:"done"`
	}
	for range exportPolls {
		raw, err := sess.Eval(ctx, excalidrawStatusJS)
		if err == nil && browser.DecodeJSON(raw, &status) == nil && status.Done && status.Chunks > 0 {
			break
		}
		if err := pause(ctx, time.Second); err != nil {
			return nil, err
		}
	}
	if !status.Done || status.Chunks == 0 {
		return nil, errors.New("export did not complete")
	}

	var data []byte
	for i := 0; i < status.Chunks; i += exportChunkBatch {
		raw, err := sess.Eval(ctx, fmt.Sprintf(excalidrawChunkJS, i, i+exportChunkBatch))
		if err != nil {
			return nil, err
		}
		var part struct {
			Base64 string `json:"base64"`
		}
		if err := browser.DecodeJSON(raw, &part); err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(part.Base64)
		if err != nil {
			return nil, fmt.Errorf("decoding export chunk %d: %w", i, err)
		}
		data = append(data, b...)
	}
	if len(data) <= minExportBytes {
		return nil, fmt.Errorf("export too small (%d bytes)", len(data))
	}
	return data, nil
}

func sceneCounts(scene []byte) (elements, files int) {
	var s struct {
		Elements []json.RawMessage          `json:"elements"`
		Files    map[string]json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(scene, &s); err != nil {
		return 0, 0
	}
	return len(s.Elements), len(s.Files)
}
