// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	defaultYtDlp     = "yt-dlp"
	defaultSubLang   = "en"
	defaultYTTimeout = 60 * time.Second
	maxStderr        = 200
)

// runner runs a command and returns its stdout.
type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = msg[:maxStderr]
		}
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

// YouTube extracts video metadata and auto-generated transcripts with
// yt-dlp. Channel and playlist URLs extract every listed video.
type YouTube struct {
	bin     string
	subLang string
	timeout time.Duration
	run     runner

	// DateAfter limits channel listings to videos uploaded on or after this
	// YYYYMMDD date. Empty lists everything.
	DateAfter string
}

func NewYouTube(cfg types.YouTubeConfig) *YouTube {
	return newYouTube(cfg, execRunner{})
}

func newYouTube(cfg types.YouTubeConfig, r runner) *YouTube {
	y := &YouTube{bin: cfg.Binary, subLang: cfg.SubLang, timeout: cfg.Timeout, run: r}
	if y.bin == "" {
		y.bin = defaultYtDlp
	}
	if y.subLang == "" {
		y.subLang = defaultSubLang
	}
	if y.timeout <= 0 {
		y.timeout = defaultYTTimeout
	}
	return y
}

func (*YouTube) ResourceType() string { return string(urlkind.YouTube) }

func (*YouTube) CanHandle(url, hint string) bool {
	return hint == string(urlkind.YouTube) || urlkind.Detect(url) == urlkind.YouTube
}

func (y *YouTube) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	if _, err := y.run.Run(ctx, y.bin, "--version"); err != nil {
		return types.Failed(y.ResourceType(), fmt.Errorf("%s is not installed or not working: %w", y.bin, err))
	}
	if urlkind.IsYouTubeCollection(url) {
		return y.ExtractChannel(ctx, url, dir)
	}
	return y.extractVideo(ctx, url, linkText, dir)
}

// videoInfo holds the yt-dlp --print-json fields we keep.
type videoInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Channel        string `json:"channel"`
	Uploader       string `json:"uploader"`
	UploadDate     string `json:"upload_date"`
	DurationString string `json:"duration_string"`
	Description    string `json:"description"`
}

func (y *YouTube) extractVideo(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.Failed(y.ResourceType(), err)
	}

	cctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()
	out, err := y.run.Run(cctx, y.bin,
		"--write-auto-subs", "--sub-lang", y.subLang,
		"--skip-download", "--print-json",
		"--paths", dir, url)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return types.Failed(y.ResourceType(), fmt.Errorf("%s timed out", y.bin))
		}
		return types.Failed(y.ResourceType(), fmt.Errorf("%s failed: %w", y.bin, err))
	}

	line, _, _ := bytes.Cut(bytes.TrimSpace(out), []byte("\n"))
	var info videoInfo
	if err := json.Unmarshal(line, &info); err != nil {
		return types.Failed(y.ResourceType(), fmt.Errorf("reading %s output: %w", y.bin, err))
	}

	transcript, err := readSubtitles(dir, y.subLang)
	if err != nil {
		log.Warn().Str("url", url).Err(err).Msg("reading subtitles")
	}

	title := firstNonEmpty(info.Title, linkText, "Untitled")
	channel := firstNonEmpty(info.Channel, info.Uploader)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if channel != "" {
		fmt.Fprintf(&b, "**Channel:** %s  \n", channel)
	}
	if info.UploadDate != "" {
		fmt.Fprintf(&b, "**Date:** %s  \n", isoDate(info.UploadDate))
	}
	if info.DurationString != "" {
		fmt.Fprintf(&b, "**Duration:** %s  \n", info.DurationString)
	}
	fmt.Fprintf(&b, "**URL:** %s\n\n", url)
	if info.Description != "" {
		fmt.Fprintf(&b, "## Description\n\n%s\n\n", strings.TrimSpace(info.Description))
	}
	if transcript != "" {
		fmt.Fprintf(&b, "## Transcript\n\n%s\n", transcript)
	}

	mainPath, err := article.WriteFile(dir, article.MainFile, []byte(b.String()))
	if err != nil {
		return types.Failed(y.ResourceType(), err)
	}
	meta := types.Metadata{
		"title":                title,
		"channel":              channel,
		"uploadDate":           info.UploadDate,
		"duration":             info.DurationString,
		"url":                  url,
		types.MetaResourceType: y.ResourceType(),
		"hasTranscript":        transcript != "",
	}
	metaPath, err := article.WriteMetadata(dir, meta)
	if err != nil {
		return types.Failed(y.ResourceType(), err)
	}
	log.Info().Str("url", url).Bool("transcript", transcript != "").Msg("video saved")

	res := types.Succeeded(y.ResourceType(), mainPath, metaPath)
	res.Metadata = meta
	if transcript == "" {
		res.Note = "no transcript available"
	}
	return res
}

// isoDate turns yt-dlp's YYYYMMDD into YYYY-MM-DD.
func isoDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

// scanLines splits b into trimmed non-empty lines.
func scanLines(b []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
