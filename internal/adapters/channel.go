// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/pkg/types"
)

// ChannelSummaryFile lists the videos a channel extraction produced.
const ChannelSummaryFile = "channel-summary.json"

// Video is one entry of a channel or playlist listing.
type Video struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	UploadDate string `json:"uploadDate,omitempty"`
	URL        string `json:"url"`
}

// ChannelVideo is a Video with its extraction outcome.
type ChannelVideo struct {
	Video
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ChannelSummary is written to channel-summary.json.
type ChannelSummary struct {
	URL       string         `json:"url"`
	DateAfter string         `json:"dateAfter,omitempty"`
	Total     int            `json:"total"`
	Extracted int            `json:"extracted"`
	Videos    []ChannelVideo `json:"videos"`
}

// ListVideos lists the videos of a channel or playlist without downloading
// anything, optionally only those uploaded on or after dateAfter (YYYYMMDD).
func (y *YouTube) ListVideos(ctx context.Context, url, dateAfter string) ([]Video, error) {
	args := []string{"--flat-playlist", "--dump-json"}
	if dateAfter != "" {
		args = append(args, "--dateafter", dateAfter)
	}
	args = append(args, url)

	out, err := y.run.Run(ctx, y.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", url, err)
	}

	var videos []Video
	for _, line := range scanLines(out) {
		var entry struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			UploadDate string `json:"upload_date"`
			URL        string `json:"url"`
			WebpageURL string `json:"webpage_url"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			log.Debug().Err(err).Msg("skipping unreadable listing entry")
			continue
		}
		if entry.ID == "" {
			continue
		}
		v := Video{ID: entry.ID, Title: entry.Title, UploadDate: entry.UploadDate, URL: firstNonEmpty(entry.URL, entry.WebpageURL)}
		if v.URL == "" {
			v.URL = "https://www.youtube.com/watch?v=" + v.ID
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// ExtractChannel extracts every listed video into dir/<video id>/ and
// writes a channel summary. It fails when nothing is listed.
func (y *YouTube) ExtractChannel(ctx context.Context, url, dir string) types.ExtractionResult {
	videos, err := y.ListVideos(ctx, url, y.DateAfter)
	if err != nil {
		return types.Failed(y.ResourceType(), err)
	}
	if len(videos) == 0 {
		return types.Failed(y.ResourceType(), errors.New("no videos found"))
	}
	log.Info().Str("url", url).Int("videos", len(videos)).Str("since", y.DateAfter).Msg("extracting channel")

	summary := ChannelSummary{URL: url, DateAfter: y.DateAfter, Total: len(videos), Videos: make([]ChannelVideo, 0, len(videos))}
	var files []string
	for i, v := range videos {
		log.Info().Str("video", v.ID).Msgf("video %d/%d", i+1, len(videos))
		res := y.extractVideo(ctx, v.URL, v.Title, filepath.Join(dir, v.ID))
		summary.Videos = append(summary.Videos, ChannelVideo{Video: v, Success: res.Success, Error: res.Error})
		if res.Success {
			summary.Extracted++
			files = append(files, res.FilesCreated...)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return types.Failed(y.ResourceType(), err)
	}
	path, err := article.WriteFile(dir, ChannelSummaryFile, append(data, '\n'))
	if err != nil {
		return types.Failed(y.ResourceType(), err)
	}
	files = append(files, path)

	res := types.ExtractionResult{
		Success:      summary.Extracted > 0,
		ResourceType: y.ResourceType(),
		FilesCreated: files,
		Note:         fmt.Sprintf("extracted %d of %d videos", summary.Extracted, summary.Total),
		Metadata: types.Metadata{
			"url":                  url,
			types.MetaResourceType: y.ResourceType(),
			"total":                summary.Total,
			"extracted":            summary.Extracted,
		},
	}
	if !res.Success {
		res.Error = "no video could be extracted"
	}
	return res
}

var sinceRelative = regexp.MustCompile(`^(\d+)([dwm])$`)

// ParseSince converts a --since value into yt-dlp's YYYYMMDD form. It
// accepts Nd, Nw, Nm (30-day months), YYYY-MM-DD, and YYYYMMDD.
func ParseSince(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if m := sinceRelative.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		days := map[string]int{"d": 1, "w": 7, "m": 30}[m[2]]
		return now.AddDate(0, 0, -n*days).Format("20060102"), nil
	}
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("20060102"), nil
		}
	}
	return "", fmt.Errorf("invalid --since value %q: use Nd, Nw, Nm, YYYY-MM-DD or YYYYMMDD", s)
}
