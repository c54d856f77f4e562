// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	cueTiming = regexp.MustCompile(`^\d{2}:\d{2}.*-->`)
	cueIndex  = regexp.MustCompile(`^\d+$`)
	inlineTag = regexp.MustCompile(`<[^>]+>`)
)

// readSubtitles parses the first subtitle file yt-dlp left in dir,
// preferring lang and VTT. It returns "" when there is none.
func readSubtitles(dir, lang string) (string, error) {
	for _, pattern := range []string{"*." + lang + ".vtt", "*.vtt", "*." + lang + ".srt", "*.srt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			continue
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(matches[0], ".vtt") {
			return ParseVTT(string(data)), nil
		}
		return ParseSRT(string(data)), nil
	}
	return "", nil
}

// ParseVTT returns the caption text of a WebVTT file. Auto-generated
// captions repeat each line as it rolls; consecutive duplicates collapse.
func ParseVTT(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") ||
			cueTiming.MatchString(line) {
			continue
		}
		out = appendDistinct(out, strings.TrimSpace(inlineTag.ReplaceAllString(line, "")))
	}
	return strings.Join(out, "\n")
}

// ParseSRT returns the caption text of an SRT file.
func ParseSRT(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || cueIndex.MatchString(line) || cueTiming.MatchString(line) {
			continue
		}
		out = appendDistinct(out, line)
	}
	return strings.Join(out, "\n")
}

func appendDistinct(lines []string, s string) []string {
	if s == "" || (len(lines) > 0 && lines[len(lines)-1] == s) {
		return lines
	}
	return append(lines, s)
}
