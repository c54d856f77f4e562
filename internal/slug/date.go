// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slug

import "time"

// DisplayDate is the layout used for dates in article headers.
const DisplayDate = "Jan 02, 2006"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
	"20060102",
}

// FormatDate renders an ISO-style timestamp as "Jan 02, 2006", keeping the
// timestamp's own offset. Values it cannot parse are returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDate)
		}
	}
	return s
}
