// Package releases holds the pure merge logic of the release radar:
// variable-precision date parsing, de-duplication, window filtering, and
// summary statistics. Fetch orchestration lives in internal/tasks.
package releases

import (
	"fmt"
	"time"
)

// Release date layouts in order of decreasing precision. The streaming API
// reports a precision field but the string alone is unambiguous.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseReleaseDate parses the API's variable-precision release date. A
// missing month or day defaults to January or the 1st; this matches the web
// client and is a deliberate simplification, not a bug.
func ParseReleaseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable release date %q", s)
}
