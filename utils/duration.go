package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseVideoDuration converts a legacy catalog duration string into seconds.
//
// The format is ambiguous and must stay bug-compatible with the existing
// catalog data: a "MM:SS:00"-shaped value whose first component is below 60
// is minutes:seconds ("27:30:00" is 27m30s); any other three-part value is
// hours:minutes:seconds ("1:30:15" is 1h30m15s); two parts are
// minutes:seconds; a bare number is seconds.
func ParseVideoDuration(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	rawParts := strings.Split(s, ":")
	parts := make([]int, len(rawParts))
	for i, p := range rawParts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			n = 0
		}
		parts[i] = n
	}

	switch len(parts) {
	case 3:
		if parts[0] < 60 && parts[2] == 0 {
			// minutes:seconds with a dead trailing ":00"
			return parts[0]*60 + parts[1]
		}
		return parts[0]*3600 + parts[1]*60 + parts[2]
	case 2:
		return parts[0]*60 + parts[1]
	case 1:
		return parts[0]
	}
	return 0
}

// FormatSecondsToDuration renders seconds as "M:SS" for display.
func FormatSecondsToDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
