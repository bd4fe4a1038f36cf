package youtube

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/cast"
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatCount renders a count like "1.2M" or "3.4K"
func FormatCount(count string) string {
	n := cast.ToInt64(count)
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}

// FormatDuration turns PT1H2M3S into 1:02:03 and PT4M5S into 4:05.
// Input it cannot parse is returned unchanged.
func FormatDuration(d string) string {
	m := isoDuration.FindStringSubmatch(d)
	if m == nil || d == "PT" {
		return d
	}
	hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
