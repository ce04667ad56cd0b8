package wizard

import (
	"strconv"
	"strings"
)

// Progress maps the current step onto a fill percentage in [0, 100]: 0 on the
// first step, 100 on the last. Single-step wizards are always complete.
func Progress(current, total int) float64 {
	if total <= 1 {
		return 100
	}
	pct := float64(current-1) / float64(total-1) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ProgressWidth formats a percentage as a CSS width value ("50%", "33.33%").
func ProgressWidth(pct float64) string {
	formatted := strconv.FormatFloat(pct, 'f', 2, 64)
	formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	return formatted + "%"
}

// ProgressBar draws a fixed-width text bar for terminal front-ends.
func ProgressBar(pct float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(pct / 100 * float64(width))
	filled = clamp(filled, 0, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
