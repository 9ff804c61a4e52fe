package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// formatSize describes the input size: characters for text, bytes for images
func formatSize(r *Report) string {
	if r.Mode == analyzer.ModeText {
		return formatNumber(r.Size) + " characters"
	}

	const unit = 1024
	switch {
	case r.Size >= unit*unit:
		return fmt.Sprintf("%.1f MiB", float64(r.Size)/(unit*unit))
	case r.Size >= unit:
		return fmt.Sprintf("%.1f KiB", float64(r.Size)/unit)
	default:
		return fmt.Sprintf("%d bytes", r.Size)
	}
}

// formatElapsed rounds to milliseconds, "N/A" when unknown
func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	return d.Round(time.Millisecond).String()
}

func providerLabel(r *Report) string {
	switch {
	case r.Provider == "":
		return "N/A"
	case r.Model == "":
		return r.Provider
	default:
		return r.Provider + " (" + r.Model + ")"
	}
}
