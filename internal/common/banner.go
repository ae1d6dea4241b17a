package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	version := GetVersion()
	build := GetBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888b.  8888888b.  8888888 8888888b.`,
		` 888  "Y88b 888   Y88b   888   888   Y88b`,
		` 888    888 888    888   888   888    888`,
		` 888    888 888   d88P   888   888   d88P`,
		` 888    888 8888888P"    888   8888888P"`,
		` 888    888 888 T88b     888   888`,
		` 888  .d88P 888  T88b    888   888`,
		` 8888888P"  888   T88b 8888888 888`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Historical Investment Backtesting%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Environment", config.Environment},
		{"Service", serviceURL},
		{"Cache", config.Cache.Backend},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", kv[0], kv[1])
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
}
