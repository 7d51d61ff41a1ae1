package main

import (
	"fmt"
	"strings"

	"github.com/tosh-m12/courtmatch/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

const bannerWidth = 62

var logo = []string{
	"                       _                   _       _      ",
	"   ___ ___  _   _ _ __| |_ _ __ ___   __ _| |_ ___| |__   ",
	"  / __/ _ \\| | | | '__| __| '_ ` _ \\ / _` | __/ __| '_ \\  ",
	" | (_| (_) | |_| | |  | |_| | | | | | (_| | || (__| | | | ",
	"  \\___\\___/ \\__,_|_|   \\__|_| |_| |_|\\__,_|\\__\\___|_| |_| ",
}

// showBanner prints the boxed logo
func showBanner() {
	border := strings.Repeat("═", bannerWidth)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		if n := bannerWidth - len(line); n > 0 {
			line += strings.Repeat(" ", n)
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// nextLogLevel cycles debug -> info -> warn -> error -> debug
func nextLogLevel(current string) string {
	switch current {
	case "DEBUG":
		return "info"
	case "INFO":
		return "warn"
	case "WARN":
		return "error"
	case "ERROR":
		return "debug"
	default:
		return "info"
	}
}

// cycleLogLevel moves the logger to the next level and reports it
func cycleLogLevel(appLog *logger.SlogLogger) {
	next := nextLogLevel(appLog.GetLevel().String())
	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open organizer console in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}
