package main

import (
	"fmt"
	"strings"

	"github.com/tosh-m12/courtmatch/internal/browser"
	"github.com/tosh-m12/courtmatch/internal/logger"
)

var defaultOpener = browser.Open

// opener opens a URL; swapped in tests
var opener = defaultOpener

// handleKey performs the shortcut bound to key. It returns false once the
// user asked to quit.
func handleKey(key byte, consoleURL string, appLog *logger.SlogLogger, quit func()) bool {
	switch strings.ToLower(string(key)) {
	case "o":
		fmt.Printf("%sOpening organizer console in browser...%s\n", cyan, reset)
		if err := opener(consoleURL); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(appLog)
	case "?":
		printKeyboardHelp()
	case "q", "\x03":
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		quit()
		return false
	}
	return true
}
