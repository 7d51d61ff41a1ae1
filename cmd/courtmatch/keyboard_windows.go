//go:build windows

package main

import (
	"context"
	"os"

	"github.com/tosh-m12/courtmatch/internal/logger"
)

// startKeyboard reads shortcuts line by line; the Windows console is left
// in its default mode.
func startKeyboard(ctx context.Context, consoleURL string, appLog *logger.SlogLogger, quit func()) func() {
	go func() {
		buf := make([]byte, 1)
		for ctx.Err() == nil {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 || buf[0] == '\r' || buf[0] == '\n' {
				continue
			}
			if !handleKey(buf[0], consoleURL, appLog, quit) {
				return
			}
		}
	}()
	return func() {}
}
