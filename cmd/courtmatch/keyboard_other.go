//go:build !darwin && !linux && !windows

package main

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/logger"
)

// startKeyboard is a no-op where terminal control is unsupported
func startKeyboard(ctx context.Context, consoleURL string, appLog *logger.SlogLogger, quit func()) func() {
	return func() {}
}
