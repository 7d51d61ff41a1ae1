//go:build darwin || linux

package main

import (
	"context"
	"os"

	"golang.org/x/sys/unix"

	"github.com/tosh-m12/courtmatch/internal/logger"
)

// startKeyboard puts the terminal into single-key mode and handles shortcuts
// until quit is called or ctx ends. The returned func restores the terminal.
func startKeyboard(ctx context.Context, consoleURL string, appLog *logger.SlogLogger, quit func()) func() {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		// not a terminal
		return func() {}
	}

	newState := *oldState
	// Disable canonical mode and echo; keep OPOST so \n still works
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &newState); err != nil {
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for ctx.Err() == nil {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			if !handleKey(buf[0], consoleURL, appLog, quit) {
				return
			}
		}
	}()

	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, oldState)
	}
}
