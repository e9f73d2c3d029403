// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the global zerolog logger.
//
// The TUI owns the terminal, so logs always go to a file; writing to stderr
// would corrupt the rendered screen.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup opens the log file and installs the global logger. The returned
// close function flushes and releases the file.
func Setup(level, path string) (func() error, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(f).Level(lvl).With().Timestamp().Logger()

	return f.Close, nil
}

// Disable routes the global logger to nowhere. Used by CLI subcommands that
// print to stdout directly.
func Disable() {
	log.Logger = zerolog.Nop()
}
