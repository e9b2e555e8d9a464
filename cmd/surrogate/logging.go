// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Only warnings and errors are shown unless
// verbose is set; nothing is logged on the success path at the default level.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "surrogate",
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// installLogger makes logger the slog default so internal packages, which log
// through log/slog, share the CLI's formatting and level.
func installLogger(logger *log.Logger) {
	slog.SetDefault(slog.New(logger))
}
