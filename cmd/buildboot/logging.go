// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/buildboot/buildboot/internal/config"

	"github.com/charmbracelet/log"
)

// setupLogging routes the process-wide slog logger to w at level.
func setupLogging(w io.Writer, level config.LogLevel) {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  lvl,
	})
	slog.SetDefault(slog.New(logger))
}
