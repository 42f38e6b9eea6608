package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/floorwatch/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger to write to stdout and logFile. An
// empty logFile gets a timestamped name. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		logFile = "probe_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Floorwatch Probe
================

Drives dashboard sessions over HTTP and checks every view for consistency.

Usage:
  go run ./cmd/floor-probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8050")
  -sessions int
        Number of sessions to drive (default 8)
  -ticks int
        Chart points to wait for per session (default 5)
  -workers int
        Sessions driven concurrently (default CPU cores)
  -timeout duration
        HTTP request timeout (default 10s)
  -lang string
        Locale requested for every call (default "en-US")
  -log string
        Log file for probe output (default: probe_TIMESTAMP.log)
  -verbose
        Log every session outcome
  -help
        Show this help message

Examples:
  # Probe a local service
  go run ./cmd/floor-probe

  # Many sessions, German formatting
  go run ./cmd/floor-probe -sessions 200 -workers 32 -lang de
`)
}
