package fixtures

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "fixture_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the fixtures tool.
func ShowHelp() {
	os.Stdout.WriteString(`Pitchboard Fixture Tool
=======================

Generates synthetic source CSVs, serves them over HTTP, and verifies the
full fetch-merge-export cycle against them.

Usage:
  go run cmd/fixtures/main.go [options]

Options:
  -players int
        Number of clean players to generate (default 120)
  -dirty int
        Number of broken rows planted per source (default 10)
  -seed int
        Random seed; 0 derives one from the clock
  -addr string
        Listen address for the fixture source server (default: a free port)
  -output string
        Directory to also write the generated CSVs to
  -timeout duration
        HTTP fetch timeout (default 30s)
  -serve
        Serve the fixture sources until interrupted instead of verifying
  -log string
        Log file for fixture output (default: fixture_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Verify the pipeline against 120 synthetic players
  go run cmd/fixtures/main.go

  # Serve known data for a locally running service
  go run cmd/fixtures/main.go -serve -addr 127.0.0.1:9444 -players 40

  # Reproduce a run exactly
  go run cmd/fixtures/main.go -seed 42 -players 200 -dirty 25
`)
}
