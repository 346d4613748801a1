package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dionchettiar/pitchboard/internal/fixtures"
	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers = 120
	defaultDirtyRows  = 10
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of clean players to generate")
		dirtyRows  = flag.Int("dirty", defaultDirtyRows, "Number of broken rows planted per source")
		seed       = flag.Int64("seed", 0, "Random seed; 0 derives one from the clock")
		addr       = flag.String("addr", "", "Listen address for the fixture source server (default: a free port)")
		outputDir  = flag.String("output", "", "Directory to also write the generated CSVs to")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP fetch timeout")
		serveOnly  = flag.Bool("serve", false, "Serve the fixture sources until interrupted instead of verifying")
		logFile    = flag.String("log", "", "Log file for fixture output (default: fixture_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := fixtures.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx := context.Background()
	if !*serveOnly {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRunTimeout)
		defer cancel()
	}

	config := &fixtures.Config{
		NumPlayers: *numPlayers,
		DirtyRows:  *dirtyRows,
		Seed:       *seed,
		Addr:       *addr,
		OutputDir:  *outputDir,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
		ServeOnly:  *serveOnly,
	}

	if err := fixtures.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Fixture run failed: " + err.Error() + "\n")
		return
	}
}
