package fixtures

import "time"

// Config holds configuration for the fixture run.
type Config struct {
	NumPlayers int           // Number of clean players to generate
	DirtyRows  int           // Number of broken rows mixed into each source
	Seed       int64         // Random seed; 0 means time-based
	Addr       string        // Listen address for the fixture source server; empty picks a free port
	OutputDir  string        // Directory to write the generated CSVs; empty skips writing
	Timeout    time.Duration // HTTP fetch timeout
	LogFile    string        // Log file for fixture output
	Verbose    bool          // Enable verbose logging
	ServeOnly  bool          // Serve the fixture sources without running verification
}

// Stats holds fixture run statistics.
type Stats struct {
	PlayersGenerated int
	DirtyRowsPlanted int
	RecordsLoaded    int
	RowsDropped      int
	ExportRows       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
