package model

import "time"

// CLIOptions holds user-configurable runtime options as parsed from flags.
type CLIOptions struct {
	APIURL       string        // Base URL of the analysis service.
	OutDir       string        // Where exported result files are written.
	SaveResults  bool          // Write court-iq-results.json after success.
	PollInterval time.Duration // Status poll period. 0 = default (2s).
	Verbose      bool
	NoUI         bool // Disable TUI when true
	Jobs         int  // Max concurrent uploads for TUI
}
