package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	DatabaseURL string `long:"database-url" description:"MySQL DSN (defaults to the DATABASE_URL env var)"`
	SQLite      string `long:"sqlite" description:"Operate on a local SQLite database file instead of MySQL"`
	Verbose     bool   `long:"verbose" description:"Enable verbose logging"`
	Version     bool   `long:"version" description:"Show version and exit"`
}

// CleanupCommand — delete not-found events older than N days in bounded
// batches. Overlapping cleanup runs for the same horizon can double-count
// batches; schedule one at a time.
type CleanupCommand struct {
	Days      int  `long:"days" description:"Delete events older than this many days" required:"true"`
	DryRun    bool `long:"dry-run" description:"Show what would be deleted without actually deleting"`
	BatchSize int  `long:"batch-size" short:"b" description:"Number of records to delete in each batch" default:"1000"`

	globals *GlobalFlags
}

// SeedCommand — generate randomized not-found events for development and
// demo environments.
type SeedCommand struct {
	Amount  int    `long:"amount" description:"Number of events to generate" default:"500"`
	Domains string `long:"domains" description:"Comma-separated domain pool"`
	Days    int    `long:"days" description:"Spread events over the trailing N days" default:"31"`
	Seed    int64  `long:"seed" description:"RNG seed for reproducible data (0 = random)"`

	globals *GlobalFlags
}

// StatusCommand — print event-store statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}
