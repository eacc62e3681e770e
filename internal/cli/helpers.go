package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/storage"
)

// openStore selects the backend from the global flags: a local SQLite file
// when --sqlite is set, otherwise MySQL from --database-url or the
// DATABASE_URL env var.
func openStore(ctx context.Context, globals *GlobalFlags) (storage.Store, error) {
	if globals.SQLite != "" {
		return storage.OpenSQLite(ctx, globals.SQLite)
	}

	dsn := globals.DatabaseURL
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database configured: pass --sqlite or --database-url, or set DATABASE_URL")
	}
	return storage.OpenMySQL(ctx, dsn)
}

// newLogger returns a development logger when --verbose is set, otherwise
// a no-op logger so service internals stay quiet behind the CLI output.
func newLogger(verbose bool) logging.Logger {
	if verbose {
		if logger, err := logging.NewDevelopmentLogger(); err == nil {
			return logger
		}
	}
	return logging.NewNoOpLogger()
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
