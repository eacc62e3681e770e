package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/retention"
)

// Execute runs the retention cleanup against the selected store.
func (c *CleanupCommand) Execute(args []string) error {
	if c.Days <= 0 {
		return fmt.Errorf("number of days must be greater than 0")
	}

	ctx := context.Background()
	store, err := openStore(ctx, c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -c.Days)
	fmt.Printf("Cleaning up events older than %d days (before %s)\n", c.Days, cutoff.Format("2006-01-02 15:04:05"))
	if c.DryRun {
		fmt.Println("DRY RUN MODE - no events will be deleted")
	}

	eligible, err := store.CountOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if eligible == 0 {
		fmt.Println("No events found to delete")
		return nil
	}
	fmt.Printf("Found %d events to delete\n", eligible)

	svc := retention.NewService(store, newLogger(c.globals.Verbose))
	result, err := svc.Cleanup(ctx, retention.Options{
		Days:      c.Days,
		BatchSize: c.BatchSize,
		DryRun:    c.DryRun,
		Progress: func(batchDeleted, totalDeleted int64) {
			fmt.Printf("  deleted %d events (%d/%d)\n", batchDeleted, totalDeleted, eligible)
		},
	})
	if err != nil {
		fmt.Printf("Cleanup aborted after deleting %d events\n", result.TotalDeleted)
		return err
	}

	if c.DryRun {
		fmt.Printf("DRY RUN: would delete %d events older than %s\n", result.TotalEligible, cutoff.Format("2006-01-02 15:04:05"))
		return nil
	}

	fmt.Printf("Successfully deleted %d events older than %s\n", result.TotalDeleted, cutoff.Format("2006-01-02 15:04:05"))
	return nil
}
