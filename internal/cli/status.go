package cli

import (
	"context"
	"fmt"
)

// Execute prints event-store statistics.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx, c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read store stats: %w", err)
	}

	fmt.Printf("nflog %s\n", c.version)
	fmt.Printf("Total events: %d\n", stats.TotalEvents)
	fmt.Printf("Distinct groups: %d\n", stats.TotalGroups)
	if stats.OldestEvent != nil {
		fmt.Printf("Oldest event: %s\n", stats.OldestEvent.Format("2006-01-02 15:04:05"))
	}
	if stats.NewestEvent != nil {
		fmt.Printf("Newest event: %s\n", stats.NewestEvent.Format("2006-01-02 15:04:05"))
	}
	if stats.TotalEvents == 0 {
		fmt.Println("Store is empty")
	}
	return nil
}
