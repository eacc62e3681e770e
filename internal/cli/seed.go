package cli

import (
	"context"
	"fmt"

	"github.com/fourohfour/notfound-tracker/internal/fixtures"
)

// Execute seeds the selected store with randomized not-found events.
func (c *SeedCommand) Execute(args []string) error {
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}

	ctx := context.Background()
	store, err := openStore(ctx, c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	generator := fixtures.NewGenerator(store, fixtures.Options{
		Amount:  c.Amount,
		Domains: splitList(c.Domains),
		Days:    c.Days,
		Seed:    c.Seed,
	})

	fmt.Printf("Seeding %d not-found events over the last %d days\n", c.Amount, c.Days)
	written, err := generator.Generate(ctx)
	if err != nil {
		fmt.Printf("Seeding aborted after %d events\n", written)
		return err
	}

	fmt.Printf("Seeded %d events\n", written)
	return nil
}
