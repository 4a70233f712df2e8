package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/cmd/utils/internal/seeding"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/enums"
)

type SeedResult struct {
	TablesCreated int
	TablesSkipped int
	MenuCreated   int
	MenuSkipped   int
}

// SeedDemo creates the demo tables and menu items that do not exist yet.
// Tables are matched by number and menu items by name.
func SeedDemo(ctx context.Context, store *cache.Store, logger aqm.Logger) (SeedResult, error) {
	var res SeedResult
	logger.Info("Starting demo seeding process...")

	if err := store.Invalidate(ctx, cache.Tables, cache.Menu); err != nil {
		return res, fmt.Errorf("load current state: %w", err)
	}

	numbers := make(map[int]bool)
	for _, t := range store.Tables.Items() {
		numbers[t.Number] = true
	}
	for _, in := range seeding.Tables() {
		if numbers[in.Number] {
			res.TablesSkipped++
			continue
		}
		if _, err := store.CreateTable(ctx, in); err != nil {
			return res, fmt.Errorf("create table %d: %w", in.Number, err)
		}
		res.TablesCreated++
	}
	logger.Info("Demo tables seeded", "created", res.TablesCreated, "skipped", res.TablesSkipped)

	names := make(map[string]bool)
	for _, m := range store.Menu.Items() {
		names[enums.Fold(m.Name)] = true
	}
	for _, in := range seeding.MenuItems() {
		if names[enums.Fold(in.Name)] {
			res.MenuSkipped++
			continue
		}
		if _, err := store.CreateMenuItem(ctx, in); err != nil {
			return res, fmt.Errorf("create menu item %q: %w", in.Name, err)
		}
		res.MenuCreated++
	}
	logger.Info("Demo menu seeded", "created", res.MenuCreated, "skipped", res.MenuSkipped)

	return res, nil
}

// ClearDemo deletes the demo tables and menu items. Tables still holding
// orders or reservations are refused by the service and reported.
func ClearDemo(ctx context.Context, store *cache.Store, logger aqm.Logger) (int, error) {
	logger.Info("Starting demo data cleanup...")

	if err := store.Invalidate(ctx, cache.Tables, cache.Menu); err != nil {
		return 0, fmt.Errorf("load current state: %w", err)
	}

	demoTables := make(map[int]bool)
	for _, in := range seeding.Tables() {
		demoTables[in.Number] = true
	}
	demoMenu := make(map[string]bool)
	for _, in := range seeding.MenuItems() {
		demoMenu[enums.Fold(in.Name)] = true
	}

	deleted := 0
	var failed int
	for _, t := range store.Tables.Items() {
		if !demoTables[t.Number] {
			continue
		}
		if err := store.DeleteTable(ctx, t.ID); err != nil {
			logger.Error("cannot delete demo table", "number", t.Number, "error", err)
			failed++
			continue
		}
		deleted++
	}
	for _, m := range store.Menu.Items() {
		if !demoMenu[enums.Fold(m.Name)] {
			continue
		}
		if err := store.DeleteMenuItem(ctx, m.ID); err != nil {
			logger.Error("cannot delete demo menu item", "name", m.Name, "error", err)
			failed++
			continue
		}
		deleted++
	}

	if failed > 0 {
		return deleted, fmt.Errorf("%d demo records could not be deleted", failed)
	}
	logger.Info("Demo data cleared", "deleted", deleted)
	return deleted, nil
}
