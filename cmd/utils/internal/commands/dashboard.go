package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

// Stats loads every collection once and prints the dashboard summary,
// preferring the service's table and order aggregates when it serves them.
func Stats(ctx context.Context, store *cache.Store, w io.Writer) error {
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	client := store.Client()
	tables, err := client.Tables().Statistics(ctx)
	if err != nil {
		tables = nil
	}
	orders, err := client.Orders().Statistics(ctx)
	if err != nil {
		orders = nil
	}

	printSummary(w, store.Now(), matching.WithServerStatistics(summarize(store), tables, orders))
	return nil
}

// Watch prints the dashboard, then again after every poll until ctx is done.
func Watch(ctx context.Context, store *cache.Store, intervals map[cache.Collection]time.Duration, w io.Writer, logger aqm.Logger) error {
	if err := store.Load(ctx); err != nil {
		logger.Error("initial load incomplete", "error", err)
	}

	var mu sync.Mutex
	printDashboard(w, store)

	store.Watch(ctx, intervals, func(c cache.Collection, err error) {
		if err != nil {
			logger.Error("refresh failed, keeping last data", "collection", c, "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "\n--- %s refreshed ---\n", c)
		printDashboard(w, store)
	})
	return nil
}

// PollIntervals reads poll.<collection> durations, falling back to the defaults.
func PollIntervals(config *aqm.Config, logger aqm.Logger) map[cache.Collection]time.Duration {
	intervals := make(map[cache.Collection]time.Duration, len(cache.DefaultPoll))
	for c, def := range cache.DefaultPoll {
		intervals[c] = def
		raw := stringOr(config, "poll."+string(c), "")
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			logger.Info("invalid poll interval, using default", "collection", c, "value", raw)
			continue
		}
		intervals[c] = d
	}
	return intervals
}

func summarize(store *cache.Store) matching.Dashboard {
	return matching.Summarize(
		store.Tables.Items(),
		store.Reservations.Items(),
		store.Waitlist.Items(),
		store.Orders.Items(),
		store.Now(),
	)
}

func printDashboard(w io.Writer, store *cache.Store) {
	printSummary(w, store.Now(), summarize(store))
}

func printSummary(w io.Writer, now time.Time, d matching.Dashboard) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "As of\t%s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(tw, "Reservations today\t%d\n", d.TodayReservations)
	fmt.Fprintf(tw, "Tables available\t%d/%d\n", d.AvailableTables, d.TotalTables)
	fmt.Fprintf(tw, "Waitlist\t%d\n", d.ActiveWaitlist)
	fmt.Fprintf(tw, "Active orders\t%d\n", d.ActiveOrders)
	printCounts(tw, "Tables", d.Tables)
	printCounts(tw, "Reservations", d.Reservations)
	printCounts(tw, "Orders", d.Orders)
	_ = tw.Flush()
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\t%d\n", title, k, counts[k])
	}
}
