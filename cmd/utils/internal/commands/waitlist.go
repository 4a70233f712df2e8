package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

// Candidates lists the tables that can seat the waitlist entry's party.
func Candidates(ctx context.Context, store *cache.Store, entryID string, w io.Writer) error {
	if err := store.Invalidate(ctx, cache.Tables, cache.Waitlist); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	entry, ok := store.Waitlist.Get(entryID)
	if !ok {
		return api.Errorf("candidates", api.ErrNotFound, "waitlist entry %s not found", entryID)
	}

	tables := matching.Candidates(store.Tables.Items(), entry.NumberOfGuests)
	if len(tables) == 0 {
		fmt.Fprintf(w, "No available table seats %d guests.\n", entry.NumberOfGuests)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTABLE\tCAPACITY\tLOCATION")
	for _, t := range tables {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", t.ID, t.Number, t.Capacity, t.Location)
	}
	return tw.Flush()
}

// Convert seats a waitlist entry at a table and prints the new reservation.
func Convert(ctx context.Context, store *cache.Store, entryID, tableID string, w io.Writer) error {
	if err := store.Invalidate(ctx, cache.Tables, cache.Waitlist); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	res, err := store.ConvertWaitlistEntry(ctx, entryID, tableID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Reservation %s: %s, %d guests, %s %s (%s)\n",
		res.ID, res.CustomerName, res.NumberOfGuests, res.ReservationDate, res.ReservationTime, res.State().Label())
	return nil
}
