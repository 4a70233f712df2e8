// Package matching holds the pure filters and roll-ups computed over cached
// collections: capacity matching, daily and active filters, status counts
// and order totals.
package matching

import (
	"math"
	"sort"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
)

// IsCandidate reports whether t can seat a party of guests right now.
func IsCandidate(t api.Table, guests int) bool {
	return t.State() == tablestatus.Statuses.Available && t.Capacity >= guests
}

// Candidates returns the tables that can seat guests, tightest fit first
// and then by table number.
func Candidates(tables []api.Table, guests int) []api.Table {
	out := make([]api.Table, 0, len(tables))
	for _, t := range tables {
		if IsCandidate(t, guests) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// Today keeps the reservations whose date is the calendar day of now.
func Today(reservations []api.Reservation, now time.Time) []api.Reservation {
	out := make([]api.Reservation, 0)
	for _, r := range reservations {
		if r.ReservationDate.SameDay(now) {
			out = append(out, r)
		}
	}
	return out
}

func ActiveOrders(orders []api.Order) []api.Order {
	out := make([]api.Order, 0)
	for _, o := range orders {
		if orderstatus.IsActive(o.State()) {
			out = append(out, o)
		}
	}
	return out
}

// ActiveWaitlist keeps waiting entries, oldest first.
func ActiveWaitlist(entries []api.WaitlistEntry) []api.WaitlistEntry {
	out := make([]api.WaitlistEntry, 0)
	for _, e := range entries {
		if e.State() == waitliststatus.Statuses.Waiting {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func AvailableTables(tables []api.Table) []api.Table {
	out := make([]api.Table, 0)
	for _, t := range tables {
		if t.State() == tablestatus.Statuses.Available {
			out = append(out, t)
		}
	}
	return out
}

// CountBy groups items by key and counts each group.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[key(it)]++
	}
	return counts
}

// The per-entity counts key by canonical wire code, so spelling variants
// from the service land in the same bucket.

func TableCounts(tables []api.Table) map[string]int {
	return CountBy(tables, func(t api.Table) string { return t.State().Code() })
}

func ReservationCounts(reservations []api.Reservation) map[string]int {
	return CountBy(reservations, func(r api.Reservation) string { return r.State().Code() })
}

func WaitlistCounts(entries []api.WaitlistEntry) map[string]int {
	return CountBy(entries, func(e api.WaitlistEntry) string { return e.State().Code() })
}

func OrderCounts(orders []api.Order) map[string]int {
	return CountBy(orders, func(o api.Order) string { return o.State().Code() })
}

type Totals struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
}

// ComputeTotals applies total = subtotal - discount + tax, where subtotal
// sums unit price times quantity. Every figure is rounded to cents.
func ComputeTotals(lines []api.OrderLine, discount, tax float64) Totals {
	subtotal := 0.0
	for _, l := range lines {
		subtotal += l.UnitPrice() * float64(l.Quantity)
	}
	subtotal = roundCents(subtotal)
	discount = roundCents(discount)
	tax = roundCents(tax)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    roundCents(subtotal - discount + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ReservationActions lists the statuses staff may move res to at now.
// No-show is withheld until the scheduled time has passed.
func ReservationActions(res api.Reservation, now time.Time) []reservationstatus.Status {
	var out []reservationstatus.Status
	for _, next := range reservationstatus.Next(res.State()) {
		if next == reservationstatus.Statuses.NoShow && now.Before(res.ScheduledAt(now.Location())) {
			continue
		}
		out = append(out, next)
	}
	return out
}

func OrderActions(order api.Order) []orderstatus.Status {
	return orderstatus.Next(order.State())
}

// Dashboard is the summary shown on the console home page.
type Dashboard struct {
	TodayReservations int
	AvailableTables   int
	TotalTables       int
	ActiveWaitlist    int
	ActiveOrders      int
	Tables            map[string]int
	Reservations      map[string]int
	Orders            map[string]int
}

func Summarize(tables []api.Table, reservations []api.Reservation, waitlist []api.WaitlistEntry, orders []api.Order, now time.Time) Dashboard {
	return Dashboard{
		TodayReservations: len(Today(reservations, now)),
		AvailableTables:   len(AvailableTables(tables)),
		TotalTables:       len(tables),
		ActiveWaitlist:    len(ActiveWaitlist(waitlist)),
		ActiveOrders:      len(ActiveOrders(orders)),
		Tables:            TableCounts(tables),
		Reservations:      ReservationCounts(reservations),
		Orders:            OrderCounts(orders),
	}
}

// WithServerStatistics overrides the table and order roll-ups of d with the
// service's own aggregates where they are present. Anything missing or
// malformed keeps the locally computed value.
func WithServerStatistics(d Dashboard, tables, orders api.Statistics) Dashboard {
	if total, ok := statNumber(tables["total"]); ok {
		d.TotalTables = total
	}
	if counts, ok := statCounts(tables["byStatus"], func(code string) string {
		if s := tablestatus.ByName(code); s != nil {
			return s.Code()
		}
		return code
	}); ok {
		d.Tables = counts
		d.AvailableTables = counts[tablestatus.Statuses.Available.Code()]
	}

	if counts, ok := statCounts(orders["byStatus"], func(code string) string {
		if s := orderstatus.ByName(code); s != nil {
			return s.Code()
		}
		return code
	}); ok {
		d.Orders = counts
		d.ActiveOrders = 0
		for code, n := range counts {
			if s := orderstatus.ByName(code); s != nil && orderstatus.IsActive(*s) {
				d.ActiveOrders += n
			}
		}
	}
	return d
}

func statNumber(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, false
	}
	return int(f), true
}

func statCounts(v any, canonical func(string) string) (map[string]int, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	counts := make(map[string]int, len(raw))
	for code, n := range raw {
		count, ok := statNumber(n)
		if !ok {
			return nil, false
		}
		counts[canonical(code)] += count
	}
	return counts, true
}
