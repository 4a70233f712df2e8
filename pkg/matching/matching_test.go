package matching

import (
	"testing"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
)

var (
	available = tablestatus.Statuses.Available.Code()
	reserved  = tablestatus.Statuses.Reserved.Code()
	occupied  = tablestatus.Statuses.Occupied.Code()
)

func TestCandidates(t *testing.T) {
	tables := []api.Table{
		{ID: "t1", Number: 1, Capacity: 6, Status: available},
		{ID: "t2", Number: 2, Capacity: 4, Status: available},
		{ID: "t3", Number: 3, Capacity: 4, Status: reserved},
		{ID: "t4", Number: 4, Capacity: 2, Status: available},
		{ID: "t5", Number: 5, Capacity: 4, Status: "Disponible"},
		{ID: "t6", Number: 6, Capacity: 8, Status: occupied},
	}

	tests := []struct {
		name   string
		guests int
		want   []string
	}{
		{name: "partyOfFour", guests: 4, want: []string{"t2", "t5", "t1"}},
		{name: "partyOfTwo", guests: 2, want: []string{"t4", "t2", "t5", "t1"}},
		{name: "partyOfSeven", guests: 7, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tables, tt.guests)
			if len(got) != len(tt.want) {
				t.Fatalf("Candidates() = %v, want ids %v", got, tt.want)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Candidates()[%d] = %s, want %s", i, got[i].ID, id)
				}
				if !IsCandidate(got[i], tt.guests) {
					t.Errorf("Candidates()[%d] fails IsCandidate", i)
				}
			}
		})
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2026, time.March, 14, 23, 30, 0, 0, loc)
	reservations := []api.Reservation{
		{ID: "r1", ReservationDate: api.NewDate(2026, time.March, 14)},
		{ID: "r2", ReservationDate: api.NewDate(2026, time.March, 15)},
		{ID: "r3", ReservationDate: api.NewDate(2026, time.March, 13)},
		{ID: "r4"},
	}

	got := Today(reservations, now)
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("Today() = %v, want only r1", got)
	}
}

func TestActiveFilters(t *testing.T) {
	orders := []api.Order{
		{ID: "o1", Status: orderstatus.Statuses.Pending.Code()},
		{ID: "o2", Status: orderstatus.Statuses.Paid.Code()},
		{ID: "o3", Status: orderstatus.Statuses.Served.Code()},
		{ID: "o4", Status: orderstatus.Statuses.Cancelled.Code()},
	}
	if got := ActiveOrders(orders); len(got) != 2 || got[0].ID != "o1" || got[1].ID != "o3" {
		t.Errorf("ActiveOrders() = %v, want o1 and o3", got)
	}

	base := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)
	entries := []api.WaitlistEntry{
		{ID: "w1", Status: waitliststatus.Statuses.Waiting.Code(), CreatedAt: base.Add(10 * time.Minute)},
		{ID: "w2", Status: waitliststatus.Statuses.Notified.Code(), CreatedAt: base},
		{ID: "w3", Status: waitliststatus.Statuses.Waiting.Code(), CreatedAt: base.Add(5 * time.Minute)},
	}
	got := ActiveWaitlist(entries)
	if len(got) != 2 || got[0].ID != "w3" || got[1].ID != "w1" {
		t.Errorf("ActiveWaitlist() = %v, want w3 then w1", got)
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []api.OrderLine
		discount float64
		tax      float64
		want     Totals
	}{
		{
			name:     "discountAndTax",
			lines:    []api.OrderLine{{Price: 10.00, Quantity: 2}, {Price: 5.50, Quantity: 1}},
			discount: 2.00,
			tax:      1.50,
			want:     Totals{Subtotal: 25.50, Discount: 2.00, Tax: 1.50, Total: 25.00},
		},
		{
			name:  "populatedPriceFallback",
			lines: []api.OrderLine{{MenuItem: api.MenuItemRef{ID: "m", Item: &api.MenuItem{Price: 3.10}}, Quantity: 3}},
			want:  Totals{Subtotal: 9.30, Total: 9.30},
		},
		{
			name: "noLines",
			want: Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTotals(tt.lines, tt.discount, tt.tax); got != tt.want {
				t.Errorf("ComputeTotals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReservationActions(t *testing.T) {
	res := api.Reservation{
		ReservationDate: api.NewDate(2026, time.March, 14),
		ReservationTime: "20:00",
		Status:          reservationstatus.Statuses.Confirmed.Code(),
	}

	tests := []struct {
		name       string
		now        time.Time
		wantNoShow bool
	}{
		{name: "beforeScheduledTime", now: time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC), wantNoShow: false},
		{name: "afterScheduledTime", now: time.Date(2026, time.March, 14, 20, 30, 0, 0, time.UTC), wantNoShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReservationActions(res, tt.now)
			hasNoShow := false
			for _, s := range got {
				if s == reservationstatus.Statuses.NoShow {
					hasNoShow = true
				}
			}
			if hasNoShow != tt.wantNoShow {
				t.Errorf("ReservationActions() = %v, no-show offered %v, want %v", got, hasNoShow, tt.wantNoShow)
			}
		})
	}

	arrived := res
	arrived.Status = reservationstatus.Statuses.Arrived.Code()
	got := ReservationActions(arrived, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC))
	want := []reservationstatus.Status{reservationstatus.Statuses.Completed, reservationstatus.Statuses.Cancelled}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ReservationActions(arrived) = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	tables := []api.Table{
		{Status: available}, {Status: reserved}, {Status: available}, {Status: occupied},
	}
	reservations := []api.Reservation{
		{ReservationDate: api.NewDate(2026, time.March, 14), Status: reservationstatus.Statuses.Pending.Code()},
		{ReservationDate: api.NewDate(2026, time.March, 20), Status: reservationstatus.Statuses.Confirmed.Code()},
	}
	waitlist := []api.WaitlistEntry{
		{Status: waitliststatus.Statuses.Waiting.Code()},
		{Status: waitliststatus.Statuses.Cancelled.Code()},
	}
	orders := []api.Order{
		{Status: orderstatus.Statuses.Preparing.Code()},
		{Status: orderstatus.Statuses.Paid.Code()},
	}

	got := Summarize(tables, reservations, waitlist, orders, now)
	if got.TodayReservations != 1 {
		t.Errorf("TodayReservations = %d, want 1", got.TodayReservations)
	}
	if got.AvailableTables != 2 || got.TotalTables != 4 {
		t.Errorf("tables = %d/%d, want 2/4", got.AvailableTables, got.TotalTables)
	}
	if got.ActiveWaitlist != 1 {
		t.Errorf("ActiveWaitlist = %d, want 1", got.ActiveWaitlist)
	}
	if got.ActiveOrders != 1 {
		t.Errorf("ActiveOrders = %d, want 1", got.ActiveOrders)
	}
	if got.Tables[available] != 2 {
		t.Errorf("Tables[%s] = %d, want 2", available, got.Tables[available])
	}
}

func TestWithServerStatistics(t *testing.T) {
	local := Dashboard{
		AvailableTables: 1,
		TotalTables:     2,
		ActiveOrders:    1,
		Tables:          map[string]int{available: 1, occupied: 1},
		Orders:          map[string]int{orderstatus.Statuses.Pending.Code(): 1},
	}

	tests := []struct {
		name          string
		tables        api.Statistics
		orders        api.Statistics
		wantAvailable int
		wantTotal     int
		wantActive    int
	}{
		{
			name:          "missing",
			wantAvailable: 1,
			wantTotal:     2,
			wantActive:    1,
		},
		{
			name:          "serverAggregates",
			tables:        api.Statistics{"total": 6.0, "byStatus": map[string]any{"disponible": 3.0, "occupee": 2.0, "hors-service": 1.0}},
			orders:        api.Statistics{"total": 5.0, "byStatus": map[string]any{"en attente": 2.0, "prête": 1.0, "payée": 2.0}},
			wantAvailable: 3,
			wantTotal:     6,
			wantActive:    3,
		},
		{
			name:          "malformed",
			tables:        api.Statistics{"total": "six", "byStatus": []any{1.0}},
			orders:        api.Statistics{"byStatus": map[string]any{"en attente": "two"}},
			wantAvailable: 1,
			wantTotal:     2,
			wantActive:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithServerStatistics(local, tt.tables, tt.orders)
			if got.AvailableTables != tt.wantAvailable {
				t.Errorf("AvailableTables = %d, want %d", got.AvailableTables, tt.wantAvailable)
			}
			if got.TotalTables != tt.wantTotal {
				t.Errorf("TotalTables = %d, want %d", got.TotalTables, tt.wantTotal)
			}
			if got.ActiveOrders != tt.wantActive {
				t.Errorf("ActiveOrders = %d, want %d", got.ActiveOrders, tt.wantActive)
			}
		})
	}

	got := WithServerStatistics(local, api.Statistics{"byStatus": map[string]any{"occupee": 2.0}}, nil)
	if got.Tables[occupied] != 2 {
		t.Errorf("Tables[%q] = %d, want 2 under the canonical code", occupied, got.Tables[occupied])
	}
}
