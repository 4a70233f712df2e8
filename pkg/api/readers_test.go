package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/api/apitest"
	"github.com/appetiteclub/frontdesk/pkg/enums/menucategory"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
)

type readerFixture struct {
	bar, terrace, busy api.Table
	soup, steak, tart  api.MenuItem
	eva, tom           api.Reservation
	open, paid         api.Order
}

func seedReaders(srv *apitest.Server) readerFixture {
	var f readerFixture
	f.bar = srv.SeedTable(api.Table{Number: 1, Capacity: 2, Location: "bar"})
	f.terrace = srv.SeedTable(api.Table{Number: 2, Capacity: 6, Location: "terrasse"})
	f.busy = srv.SeedTable(api.Table{Number: 3, Capacity: 4, Location: "terrasse", Status: tablestatus.Statuses.Occupied.Code()})

	f.soup = srv.SeedMenuItem(api.MenuItem{Name: "Soupe à l'oignon", Price: 8, Category: menucategory.Categories.Starter.Code(), Available: true, Rating: 4.5})
	f.steak = srv.SeedMenuItem(api.MenuItem{Name: "Steak frites", Description: "Frites maison, sauce poivre", Price: 24, Category: menucategory.Categories.Main.Code(), Available: true, Rating: 4.8})
	f.tart = srv.SeedMenuItem(api.MenuItem{Name: "Tarte Tatin", Price: 9, Category: menucategory.Categories.Dessert.Code(), Rating: 4.9})

	f.eva = srv.SeedReservation(api.Reservation{CustomerName: "Eva", CustomerPhone: "0611111111", NumberOfGuests: 2, ReservationTime: "20:00"})
	f.tom = srv.SeedReservation(api.Reservation{CustomerName: "Tom", CustomerPhone: "0622222222", NumberOfGuests: 4, ReservationTime: "21:00"})

	f.open = srv.SeedOrder(api.Order{Table: api.RefTable(f.busy.ID), CustomerName: "Eva", CustomerPhone: "0633333333"})
	f.paid = srv.SeedOrder(api.Order{CustomerName: "Tom", CustomerPhone: "0644444444", Total: 30, Status: orderstatus.Statuses.Paid.Code()})
	return f
}

func TestClientReadEndpoints(t *testing.T) {
	envelopes := []struct {
		name string
		bare bool
	}{
		{name: "wrapped", bare: false},
		{name: "bare", bare: true},
	}

	for _, env := range envelopes {
		t.Run(env.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			srv.SetBare(env.bare)
			f := seedReaders(srv)
			client := newSignedInClient(t, srv)
			ctx := context.Background()

			tests := []struct {
				name  string
				check func(t *testing.T)
			}{
				{name: "tableAvailableWithQuery", check: func(t *testing.T) {
					got, err := client.Tables().Available(ctx, api.AvailabilityQuery{Guests: 4, Location: "terrasse"})
					if err != nil {
						t.Fatalf("Available() error = %v", err)
					}
					if len(got) != 1 || got[0].ID != f.terrace.ID {
						t.Errorf("Available() = %+v, want only table 2", got)
					}
				}},
				{name: "tableAvailableUnfiltered", check: func(t *testing.T) {
					got, err := client.Tables().Available(ctx, api.AvailabilityQuery{})
					if err != nil {
						t.Fatalf("Available() error = %v", err)
					}
					if len(got) != 2 {
						t.Errorf("Available() returned %d tables, want 2", len(got))
					}
				}},
				{name: "tableFloorPlan", check: func(t *testing.T) {
					plan, err := client.Tables().FloorPlan(ctx)
					if err != nil {
						t.Fatalf("FloorPlan() error = %v", err)
					}
					if len(plan["terrasse"]) != 2 || len(plan["bar"]) != 1 {
						t.Errorf("FloorPlan() = %v, want 2 on terrasse and 1 at the bar", plan)
					}
				}},
				{name: "tableStatistics", check: func(t *testing.T) {
					stats, err := client.Tables().Statistics(ctx)
					if err != nil {
						t.Fatalf("Statistics() error = %v", err)
					}
					if stats["total"] != 3.0 {
						t.Errorf("Statistics()[total] = %v, want 3", stats["total"])
					}
					byStatus, ok := stats["byStatus"].(map[string]any)
					if !ok || byStatus[tablestatus.Statuses.Available.Code()] != 2.0 {
						t.Errorf("Statistics()[byStatus] = %v, want 2 available", stats["byStatus"])
					}
				}},
				{name: "menuGet", check: func(t *testing.T) {
					got, err := client.Menu().Get(ctx, f.tart.ID)
					if err != nil {
						t.Fatalf("Get() error = %v", err)
					}
					if got.Name != f.tart.Name || got.Available {
						t.Errorf("Get() = %+v, want the unavailable tart", got)
					}
				}},
				{name: "menuPopular", check: func(t *testing.T) {
					got, err := client.Menu().Popular(ctx)
					if err != nil {
						t.Fatalf("Popular() error = %v", err)
					}
					if len(got) != 2 || got[0].ID != f.steak.ID || got[1].ID != f.soup.ID {
						t.Errorf("Popular() = %+v, want steak then soup", got)
					}
				}},
				{name: "menuSearchEncodesQuery", check: func(t *testing.T) {
					got, err := client.Menu().Search(ctx, "  frites maison ")
					if err != nil {
						t.Fatalf("Search() error = %v", err)
					}
					if len(got) != 1 || got[0].ID != f.steak.ID {
						t.Errorf("Search() = %+v, want only the steak", got)
					}
				}},
				{name: "menuCategories", check: func(t *testing.T) {
					got, err := client.Menu().Categories(ctx)
					if err != nil {
						t.Fatalf("Categories() error = %v", err)
					}
					if len(got) != 2 {
						t.Fatalf("Categories() returned %d groups, want 2", len(got))
					}
					course := got[1]
					if course.Category != f.steak.Category || course.Count != 1 || len(course.Items) != 1 || course.Items[0].ID != f.steak.ID {
						t.Errorf("Categories()[1] = %+v, want one main course", course)
					}
				}},
				{name: "menuStatistics", check: func(t *testing.T) {
					stats, err := client.Menu().Statistics(ctx)
					if err != nil {
						t.Fatalf("Statistics() error = %v", err)
					}
					if stats["total"] != 3.0 {
						t.Errorf("Statistics()[total] = %v, want 3", stats["total"])
					}
				}},
				{name: "reservationGet", check: func(t *testing.T) {
					got, err := client.Reservations().Get(ctx, f.tom.ID)
					if err != nil {
						t.Fatalf("Get() error = %v", err)
					}
					if got.CustomerName != "Tom" || got.NumberOfGuests != 4 {
						t.Errorf("Get() = %+v, want Tom for 4", got)
					}
				}},
				{name: "reservationsByCustomer", check: func(t *testing.T) {
					got, err := client.Reservations().ByCustomer(ctx, f.eva.CustomerPhone)
					if err != nil {
						t.Fatalf("ByCustomer() error = %v", err)
					}
					if len(got) != 1 || got[0].ID != f.eva.ID {
						t.Errorf("ByCustomer() = %+v, want only Eva", got)
					}
				}},
				{name: "orderGet", check: func(t *testing.T) {
					got, err := client.Orders().Get(ctx, f.open.ID)
					if err != nil {
						t.Fatalf("Get() error = %v", err)
					}
					if got.Table.ID != f.busy.ID || got.State() != orderstatus.Statuses.Pending {
						t.Errorf("Get() = %+v, want a pending order on table 3", got)
					}
				}},
				{name: "ordersByTable", check: func(t *testing.T) {
					got, err := client.Orders().ByTable(ctx, f.busy.ID)
					if err != nil {
						t.Fatalf("ByTable() error = %v", err)
					}
					if len(got) != 1 || got[0].ID != f.open.ID {
						t.Errorf("ByTable() = %+v, want the open order", got)
					}
				}},
				{name: "ordersByCustomer", check: func(t *testing.T) {
					got, err := client.Orders().ByCustomer(ctx, f.paid.CustomerPhone)
					if err != nil {
						t.Fatalf("ByCustomer() error = %v", err)
					}
					if len(got) != 1 || got[0].ID != f.paid.ID {
						t.Errorf("ByCustomer() = %+v, want the paid order", got)
					}
				}},
				{name: "orderStatistics", check: func(t *testing.T) {
					stats, err := client.Orders().Statistics(ctx)
					if err != nil {
						t.Fatalf("Statistics() error = %v", err)
					}
					if stats["total"] != 2.0 || stats["revenue"] != 30.0 {
						t.Errorf("Statistics() = %v, want total 2 and revenue 30", stats)
					}
				}},
			}

			for _, tt := range tests {
				t.Run(tt.name, tt.check)
			}
		})
	}
}

func TestClientReadEndpointsRejectBadInput(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := newSignedInClient(t, srv)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "emptySearch", call: func() error { _, err := client.Menu().Search(ctx, "   "); return err }},
		{name: "reservationsWithoutPhone", call: func() error { _, err := client.Reservations().ByCustomer(ctx, ""); return err }},
		{name: "ordersWithoutPhone", call: func() error { _, err := client.Orders().ByCustomer(ctx, ""); return err }},
		{name: "ordersByMalformedTable", call: func() error { _, err := client.Orders().ByTable(ctx, "table-3"); return err }},
		{name: "menuItemMalformedID", call: func() error { _, err := client.Menu().Get(ctx, "42"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, api.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	if n := len(srv.Calls()); n != 0 {
		t.Errorf("server received %d calls, want 0", n)
	}
}

func TestClientMenuReadsArePublic(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	f := seedReaders(srv)
	client := api.NewClient(srv.APIURL(), api.NewSession())
	ctx := context.Background()

	if _, err := client.Menu().Categories(ctx); err != nil {
		t.Errorf("Categories() without credential error = %v", err)
	}
	if _, err := client.Menu().Get(ctx, f.soup.ID); err != nil {
		t.Errorf("Get() without credential error = %v", err)
	}
	if _, err := client.Tables().FloorPlan(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("FloorPlan() without credential error = %v, want ErrUnauthorized", err)
	}
	if n := srv.CountCalls(http.MethodGet, "/tables/floor-plan"); n != 0 {
		t.Errorf("floor plan calls = %d, want 0", n)
	}
}
