package console

import (
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
)

func TestFormatMoney(t *testing.T) {
	got := formatMoney(12.5)
	if !strings.Contains(got, "€") {
		t.Errorf("formatMoney(12.5) = %q, want a euro amount", got)
	}
	if !strings.Contains(got, "12") {
		t.Errorf("formatMoney(12.5) = %q, want it to contain 12", got)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "dot", raw: "12.50", want: 12.5},
		{name: "comma", raw: "12,50", want: 12.5},
		{name: "withSymbol", raw: " 9,90 € ", want: 9.9},
		{name: "empty", raw: "", wantErr: true},
		{name: "onlySymbol", raw: "€", wantErr: true},
		{name: "notANumber", raw: "douze", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMoney(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMoney(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseMoney(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMenuSectionsOrder(t *testing.T) {
	items := []api.MenuItem{
		{ID: "1", Name: "Mousse", Category: "dessert", Available: true},
		{ID: "2", Name: "Soupe", Category: "Entrée", Available: true},
		{ID: "3", Name: "Planche", Category: "apéritif", Available: true},
		{ID: "4", Name: "Steak", Category: "plat principal", Available: false},
	}

	tests := []struct {
		name          string
		onlyAvailable bool
		want          []string
	}{
		{name: "allItems", onlyAvailable: false, want: []string{"entrée", "plat principal", "dessert", "apéritif"}},
		{name: "onlyAvailable", onlyAvailable: true, want: []string{"entrée", "dessert", "apéritif"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range menuSections(items, tt.onlyAvailable) {
				got = append(got, s.Category)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("menuSections() categories = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderLinesFrom(t *testing.T) {
	form := url.Values{
		"menu_item": {"a", "", "b", "c"},
		"quantity":  {"2", "1", "0", "3"},
		"notes":     {" sans sel ", "", "", ""},
	}
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := req.ParseForm(); err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}

	want := []api.OrderLineInput{
		{MenuItem: "a", Quantity: 2, Notes: "sans sel"},
		{MenuItem: "c", Quantity: 3},
	}
	if got := orderLinesFrom(req); !reflect.DeepEqual(got, want) {
		t.Errorf("orderLinesFrom() = %+v, want %+v", got, want)
	}
}

func TestReservationStep(t *testing.T) {
	tests := []struct {
		status reservationstatus.Status
		want   string
	}{
		{status: reservationstatus.Statuses.Confirmed, want: "confirm"},
		{status: reservationstatus.Statuses.Arrived, want: "arrived"},
		{status: reservationstatus.Statuses.Completed, want: "completed"},
		{status: reservationstatus.Statuses.Cancelled, want: "cancel"},
		{status: reservationstatus.Statuses.NoShow, want: "no-show"},
		{status: reservationstatus.Statuses.Pending, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.status.Code(), func(t *testing.T) {
			if got := reservationStep(tt.status); got != tt.want {
				t.Errorf("reservationStep(%s) = %q, want %q", tt.status.Code(), got, tt.want)
			}
		})
	}
}

func TestOrderViewHidesCancelFromSteps(t *testing.T) {
	o := api.Order{
		ID:     "o1",
		Status: orderstatus.Statuses.Pending.Code(),
		Items:  []api.OrderLine{{Quantity: 2, Price: 4.5}},
	}

	v := newOrderView(o, nil)

	for _, a := range v.Actions {
		if a.Value == orderstatus.Statuses.Cancelled.Code() {
			t.Errorf("Actions contains %q, want it offered only as Cancellable", a.Value)
		}
	}
	if !v.Cancellable {
		t.Error("Cancellable = false, want true for a pending order")
	}
	if !v.AcceptsItems {
		t.Error("AcceptsItems = false, want true for a pending order")
	}
	if v.Table != "-" {
		t.Errorf("Table = %q, want -", v.Table)
	}
}

func TestWaitingFor(t *testing.T) {
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		since time.Time
		want  string
	}{
		{name: "unknown", since: time.Time{}, want: "-"},
		{name: "justNow", since: now.Add(-20 * time.Second), want: "just now"},
		{name: "minutes", since: now.Add(-25 * time.Minute), want: "25 min"},
		{name: "hours", since: now.Add(-(time.Hour + 5*time.Minute)), want: "1h05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := waitingFor(tt.since, now); got != tt.want {
				t.Errorf("waitingFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
