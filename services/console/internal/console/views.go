package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/location"
	"github.com/appetiteclub/frontdesk/pkg/enums/menucategory"
	"github.com/appetiteclub/frontdesk/pkg/enums/occasion"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

var printer = message.NewPrinter(language.French)

func formatMoney(v float64) string {
	return printer.Sprint(currency.Symbol(currency.EUR.Amount(v)))
}

type option struct {
	Value string
	Label string
}

type tableView struct {
	ID            string
	Number        int
	Capacity      int
	Location      string
	LocationLabel string
	Shape         string
	Status        string
	StatusLabel   string
	Next          []option
}

type reservationView struct {
	ID          string
	Customer    string
	Phone       string
	Guests      int
	Date        string
	Time        string
	Table       string
	Occasion    string
	Requests    string
	Status      string
	StatusLabel string
	Actions     []option
	Editable    bool
}

type waitlistView struct {
	ID          string
	Customer    string
	Phone       string
	Guests      int
	Requested   string
	Waiting     string
	Notes       string
	Status      string
	StatusLabel string
	Convertible bool
}

type orderLineView struct {
	Name     string
	Quantity int
	Price    string
	Notes    string
}

type orderView struct {
	ID           string
	Table        string
	Customer     string
	Lines        []orderLineView
	Subtotal     string
	Total        string
	Status       string
	StatusLabel  string
	Actions      []option
	AcceptsItems bool
	Cancellable  bool
}

type menuItemView struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       string
	Available   bool
	Special     bool
	SpicyLevel  int
}

type menuSection struct {
	Category string
	Label    string
	Items    []menuItemView
}

func newTableView(t api.Table) tableView {
	v := tableView{
		ID:            t.ID,
		Number:        t.Number,
		Capacity:      t.Capacity,
		Location:      t.Location,
		LocationLabel: t.Location,
		Shape:         t.Shape,
		Status:        t.State().Code(),
		StatusLabel:   t.State().Label(),
	}
	if loc := location.ByName(t.Location); loc != nil {
		v.LocationLabel = loc.Label()
	}
	for _, next := range tablestatus.Next(t.State()) {
		v.Next = append(v.Next, option{Value: next.Code(), Label: next.Label()})
	}
	return v
}

func tableViews(tables []api.Table) []tableView {
	sorted := append([]api.Table(nil), tables...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	out := make([]tableView, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, newTableView(t))
	}
	return out
}

// tableLabel resolves a reference to "Table N" through the cached tables.
func tableLabel(ref api.TableRef, byID map[string]api.Table) string {
	if ref.IsZero() {
		return "-"
	}
	if n := ref.Number(); n > 0 {
		return fmt.Sprintf("Table %d", n)
	}
	if t, ok := byID[ref.ID]; ok {
		return fmt.Sprintf("Table %d", t.Number)
	}
	return "-"
}

func indexTables(tables []api.Table) map[string]api.Table {
	byID := make(map[string]api.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}
	return byID
}

func newReservationView(r api.Reservation, byID map[string]api.Table, now time.Time) reservationView {
	v := reservationView{
		ID:          r.ID,
		Customer:    r.CustomerName,
		Phone:       r.CustomerPhone,
		Guests:      r.NumberOfGuests,
		Date:        r.ReservationDate.String(),
		Time:        r.ReservationTime,
		Table:       tableLabel(r.Table, byID),
		Occasion:    r.Occasion,
		Requests:    r.SpecialRequests,
		Status:      r.State().Code(),
		StatusLabel: r.State().Label(),
		Editable:    !reservationstatus.IsTerminal(r.State()),
	}
	if occ := occasion.ByName(r.Occasion); occ != nil {
		v.Occasion = occ.Label()
	}
	for _, next := range matching.ReservationActions(r, now) {
		v.Actions = append(v.Actions, option{Value: reservationStep(next), Label: next.Label()})
	}
	return v
}

func reservationViews(reservations []api.Reservation, tables []api.Table, now time.Time) []reservationView {
	sorted := append([]api.Reservation(nil), reservations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledAt(time.UTC).Before(sorted[j].ScheduledAt(time.UTC))
	})

	byID := indexTables(tables)
	out := make([]reservationView, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, newReservationView(r, byID, now))
	}
	return out
}

func newWaitlistView(e api.WaitlistEntry, now time.Time) waitlistView {
	v := waitlistView{
		ID:          e.ID,
		Customer:    e.CustomerName,
		Phone:       e.CustomerPhone,
		Guests:      e.NumberOfGuests,
		Requested:   strings.TrimSpace(e.RequestedDate.String() + " " + e.RequestedTime),
		Waiting:     waitingFor(e.CreatedAt, now),
		Notes:       e.Notes,
		Status:      e.State().Code(),
		StatusLabel: e.State().Label(),
		Convertible: waitliststatus.CanConvert(e.State()),
	}
	return v
}

func waitlistViews(entries []api.WaitlistEntry, now time.Time) []waitlistView {
	out := make([]waitlistView, 0, len(entries))
	for _, e := range entries {
		out = append(out, newWaitlistView(e, now))
	}
	return out
}

func newOrderView(o api.Order, byID map[string]api.Table) orderView {
	totals := matching.ComputeTotals(o.Items, o.Discount, o.Tax)
	v := orderView{
		ID:           o.ID,
		Table:        tableLabel(o.Table, byID),
		Customer:     o.CustomerName,
		Subtotal:     formatMoney(totals.Subtotal),
		Total:        formatMoney(totals.Total),
		Status:       o.State().Code(),
		StatusLabel:  o.State().Label(),
		AcceptsItems: orderstatus.AcceptsItems(o.State()),
		Cancellable:  orderstatus.CanTransition(o.State(), orderstatus.Statuses.Cancelled),
	}
	for _, l := range o.Items {
		v.Lines = append(v.Lines, orderLineView{
			Name:     l.DisplayName(),
			Quantity: l.Quantity,
			Price:    formatMoney(l.UnitPrice()),
			Notes:    l.Notes,
		})
	}
	for _, next := range matching.OrderActions(o) {
		if next == orderstatus.Statuses.Cancelled {
			continue
		}
		v.Actions = append(v.Actions, option{Value: next.Code(), Label: next.Label()})
	}
	return v
}

func orderViews(orders []api.Order, tables []api.Table) []orderView {
	byID := indexTables(tables)
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o, byID))
	}
	return out
}

func newMenuItemView(m api.MenuItem) menuItemView {
	return menuItemView{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       formatMoney(m.Price),
		Available:   m.Available,
		Special:     m.IsSpecial,
		SpicyLevel:  m.SpicyLevel,
	}
}

// menuSections groups items by category in menu order; unknown categories go last.
func menuSections(items []api.MenuItem, onlyAvailable bool) []menuSection {
	grouped := make(map[string][]menuItemView)
	var unknown []string
	for _, m := range items {
		if onlyAvailable && !m.Available {
			continue
		}
		key := m.Category
		if cat := menucategory.ByName(m.Category); cat != nil {
			key = cat.Code()
		} else if _, seen := grouped[key]; !seen {
			unknown = append(unknown, key)
		}
		grouped[key] = append(grouped[key], newMenuItemView(m))
	}

	var out []menuSection
	for _, cat := range menucategory.All {
		if views, ok := grouped[cat.Code()]; ok {
			out = append(out, menuSection{Category: cat.Code(), Label: cat.Label(), Items: views})
		}
	}
	for _, key := range unknown {
		out = append(out, menuSection{Category: key, Label: key, Items: grouped[key]})
	}
	return out
}

func waitingFor(since, now time.Time) string {
	if since.IsZero() {
		return "-"
	}
	d := now.Sub(since)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%02d", int(d.Hours()), int(d.Minutes())%60)
	}
}

type labeled interface {
	Code() string
	Label() string
}

func statusOptions[T labeled](all []T) []option {
	out := make([]option, 0, len(all))
	for _, s := range all {
		out = append(out, option{Value: s.Code(), Label: s.Label()})
	}
	return out
}

func atoi(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseMoney(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, "€")
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("price is required")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return v, nil
}
