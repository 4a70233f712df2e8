package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/enums/location"
	"github.com/appetiteclub/frontdesk/pkg/enums/menucategory"
	"github.com/appetiteclub/frontdesk/pkg/enums/occasion"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/shape"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
)

type Table struct {
	ID        string    `json:"_id"`
	Number    int       `json:"tableNumber"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location"`
	Shape     string    `json:"shape,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// State returns the table status. Unknown codes come back as a status
// whose name is the raw code and which has no transitions.
func (t Table) State() tablestatus.Status {
	if s := tablestatus.ByName(t.Status); s != nil {
		return *s
	}
	return tablestatus.Status{Name: t.Status, Title: t.Status}
}

type Reservation struct {
	ID              string    `json:"_id"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   string    `json:"customerEmail,omitempty"`
	NumberOfGuests  int       `json:"numberOfGuests"`
	ReservationDate Date      `json:"reservationDate"`
	ReservationTime string    `json:"reservationTime"`
	Table           TableRef  `json:"table"`
	Occasion        string    `json:"occasion,omitempty"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	Status          string    `json:"status"`
	CancelReason    string    `json:"cancelReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

func (r Reservation) State() reservationstatus.Status {
	if s := reservationstatus.ByName(r.Status); s != nil {
		return *s
	}
	return reservationstatus.Status{Name: r.Status, Title: r.Status}
}

// ScheduledAt combines the reservation's calendar date and time of day in
// loc. A missing or malformed time of day falls back to midnight.
func (r Reservation) ScheduledAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	d := r.ReservationDate.UTC()
	hour, minute := 0, 0
	if tod, err := time.Parse("15:04", strings.TrimSpace(r.ReservationTime)); err == nil {
		hour, minute = tod.Hour(), tod.Minute()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

type WaitlistEntry struct {
	ID             string    `json:"_id"`
	CustomerName   string    `json:"customerName"`
	CustomerPhone  string    `json:"customerPhone"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	NumberOfGuests int       `json:"numberOfGuests"`
	RequestedDate  Date      `json:"requestedDate"`
	RequestedTime  string    `json:"requestedTime"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

func (w WaitlistEntry) State() waitliststatus.Status {
	if s := waitliststatus.ByName(w.Status); s != nil {
		return *s
	}
	return waitliststatus.Status{Name: w.Status, Title: w.Status}
}

type OrderLine struct {
	MenuItem MenuItemRef `json:"menuItem"`
	Name     string      `json:"name,omitempty"`
	Price    float64     `json:"price,omitempty"`
	Quantity int         `json:"quantity"`
	Notes    string      `json:"notes,omitempty"`
}

// DisplayName prefers the snapshot name and falls back to the populated item.
func (l OrderLine) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	if l.MenuItem.Item != nil {
		return l.MenuItem.Item.Name
	}
	return "Item"
}

// UnitPrice prefers the snapshot price and falls back to the populated item.
func (l OrderLine) UnitPrice() float64 {
	if l.Price > 0 || l.MenuItem.Item == nil {
		return l.Price
	}
	return l.MenuItem.Item.Price
}

type Order struct {
	ID            string      `json:"_id"`
	Table         TableRef    `json:"table"`
	CustomerName  string      `json:"customerName,omitempty"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Items         []OrderLine `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	CancelReason  string      `json:"cancelReason,omitempty"`
	CreatedAt     time.Time   `json:"createdAt,omitzero"`
	UpdatedAt     time.Time   `json:"updatedAt,omitzero"`
}

func (o Order) State() orderstatus.Status {
	if s := orderstatus.ByName(o.Status); s != nil {
		return *s
	}
	return orderstatus.Status{Name: o.Status, Title: o.Status}
}

type MenuItem struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Available       bool      `json:"available"`
	PreparationTime int       `json:"preparationTime,omitempty"`
	Ingredients     []string  `json:"ingredients,omitempty"`
	Allergens       []string  `json:"allergens,omitempty"`
	Calories        int       `json:"calories,omitempty"`
	SpicyLevel      int       `json:"spicyLevel,omitempty"`
	IsSpecial       bool      `json:"isSpecial"`
	Rating          float64   `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

// MenuCategory is one group returned by GET /menu/categories.
type MenuCategory struct {
	Category string     `json:"_id"`
	Count    int        `json:"count"`
	Items    []MenuItem `json:"items"`
}

// Statistics is the free-form document returned by the statistics endpoints.
type Statistics map[string]any

// FloorPlan groups tables by location code. The service may send either a
// flat table list or an object keyed by location; both decode here.
type FloorPlan map[string][]Table

func (f *FloorPlan) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	plan := FloorPlan{}
	if len(data) > 0 && data[0] == '[' {
		var tables []Table
		if err := json.Unmarshal(data, &tables); err != nil {
			return fmt.Errorf("decode floor plan: %w", err)
		}
		for _, t := range tables {
			plan[t.Location] = append(plan[t.Location], t)
		}
		*f = plan
		return nil
	}

	var grouped map[string][]Table
	if err := json.Unmarshal(data, &grouped); err != nil {
		return fmt.Errorf("decode floor plan: %w", err)
	}
	for k, v := range grouped {
		plan[k] = v
	}
	*f = plan
	return nil
}

// TableInput is the payload for creating or replacing a table.
type TableInput struct {
	Number   int    `json:"tableNumber"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Shape    string `json:"shape,omitempty"`
	Status   string `json:"status,omitempty"`
}

func (in TableInput) Validate() error {
	if in.Number <= 0 {
		return Errorf("table", ErrValidation, "table number must be positive")
	}
	if in.Capacity <= 0 {
		return Errorf("table", ErrValidation, "capacity must be positive")
	}
	if location.ByName(in.Location) == nil {
		return Errorf("table", ErrValidation, "unknown location %q", in.Location)
	}
	if in.Shape != "" && shape.ByName(in.Shape) == nil {
		return Errorf("table", ErrValidation, "unknown shape %q", in.Shape)
	}
	if in.Status != "" && tablestatus.ByName(in.Status) == nil {
		return Errorf("table", ErrValidation, "unknown status %q", in.Status)
	}
	return nil
}

type ReservationInput struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	ReservationDate Date   `json:"reservationDate"`
	ReservationTime string `json:"reservationTime"`
	Table           string `json:"table,omitempty"`
	Occasion        string `json:"occasion,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	Status          string `json:"status,omitempty"`
}

func (in ReservationInput) Validate() error {
	if err := validateCustomer("reservation", in.CustomerName, in.CustomerPhone, in.NumberOfGuests); err != nil {
		return err
	}
	if in.ReservationDate.IsZero() {
		return Errorf("reservation", ErrValidation, "reservation date is required")
	}
	if _, err := time.Parse("15:04", in.ReservationTime); err != nil {
		return Errorf("reservation", ErrValidation, "reservation time must be HH:MM")
	}
	if in.Table != "" {
		if err := ValidateID(in.Table); err != nil {
			return err
		}
	}
	if in.Occasion != "" && occasion.ByName(in.Occasion) == nil {
		return Errorf("reservation", ErrValidation, "unknown occasion %q", in.Occasion)
	}
	if in.Status != "" && reservationstatus.ByName(in.Status) == nil {
		return Errorf("reservation", ErrValidation, "unknown status %q", in.Status)
	}
	return nil
}

// WaitlistInput is the booking request. The service names the requested
// slot "date" and "time" on input.
type WaitlistInput struct {
	CustomerName   string `json:"customerName"`
	CustomerPhone  string `json:"customerPhone"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	Date           Date   `json:"date"`
	Time           string `json:"time"`
	NumberOfGuests int    `json:"numberOfGuests"`
	Notes          string `json:"notes,omitempty"`
}

func (in WaitlistInput) Validate() error {
	if err := validateCustomer("waitlist", in.CustomerName, in.CustomerPhone, in.NumberOfGuests); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return Errorf("waitlist", ErrValidation, "requested date is required")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return Errorf("waitlist", ErrValidation, "requested time must be HH:MM")
	}
	return nil
}

type OrderLineInput struct {
	MenuItem string `json:"menuItem"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type OrderInput struct {
	Table         string           `json:"table,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	CustomerPhone string           `json:"customerPhone,omitempty"`
	Items         []OrderLineInput `json:"items"`
}

func (in OrderInput) Validate() error {
	if in.Table != "" {
		if err := ValidateID(in.Table); err != nil {
			return err
		}
	}
	if len(in.Items) == 0 {
		return Errorf("order", ErrValidation, "an order needs at least one item")
	}
	return validateLines(in.Items)
}

func validateLines(lines []OrderLineInput) error {
	for i, line := range lines {
		if err := ValidateID(line.MenuItem); err != nil {
			return Errorf("order", ErrValidation, "item %d: invalid menu item id", i+1)
		}
		if line.Quantity < 1 {
			return Errorf("order", ErrValidation, "item %d: quantity must be at least 1", i+1)
		}
	}
	return nil
}

type MenuItemInput struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Available       *bool    `json:"available,omitempty"`
	PreparationTime int      `json:"preparationTime,omitempty"`
	Ingredients     []string `json:"ingredients,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	Calories        int      `json:"calories,omitempty"`
	SpicyLevel      int      `json:"spicyLevel"`
	IsSpecial       bool     `json:"isSpecial"`
}

func (in MenuItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Errorf("menu", ErrValidation, "name is required")
	}
	if in.Price < 0 {
		return Errorf("menu", ErrValidation, "price must not be negative")
	}
	if menucategory.ByName(in.Category) == nil {
		return Errorf("menu", ErrValidation, "unknown category %q", in.Category)
	}
	if in.SpicyLevel < 0 || in.SpicyLevel > 3 {
		return Errorf("menu", ErrValidation, "spicy level must be between 0 and 3")
	}
	return nil
}

func validateCustomer(op, name, phone string, guests int) error {
	if strings.TrimSpace(name) == "" {
		return Errorf(op, ErrValidation, "customer name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return Errorf(op, ErrValidation, "customer phone is required")
	}
	if guests <= 0 {
		return Errorf(op, ErrValidation, "number of guests must be positive")
	}
	return nil
}
