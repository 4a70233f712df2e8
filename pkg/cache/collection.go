package cache

import "time"

// Collection names one cached server collection.
type Collection string

const (
	Tables       Collection = "tables"
	Reservations Collection = "reservations"
	Waitlist     Collection = "waitlist"
	Orders       Collection = "orders"
	Menu         Collection = "menu"
)

var Collections = []Collection{Tables, Reservations, Waitlist, Orders, Menu}

// DefaultPoll is the refresh cadence of each collection. Zero means the
// collection is only fetched on demand.
var DefaultPoll = map[Collection]time.Duration{
	Tables:       10 * time.Second,
	Waitlist:     10 * time.Second,
	Orders:       15 * time.Second,
	Reservations: 30 * time.Second,
	Menu:         0,
}

func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
