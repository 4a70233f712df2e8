package waitliststatus

import "github.com/appetiteclub/frontdesk/pkg/enums"

type Status struct {
	Name  string
	Title string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	return s.Title
}

type Enum struct {
	Waiting   Status
	Notified  Status
	Confirmed Status
	Expired   Status
	Cancelled Status
}

var Statuses = Enum{
	Waiting:   Status{Name: "en attente", Title: "Waiting"},
	Notified:  Status{Name: "notifie", Title: "Notified"},
	Confirmed: Status{Name: "confirme", Title: "Confirmed"},
	Expired:   Status{Name: "expire", Title: "Expired"},
	Cancelled: Status{Name: "annule", Title: "Cancelled"},
}

var All = []Status{
	Statuses.Waiting,
	Statuses.Notified,
	Statuses.Confirmed,
	Statuses.Expired,
	Statuses.Cancelled,
}

// Confirmed is reached only through conversion, which the service
// accepts from waiting as well as notified.
var transitions = map[Status][]Status{
	Statuses.Waiting:  {Statuses.Notified, Statuses.Confirmed, Statuses.Expired, Statuses.Cancelled},
	Statuses.Notified: {Statuses.Confirmed, Statuses.Expired, Statuses.Cancelled},
}

// ByName returns the status for a given wire code, or nil if not found.
func ByName(name string) *Status {
	key := enums.Fold(name)
	for _, s := range All {
		if enums.Fold(s.Name) == key {
			return &s
		}
	}
	return nil
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Next(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// CanConvert reports whether an entry in status s may be turned into a reservation.
func CanConvert(s Status) bool {
	return CanTransition(s, Statuses.Confirmed)
}
