package reservationstatus

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
	Pending   Status
	Confirmed Status
	Arrived   Status
	Completed Status
	Cancelled Status
	NoShow    Status
}

var Statuses = Enum{
	Pending:   Status{Name: "en attente", Title: "Pending"},
	Confirmed: Status{Name: "confirmée", Title: "Confirmed"},
	Arrived:   Status{Name: "arrivée", Title: "Arrived"},
	Completed: Status{Name: "terminée", Title: "Completed"},
	Cancelled: Status{Name: "annulée", Title: "Cancelled"},
	NoShow:    Status{Name: "no-show", Title: "No-show"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Confirmed,
	Statuses.Arrived,
	Statuses.Completed,
	Statuses.Cancelled,
	Statuses.NoShow,
}

var transitions = map[Status][]Status{
	Statuses.Pending:   {Statuses.Confirmed, Statuses.Cancelled, Statuses.NoShow},
	Statuses.Confirmed: {Statuses.Arrived, Statuses.Cancelled, Statuses.NoShow},
	Statuses.Arrived:   {Statuses.Completed, Statuses.Cancelled},
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

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// HoldsTable reports whether a reservation in status s keeps its table engaged.
func HoldsTable(s Status) bool {
	return s == Statuses.Confirmed || s == Statuses.Arrived
}
