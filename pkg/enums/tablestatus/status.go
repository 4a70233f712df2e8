package tablestatus

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
	Available    Status
	Occupied     Status
	Reserved     Status
	OutOfService Status
}

var Statuses = Enum{
	Available:    Status{Name: "disponible", Title: "Available"},
	Occupied:     Status{Name: "occupée", Title: "Occupied"},
	Reserved:     Status{Name: "réservée", Title: "Reserved"},
	OutOfService: Status{Name: "hors-service", Title: "Out of service"},
}

var All = []Status{
	Statuses.Available,
	Statuses.Occupied,
	Statuses.Reserved,
	Statuses.OutOfService,
}

// transitions is the adjacency table. Tables have no terminal state.
var transitions = map[Status][]Status{
	Statuses.Available:    {Statuses.Reserved, Statuses.Occupied, Statuses.OutOfService},
	Statuses.Reserved:     {Statuses.Available, Statuses.Occupied, Statuses.OutOfService},
	Statuses.Occupied:     {Statuses.Available, Statuses.Reserved, Statuses.OutOfService},
	Statuses.OutOfService: {Statuses.Available},
}

// ByName returns the status for a given wire code, or nil if not found.
// Matching ignores case, surrounding space and accents.
func ByName(name string) *Status {
	key := enums.Fold(name)
	for _, s := range All {
		if enums.Fold(s.Name) == key {
			return &s
		}
	}
	return nil
}

// CanTransition reports whether from -> to is present in the adjacency table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next lists the states reachable from s in one step.
func Next(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func IsTerminal(s Status) bool {
	return false
}

// Engaged reports whether a table in status s is held by a reservation or an order.
func Engaged(s Status) bool {
	return s == Statuses.Occupied || s == Statuses.Reserved
}
