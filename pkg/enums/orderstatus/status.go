package orderstatus

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
	Preparing Status
	Ready     Status
	Served    Status
	Paid      Status
	Cancelled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "en attente", Title: "Pending"},
	Preparing: Status{Name: "en préparation", Title: "Preparing"},
	Ready:     Status{Name: "prête", Title: "Ready"},
	Served:    Status{Name: "servie", Title: "Served"},
	Paid:      Status{Name: "payée", Title: "Paid"},
	Cancelled: Status{Name: "annulée", Title: "Cancelled"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
	Statuses.Paid,
	Statuses.Cancelled,
}

// flow is the forward path. Any later step is reachable from an earlier one.
var flow = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
	Statuses.Paid,
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

func rank(s Status) int {
	for i, f := range flow {
		if f == s {
			return i
		}
	}
	return -1
}

func CanTransition(from, to Status) bool {
	if IsTerminal(from) || from == to {
		return false
	}
	if rank(from) < 0 {
		return false
	}
	if to == Statuses.Cancelled {
		return true
	}
	r := rank(to)
	return r > rank(from)
}

func Next(s Status) []Status {
	var out []Status
	for _, candidate := range All {
		if CanTransition(s, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func IsTerminal(s Status) bool {
	return s == Statuses.Paid || s == Statuses.Cancelled
}

// IsActive reports whether an order in status s still needs attention.
func IsActive(s Status) bool {
	return !IsTerminal(s)
}

// AcceptsItems reports whether lines may still be added or changed.
func AcceptsItems(s Status) bool {
	return s == Statuses.Pending || s == Statuses.Preparing
}
