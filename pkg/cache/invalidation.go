package cache

// Action identifies a mutation the console can perform.
type Action string

const (
	TableCreate Action = "table.create"
	TableUpdate Action = "table.update"
	TableDelete Action = "table.delete"
	TableStatus Action = "table.status"

	ReservationCreate    Action = "reservation.create"
	ReservationUpdate    Action = "reservation.update"
	ReservationDelete    Action = "reservation.delete"
	ReservationConfirm   Action = "reservation.confirm"
	ReservationArrived   Action = "reservation.arrived"
	ReservationCompleted Action = "reservation.completed"
	ReservationCancel    Action = "reservation.cancel"
	ReservationNoShow    Action = "reservation.no_show"

	WaitlistCreate  Action = "waitlist.create"
	WaitlistConvert Action = "waitlist.convert"
	WaitlistCancel  Action = "waitlist.cancel"

	OrderCreate Action = "order.create"
	OrderStatus Action = "order.status"
	OrderItems  Action = "order.items"
	OrderCancel Action = "order.cancel"
	OrderDelete Action = "order.delete"

	MenuCreate       Action = "menu.create"
	MenuUpdate       Action = "menu.update"
	MenuDelete       Action = "menu.delete"
	MenuAvailability Action = "menu.availability"
)

// Rule lists the collections an action invalidates. WithTable applies
// only when the affected entity references a table.
type Rule struct {
	Always    []Collection
	WithTable []Collection
}

// Invalidations is the single source of truth for what must be refetched
// after each action succeeds.
var Invalidations = map[Action]Rule{
	TableCreate: {Always: []Collection{Tables}},
	TableUpdate: {Always: []Collection{Tables}},
	TableDelete: {Always: []Collection{Tables}},
	TableStatus: {Always: []Collection{Tables}},

	ReservationCreate:    {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationUpdate:    {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationDelete:    {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationConfirm:   {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationArrived:   {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationCompleted: {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationCancel:    {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},
	ReservationNoShow:    {Always: []Collection{Reservations}, WithTable: []Collection{Tables}},

	WaitlistCreate:  {Always: []Collection{Waitlist}},
	WaitlistConvert: {Always: []Collection{Waitlist, Reservations, Tables}},
	WaitlistCancel:  {Always: []Collection{Waitlist}},

	OrderCreate: {Always: []Collection{Orders}, WithTable: []Collection{Tables}},
	OrderStatus: {Always: []Collection{Orders}},
	OrderItems:  {Always: []Collection{Orders}},
	OrderCancel: {Always: []Collection{Orders}},
	OrderDelete: {Always: []Collection{Orders}},

	MenuCreate:       {Always: []Collection{Menu}},
	MenuUpdate:       {Always: []Collection{Menu}},
	MenuDelete:       {Always: []Collection{Menu}},
	MenuAvailability: {Always: []Collection{Menu}},
}

// Invalidates returns the collections to refetch after a successful a.
// Unknown actions invalidate nothing.
func (a Action) Invalidates(tableLinked bool) []Collection {
	rule, ok := Invalidations[a]
	if !ok {
		return nil
	}

	out := make([]Collection, 0, len(rule.Always)+len(rule.WithTable))
	out = append(out, rule.Always...)
	if tableLinked {
		for _, c := range rule.WithTable {
			if !contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func contains(cols []Collection, c Collection) bool {
	for _, x := range cols {
		if x == c {
			return true
		}
	}
	return false
}
