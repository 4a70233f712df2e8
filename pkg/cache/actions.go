package cache

import (
	"context"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

// Every action below checks what it can against the cached state, issues a
// single request, and only on success invalidates the collections its
// Action declares. A failed request leaves all caches untouched.

func (s *Store) table(op, id string) (api.Table, error) {
	if err := api.ValidateID(id); err != nil {
		return api.Table{}, err
	}
	t, ok := s.Tables.Get(id)
	if !ok {
		return api.Table{}, api.Errorf(op, api.ErrNotFound, "table is not in the current list; refresh and try again")
	}
	return t, nil
}

func (s *Store) reservation(op, id string) (api.Reservation, error) {
	if err := api.ValidateID(id); err != nil {
		return api.Reservation{}, err
	}
	r, ok := s.Reservations.Get(id)
	if !ok {
		return api.Reservation{}, api.Errorf(op, api.ErrNotFound, "reservation is not in the current list; refresh and try again")
	}
	return r, nil
}

func (s *Store) waitlistEntry(op, id string) (api.WaitlistEntry, error) {
	if err := api.ValidateID(id); err != nil {
		return api.WaitlistEntry{}, err
	}
	e, ok := s.Waitlist.Get(id)
	if !ok {
		return api.WaitlistEntry{}, api.Errorf(op, api.ErrNotFound, "waitlist entry is not in the current list; refresh and try again")
	}
	return e, nil
}

func (s *Store) order(op, id string) (api.Order, error) {
	if err := api.ValidateID(id); err != nil {
		return api.Order{}, err
	}
	o, ok := s.Orders.Get(id)
	if !ok {
		return api.Order{}, api.Errorf(op, api.ErrNotFound, "order is not in the current list; refresh and try again")
	}
	return o, nil
}

// assignable rejects tables that cannot take a new reservation or order.
func (s *Store) assignable(op, tableID string) error {
	t, err := s.table(op, tableID)
	if err != nil {
		return err
	}
	if t.State() != tablestatus.Statuses.Available {
		return api.Errorf(op, api.ErrConflict, "table %d is %s", t.Number, t.State().Label())
	}
	return nil
}

// Tables

func (s *Store) CreateTable(ctx context.Context, in api.TableInput) (*api.Table, error) {
	t, err := s.client.Tables().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, TableCreate, false, s.newEvent(TableCreate, t.ID, t.ID, t.Status))
	return t, nil
}

func (s *Store) UpdateTable(ctx context.Context, id string, in api.TableInput) (*api.Table, error) {
	current, err := s.table("update table", id)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && in.Status != current.Status {
		to := tablestatus.ByName(in.Status)
		if to == nil || !tablestatus.CanTransition(current.State(), *to) {
			return nil, api.Errorf("update table", api.ErrInvalidTransition, "table cannot go from %s to %s", current.State().Label(), in.Status)
		}
	}

	t, err := s.client.Tables().Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, TableUpdate, false, s.newEvent(TableUpdate, id, id, t.Status))
	return t, nil
}

func (s *Store) DeleteTable(ctx context.Context, id string) error {
	if _, err := s.table("delete table", id); err != nil {
		return err
	}
	if err := s.client.Tables().Delete(ctx, id); err != nil {
		return err
	}
	s.done(ctx, TableDelete, false, s.newEvent(TableDelete, id, id, ""))
	return nil
}

func (s *Store) SetTableStatus(ctx context.Context, id string, to tablestatus.Status) (*api.Table, error) {
	current, err := s.table("update table status", id)
	if err != nil {
		return nil, err
	}
	if !tablestatus.CanTransition(current.State(), to) {
		return nil, api.Errorf("update table status", api.ErrInvalidTransition, "table cannot go from %s to %s", current.State().Label(), to.Label())
	}

	t, err := s.client.Tables().UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	s.done(ctx, TableStatus, false, s.newEvent(TableStatus, id, id, to.Code()))
	return t, nil
}

// Reservations

func (s *Store) CreateReservation(ctx context.Context, in api.ReservationInput) (*api.Reservation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Table != "" {
		if err := s.assignable("create reservation", in.Table); err != nil {
			return nil, err
		}
	}

	res, err := s.client.Reservations().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, ReservationCreate, in.Table != "", s.newEvent(ReservationCreate, res.ID, in.Table, res.Status))
	return res, nil
}

func (s *Store) UpdateReservation(ctx context.Context, id string, in api.ReservationInput) (*api.Reservation, error) {
	current, err := s.reservation("update reservation", id)
	if err != nil {
		return nil, err
	}
	if reservationstatus.IsTerminal(current.State()) {
		return nil, api.Errorf("update reservation", api.ErrInvalidTransition, "a %s reservation can no longer be edited", current.State().Label())
	}
	if in.Status != "" {
		to := reservationstatus.ByName(in.Status)
		if to == nil {
			return nil, api.Errorf("update reservation", api.ErrValidation, "unknown status %q", in.Status)
		}
		if *to != current.State() {
			if err := s.checkReservationStep("update reservation", current, *to); err != nil {
				return nil, err
			}
		}
	}
	if in.Table != "" && in.Table != current.Table.ID {
		if err := s.assignable("update reservation", in.Table); err != nil {
			return nil, err
		}
	}

	res, err := s.client.Reservations().Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	linked := in.Table != "" || !current.Table.IsZero()
	s.done(ctx, ReservationUpdate, linked, s.newEvent(ReservationUpdate, id, in.Table, res.Status))
	return res, nil
}

func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	current, err := s.reservation("delete reservation", id)
	if err != nil {
		return err
	}
	if err := s.client.Reservations().Delete(ctx, id); err != nil {
		return err
	}
	s.done(ctx, ReservationDelete, !current.Table.IsZero(), s.newEvent(ReservationDelete, id, current.Table.ID, ""))
	return nil
}

// checkReservationStep applies the status machine and, for no-show, the
// scheduled time.
func (s *Store) checkReservationStep(op string, current api.Reservation, to reservationstatus.Status) error {
	if !reservationstatus.CanTransition(current.State(), to) {
		return api.Errorf(op, api.ErrInvalidTransition, "reservation cannot go from %s to %s", current.State().Label(), to.Label())
	}
	if to == reservationstatus.Statuses.NoShow {
		now := s.now()
		if now.Before(current.ScheduledAt(now.Location())) {
			return api.Errorf(op, api.ErrValidation, "no-show can only be recorded after the scheduled time")
		}
	}
	return nil
}

// advanceReservation guards a reservation status change and runs send.
func (s *Store) advanceReservation(ctx context.Context, action Action, id string, to reservationstatus.Status, send func(context.Context) (*api.Reservation, error)) (*api.Reservation, error) {
	op := string(action)
	current, err := s.reservation(op, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReservationStep(op, current, to); err != nil {
		return nil, err
	}

	res, err := send(ctx)
	if err != nil {
		return nil, err
	}
	s.done(ctx, action, !current.Table.IsZero(), s.newEvent(action, id, current.Table.ID, to.Code()))
	return res, nil
}

func (s *Store) ConfirmReservation(ctx context.Context, id string) (*api.Reservation, error) {
	return s.advanceReservation(ctx, ReservationConfirm, id, reservationstatus.Statuses.Confirmed, func(ctx context.Context) (*api.Reservation, error) {
		return s.client.Reservations().Confirm(ctx, id)
	})
}

func (s *Store) MarkArrived(ctx context.Context, id string) (*api.Reservation, error) {
	return s.advanceReservation(ctx, ReservationArrived, id, reservationstatus.Statuses.Arrived, func(ctx context.Context) (*api.Reservation, error) {
		return s.client.Reservations().MarkArrived(ctx, id)
	})
}

func (s *Store) MarkCompleted(ctx context.Context, id string) (*api.Reservation, error) {
	return s.advanceReservation(ctx, ReservationCompleted, id, reservationstatus.Statuses.Completed, func(ctx context.Context) (*api.Reservation, error) {
		return s.client.Reservations().MarkCompleted(ctx, id)
	})
}

func (s *Store) CancelReservation(ctx context.Context, id, reason string) (*api.Reservation, error) {
	return s.advanceReservation(ctx, ReservationCancel, id, reservationstatus.Statuses.Cancelled, func(ctx context.Context) (*api.Reservation, error) {
		return s.client.Reservations().Cancel(ctx, id, reason)
	})
}

func (s *Store) MarkNoShow(ctx context.Context, id string) (*api.Reservation, error) {
	return s.advanceReservation(ctx, ReservationNoShow, id, reservationstatus.Statuses.NoShow, func(ctx context.Context) (*api.Reservation, error) {
		return s.client.Reservations().MarkNoShow(ctx, id)
	})
}

// Waitlist

func (s *Store) CreateWaitlistEntry(ctx context.Context, in api.WaitlistInput) (*api.WaitlistEntry, error) {
	e, err := s.client.Waitlist().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, WaitlistCreate, false, s.newEvent(WaitlistCreate, e.ID, "", e.Status))
	return e, nil
}

// ConvertWaitlistEntry seats an entry at a table in one request. The table
// must be a capacity match for the party at the time of the call.
func (s *Store) ConvertWaitlistEntry(ctx context.Context, entryID, tableID string) (*api.Reservation, error) {
	const op = "convert waitlist entry"

	entry, err := s.waitlistEntry(op, entryID)
	if err != nil {
		return nil, err
	}
	if !waitliststatus.CanConvert(entry.State()) {
		return nil, api.Errorf(op, api.ErrInvalidTransition, "a %s entry cannot be converted", entry.State().Label())
	}
	table, err := s.table(op, tableID)
	if err != nil {
		return nil, err
	}
	if table.Capacity < entry.NumberOfGuests {
		return nil, api.Errorf(op, api.ErrValidation, "table %d seats %d, party is %d", table.Number, table.Capacity, entry.NumberOfGuests)
	}
	if !matching.IsCandidate(table, entry.NumberOfGuests) {
		return nil, api.Errorf(op, api.ErrConflict, "table %d is %s", table.Number, table.State().Label())
	}

	res, err := s.client.Waitlist().Convert(ctx, entryID, tableID)
	if err != nil {
		return nil, err
	}
	s.done(ctx, WaitlistConvert, true, s.newEvent(WaitlistConvert, entryID, tableID, waitliststatus.Statuses.Confirmed.Code()))
	return res, nil
}

func (s *Store) CancelWaitlistEntry(ctx context.Context, id string) (*api.WaitlistEntry, error) {
	const op = "cancel waitlist entry"

	entry, err := s.waitlistEntry(op, id)
	if err != nil {
		return nil, err
	}
	if !waitliststatus.CanTransition(entry.State(), waitliststatus.Statuses.Cancelled) {
		return nil, api.Errorf(op, api.ErrInvalidTransition, "a %s entry cannot be cancelled", entry.State().Label())
	}

	e, err := s.client.Waitlist().Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.done(ctx, WaitlistCancel, false, s.newEvent(WaitlistCancel, id, "", waitliststatus.Statuses.Cancelled.Code()))
	return e, nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, in api.OrderInput) (*api.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Table != "" {
		t, err := s.table("create order", in.Table)
		if err != nil {
			return nil, err
		}
		if t.State() == tablestatus.Statuses.OutOfService {
			return nil, api.Errorf("create order", api.ErrConflict, "table %d is out of service", t.Number)
		}
	}

	o, err := s.client.Orders().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, OrderCreate, in.Table != "", s.newEvent(OrderCreate, o.ID, in.Table, o.Status))
	return o, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, id string, to orderstatus.Status) (*api.Order, error) {
	const op = "update order status"

	current, err := s.order(op, id)
	if err != nil {
		return nil, err
	}
	if !orderstatus.CanTransition(current.State(), to) {
		return nil, api.Errorf(op, api.ErrInvalidTransition, "order cannot go from %s to %s", current.State().Label(), to.Label())
	}

	o, err := s.client.Orders().UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	s.done(ctx, OrderStatus, false, s.newEvent(OrderStatus, id, current.Table.ID, to.Code()))
	return o, nil
}

func (s *Store) AddOrderItems(ctx context.Context, id string, items []api.OrderLineInput) (*api.Order, error) {
	const op = "add order items"

	current, err := s.order(op, id)
	if err != nil {
		return nil, err
	}
	if !orderstatus.AcceptsItems(current.State()) {
		return nil, api.Errorf(op, api.ErrValidation, "items can only be added while the order is pending or preparing")
	}

	o, err := s.client.Orders().AddItems(ctx, id, items)
	if err != nil {
		return nil, err
	}
	s.done(ctx, OrderItems, false, s.newEvent(OrderItems, id, current.Table.ID, o.Status))
	return o, nil
}

func (s *Store) CancelOrder(ctx context.Context, id, reason string) (*api.Order, error) {
	const op = "cancel order"

	current, err := s.order(op, id)
	if err != nil {
		return nil, err
	}
	if !orderstatus.CanTransition(current.State(), orderstatus.Statuses.Cancelled) {
		return nil, api.Errorf(op, api.ErrInvalidTransition, "a %s order cannot be cancelled", current.State().Label())
	}

	o, err := s.client.Orders().Cancel(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.done(ctx, OrderCancel, false, s.newEvent(OrderCancel, id, current.Table.ID, orderstatus.Statuses.Cancelled.Code()))
	return o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	current, err := s.order("delete order", id)
	if err != nil {
		return err
	}
	if err := s.client.Orders().Delete(ctx, id); err != nil {
		return err
	}
	s.done(ctx, OrderDelete, false, s.newEvent(OrderDelete, id, current.Table.ID, ""))
	return nil
}

// Menu

func (s *Store) CreateMenuItem(ctx context.Context, in api.MenuItemInput) (*api.MenuItem, error) {
	m, err := s.client.Menu().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, MenuCreate, false, s.newEvent(MenuCreate, m.ID, "", ""))
	return m, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, in api.MenuItemInput) (*api.MenuItem, error) {
	m, err := s.client.Menu().Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.done(ctx, MenuUpdate, false, s.newEvent(MenuUpdate, id, "", ""))
	return m, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.client.Menu().Delete(ctx, id); err != nil {
		return err
	}
	s.done(ctx, MenuDelete, false, s.newEvent(MenuDelete, id, "", ""))
	return nil
}

func (s *Store) ToggleMenuAvailability(ctx context.Context, id string) (*api.MenuItem, error) {
	m, err := s.client.Menu().ToggleAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	s.done(ctx, MenuAvailability, false, s.newEvent(MenuAvailability, id, "", ""))
	return m, nil
}
