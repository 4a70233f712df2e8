package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
)

// ReservationDataAccess wraps the /reservations endpoints.
type ReservationDataAccess struct {
	client *Client
}

func (da *ReservationDataAccess) List(ctx context.Context) ([]Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}

	var reservations []Reservation
	err := da.client.do(ctx, call{op: "list reservations", method: http.MethodGet, path: "/reservations", protected: true}, &reservations)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (da *ReservationDataAccess) Get(ctx context.Context, id string) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var res Reservation
	err := da.client.do(ctx, call{op: "get reservation", method: http.MethodGet, path: "/reservations/" + id, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ByCustomer returns the reservation history of a phone number.
func (da *ReservationDataAccess) ByCustomer(ctx context.Context, phone string) ([]Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if phone == "" {
		return nil, Errorf("reservations by customer", ErrValidation, "missing phone")
	}

	var reservations []Reservation
	cl := call{op: "reservations by customer", method: http.MethodGet, path: "/reservations/customer/" + url.PathEscape(phone), protected: true}
	if err := da.client.do(ctx, cl, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (da *ReservationDataAccess) Create(ctx context.Context, in ReservationInput) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var res Reservation
	err := da.client.do(ctx, call{op: "create reservation", method: http.MethodPost, path: "/reservations", body: in, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (da *ReservationDataAccess) Update(ctx context.Context, id string, in ReservationInput) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var res Reservation
	err := da.client.do(ctx, call{op: "update reservation", method: http.MethodPut, path: "/reservations/" + id, body: in, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (da *ReservationDataAccess) Delete(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("reservation client not configured")
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	return da.client.do(ctx, call{op: "delete reservation", method: http.MethodDelete, path: "/reservations/" + id, protected: true}, nil)
}

func (da *ReservationDataAccess) Cancel(ctx context.Context, id, reason string) (*Reservation, error) {
	body := map[string]string{"cancelReason": reason}
	return da.action(ctx, "cancel reservation", id, "/cancel", body)
}

func (da *ReservationDataAccess) MarkArrived(ctx context.Context, id string) (*Reservation, error) {
	return da.action(ctx, "mark reservation arrived", id, "/arrived", nil)
}

func (da *ReservationDataAccess) MarkCompleted(ctx context.Context, id string) (*Reservation, error) {
	return da.action(ctx, "mark reservation completed", id, "/completed", nil)
}

// Confirm and MarkNoShow have no dedicated endpoint; they replace the status
// through PUT /reservations/:id.
func (da *ReservationDataAccess) Confirm(ctx context.Context, id string) (*Reservation, error) {
	return da.setStatus(ctx, "confirm reservation", id, reservationstatus.Statuses.Confirmed)
}

func (da *ReservationDataAccess) MarkNoShow(ctx context.Context, id string) (*Reservation, error) {
	return da.setStatus(ctx, "mark reservation no-show", id, reservationstatus.Statuses.NoShow)
}

func (da *ReservationDataAccess) setStatus(ctx context.Context, op, id string, status reservationstatus.Status) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var res Reservation
	body := map[string]string{"status": status.Code()}
	err := da.client.do(ctx, call{op: op, method: http.MethodPut, path: "/reservations/" + id, body: body, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (da *ReservationDataAccess) action(ctx context.Context, op, id, suffix string, body any) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("reservation client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var res Reservation
	err := da.client.do(ctx, call{op: op, method: http.MethodPost, path: "/reservations/" + id + suffix, body: body, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
