package api

import (
	"context"
	"fmt"
	"net/http"
)

// WaitlistDataAccess wraps the /waitlist endpoints.
type WaitlistDataAccess struct {
	client *Client
}

// Create files a booking request. It is the one public mutation: the
// booking page calls it without a credential.
func (da *WaitlistDataAccess) Create(ctx context.Context, in WaitlistInput) (*WaitlistEntry, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("waitlist client not configured")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var entry WaitlistEntry
	err := da.client.do(ctx, call{op: "create waitlist entry", method: http.MethodPost, path: "/waitlist", body: in}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (da *WaitlistDataAccess) List(ctx context.Context) ([]WaitlistEntry, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("waitlist client not configured")
	}

	var entries []WaitlistEntry
	err := da.client.do(ctx, call{op: "list waitlist", method: http.MethodGet, path: "/waitlist", protected: true}, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Convert turns an entry into a reservation on tableID in a single request.
// The service returns the created reservation.
func (da *WaitlistDataAccess) Convert(ctx context.Context, id, tableID string) (*Reservation, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("waitlist client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateID(tableID); err != nil {
		return nil, err
	}

	var res Reservation
	body := map[string]string{"tableId": tableID}
	err := da.client.do(ctx, call{op: "convert waitlist entry", method: http.MethodPost, path: "/waitlist/" + id + "/convert", body: body, protected: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (da *WaitlistDataAccess) Cancel(ctx context.Context, id string) (*WaitlistEntry, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("waitlist client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var entry WaitlistEntry
	err := da.client.do(ctx, call{op: "cancel waitlist entry", method: http.MethodPost, path: "/waitlist/" + id + "/cancel", protected: true}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
