package console

import (
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/cache"
)

type stateResponse struct {
	Collection   string      `json:"collection"`
	Items        interface{} `json:"items"`
	Count        int         `json:"count"`
	IsRefreshing bool        `json:"isRefreshing"`
	Stale        bool        `json:"stale"`
	FetchedAt    *time.Time  `json:"fetchedAt,omitempty"`
	Error        string      `json:"error,omitempty"`
}

func newStateResponse[T any](c cache.Collection, snap cache.Snapshot[T]) stateResponse {
	resp := stateResponse{
		Collection:   string(c),
		Items:        snap.Items,
		Count:        len(snap.Items),
		IsRefreshing: snap.Refreshing,
		Stale:        snap.Stale,
	}
	if !snap.FetchedAt.IsZero() {
		at := snap.FetchedAt
		resp.FetchedAt = &at
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

// State exposes a cached collection as JSON, refreshing it first when it is
// older than its poll interval.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.State")
	defer finish()

	c, ok := cache.ParseCollection(chi.URLParam(r, "collection"))
	if !ok {
		aqm.RespondError(w, http.StatusNotFound, "Unknown collection")
		return
	}

	store := storeFrom(r)
	if err := store.RefreshIfOlder(r.Context(), h.freshness(c), c); err != nil {
		h.log(r).Debug("state refresh failed, serving cached items", "collection", c, "error", err)
	}

	var resp stateResponse
	switch c {
	case cache.Tables:
		resp = newStateResponse(c, store.Tables.Snapshot())
	case cache.Reservations:
		resp = newStateResponse(c, store.Reservations.Snapshot())
	case cache.Waitlist:
		resp = newStateResponse(c, store.Waitlist.Snapshot())
	case cache.Orders:
		resp = newStateResponse(c, store.Orders.Snapshot())
	case cache.Menu:
		resp = newStateResponse(c, store.Menu.Snapshot())
	}

	aqm.Respond(w, http.StatusOK, resp, nil)
}
