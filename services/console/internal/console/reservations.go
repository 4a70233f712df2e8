package console

import (
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
)

// reservationSteps maps URL steps to the status each one reaches.
var reservationSteps = map[string]reservationstatus.Status{
	"confirm":   reservationstatus.Statuses.Confirmed,
	"arrived":   reservationstatus.Statuses.Arrived,
	"completed": reservationstatus.Statuses.Completed,
	"cancel":    reservationstatus.Statuses.Cancelled,
	"no-show":   reservationstatus.Statuses.NoShow,
}

func reservationStep(to reservationstatus.Status) string {
	for step, s := range reservationSteps {
		if s == to {
			return step
		}
	}
	return ""
}

func (h *Handler) Reservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Reservations")
	defer finish()
	h.renderView(w, r, "reservations", h.stateFromQuery(r))
}

func reservationInputFrom(r *http.Request) (api.ReservationInput, error) {
	in := api.ReservationInput{
		CustomerName:    strings.TrimSpace(r.FormValue("customer_name")),
		CustomerPhone:   strings.TrimSpace(r.FormValue("customer_phone")),
		CustomerEmail:   strings.TrimSpace(r.FormValue("customer_email")),
		NumberOfGuests:  atoi(r.FormValue("guests")),
		ReservationTime: strings.TrimSpace(r.FormValue("time")),
		Table:           strings.TrimSpace(r.FormValue("table")),
		Occasion:        strings.TrimSpace(r.FormValue("occasion")),
		SpecialRequests: strings.TrimSpace(r.FormValue("special_requests")),
	}

	if raw := strings.TrimSpace(r.FormValue("date")); raw != "" {
		d, err := api.ParseDate(raw)
		if err != nil {
			return in, api.Errorf("reservation", api.ErrValidation, "invalid date %q", raw)
		}
		in.ReservationDate = d
	}

	return in, in.Validate()
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateReservation")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "reservations", pageState{Error: "Could not read the submitted form."})
		return
	}

	in, err := reservationInputFrom(r)
	if err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	if _, err := storeFrom(r).CreateReservation(r.Context(), in); err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/reservations?done=reservation-created")
}

func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateReservation")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "reservations", pageState{Error: "Could not read the submitted form."})
		return
	}

	in, err := reservationInputFrom(r)
	if err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	if _, err := storeFrom(r).UpdateReservation(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/reservations?done=reservation-updated")
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteReservation")
	defer finish()

	if err := storeFrom(r).DeleteReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/reservations?done=reservation-deleted")
}

// AdvanceReservation applies one lifecycle step: confirm, arrived,
// completed, cancel or no-show.
func (h *Handler) AdvanceReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.AdvanceReservation")
	defer finish()

	step := chi.URLParam(r, "step")
	if _, ok := reservationSteps[step]; !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	store := storeFrom(r)
	id := chi.URLParam(r, "id")

	var err error
	switch step {
	case "confirm":
		_, err = store.ConfirmReservation(ctx, id)
	case "arrived":
		_, err = store.MarkArrived(ctx, id)
	case "completed":
		_, err = store.MarkCompleted(ctx, id)
	case "cancel":
		_, err = store.CancelReservation(ctx, id, strings.TrimSpace(r.FormValue("reason")))
	case "no-show":
		_, err = store.MarkNoShow(ctx, id)
	}
	if err != nil {
		h.fail(w, r, "reservations", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/reservations?done=reservation-status")
}
