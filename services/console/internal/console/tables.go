package console

import (
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
)

// Tables renders the floor with every table and its next statuses.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Tables")
	defer finish()
	h.renderView(w, r, "tables", h.stateFromQuery(r))
}

func tableInputFrom(r *http.Request) api.TableInput {
	return api.TableInput{
		Number:   atoi(r.FormValue("number")),
		Capacity: atoi(r.FormValue("capacity")),
		Location: strings.TrimSpace(r.FormValue("location")),
		Shape:    strings.TrimSpace(r.FormValue("shape")),
		Status:   strings.TrimSpace(r.FormValue("status")),
	}
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateTable")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "tables", pageState{Error: "Could not read the submitted form."})
		return
	}

	in := tableInputFrom(r)
	if err := in.Validate(); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	if _, err := storeFrom(r).CreateTable(r.Context(), in); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/tables?done=table-created")
}

func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateTable")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "tables", pageState{Error: "Could not read the submitted form."})
		return
	}

	in := tableInputFrom(r)
	if err := in.Validate(); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	if _, err := storeFrom(r).UpdateTable(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/tables?done=table-updated")
}

func (h *Handler) SetTableStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.SetTableStatus")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "tables", pageState{Error: "Could not read the submitted form."})
		return
	}

	to := tablestatus.ByName(r.FormValue("status"))
	if to == nil {
		h.renderView(w, r, "tables", pageState{Error: "Unknown table status."})
		return
	}

	if _, err := storeFrom(r).SetTableStatus(r.Context(), chi.URLParam(r, "id"), *to); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/tables?done=table-status")
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteTable")
	defer finish()

	if err := storeFrom(r).DeleteTable(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "tables", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/tables?done=table-deleted")
}
