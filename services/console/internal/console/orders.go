package console

import (
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
)

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Orders")
	defer finish()
	h.renderView(w, r, "orders", h.stateFromQuery(r))
}

// orderLinesFrom reads parallel menu_item/quantity/notes fields; rows
// without a menu item or with a zero quantity are skipped.
func orderLinesFrom(r *http.Request) []api.OrderLineInput {
	items := r.Form["menu_item"]
	quantities := r.Form["quantity"]
	notes := r.Form["notes"]

	var lines []api.OrderLineInput
	for i, id := range items {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		qty := 1
		if i < len(quantities) {
			qty = atoi(quantities[i])
		}
		if qty <= 0 {
			continue
		}
		line := api.OrderLineInput{MenuItem: id, Quantity: qty}
		if i < len(notes) {
			line.Notes = strings.TrimSpace(notes[i])
		}
		lines = append(lines, line)
	}
	return lines
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateOrder")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "orders", pageState{Error: "Could not read the submitted form."})
		return
	}

	in := api.OrderInput{
		Table:         strings.TrimSpace(r.FormValue("table")),
		CustomerName:  strings.TrimSpace(r.FormValue("customer_name")),
		CustomerPhone: strings.TrimSpace(r.FormValue("customer_phone")),
		Items:         orderLinesFrom(r),
	}

	if _, err := storeFrom(r).CreateOrder(r.Context(), in); err != nil {
		h.fail(w, r, "orders", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?done=order-created")
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.SetOrderStatus")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "orders", pageState{Error: "Could not read the submitted form."})
		return
	}

	to := orderstatus.ByName(r.FormValue("status"))
	if to == nil {
		h.renderView(w, r, "orders", pageState{Error: "Unknown order status."})
		return
	}

	if _, err := storeFrom(r).SetOrderStatus(r.Context(), chi.URLParam(r, "id"), *to); err != nil {
		h.fail(w, r, "orders", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?done=order-status")
}

func (h *Handler) AddOrderItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.AddOrderItems")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "orders", pageState{Error: "Could not read the submitted form."})
		return
	}

	lines := orderLinesFrom(r)
	if len(lines) == 0 {
		h.renderView(w, r, "orders", pageState{Error: "Choose at least one item to add."})
		return
	}

	if _, err := storeFrom(r).AddOrderItems(r.Context(), chi.URLParam(r, "id"), lines); err != nil {
		h.fail(w, r, "orders", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?done=order-items")
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CancelOrder")
	defer finish()

	if _, err := storeFrom(r).CancelOrder(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(r.FormValue("reason"))); err != nil {
		h.fail(w, r, "orders", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?done=order-cancelled")
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteOrder")
	defer finish()

	if err := storeFrom(r).DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "orders", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?done=order-deleted")
}
