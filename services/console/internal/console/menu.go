package console

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums"
)

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Menu")
	defer finish()
	h.renderView(w, r, "menu", h.stateFromQuery(r))
}

// filterMenu keeps items whose name or description contains q, ignoring
// case and accents.
func filterMenu(items []api.MenuItem, q string) []api.MenuItem {
	needle := enums.Fold(q)
	var out []api.MenuItem
	for _, m := range items {
		if strings.Contains(enums.Fold(m.Name), needle) || strings.Contains(enums.Fold(m.Description), needle) {
			out = append(out, m)
		}
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func menuInputFrom(r *http.Request) (api.MenuItemInput, error) {
	price, err := parseMoney(r.FormValue("price"))
	if err != nil {
		return api.MenuItemInput{}, api.Errorf("menu", api.ErrValidation, "%v", err)
	}

	available := r.FormValue("available") != ""
	in := api.MenuItemInput{
		Name:            strings.TrimSpace(r.FormValue("name")),
		Description:     strings.TrimSpace(r.FormValue("description")),
		Price:           price,
		Category:        strings.TrimSpace(r.FormValue("category")),
		Available:       &available,
		PreparationTime: atoi(r.FormValue("preparation_time")),
		Ingredients:     splitList(r.FormValue("ingredients")),
		Allergens:       splitList(r.FormValue("allergens")),
		Calories:        atoi(r.FormValue("calories")),
		SpicyLevel:      atoi(r.FormValue("spicy_level")),
	}
	in.IsSpecial, _ = strconv.ParseBool(r.FormValue("special"))

	return in, in.Validate()
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateMenuItem")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "menu", pageState{Error: "Could not read the submitted form."})
		return
	}

	in, err := menuInputFrom(r)
	if err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	if _, err := storeFrom(r).CreateMenuItem(r.Context(), in); err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?done=menu-created")
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "menu", pageState{Error: "Could not read the submitted form."})
		return
	}

	in, err := menuInputFrom(r)
	if err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	if _, err := storeFrom(r).UpdateMenuItem(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?done=menu-updated")
}

func (h *Handler) ToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ToggleMenuItem")
	defer finish()

	if _, err := storeFrom(r).ToggleMenuAvailability(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?done=menu-availability")
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	if err := storeFrom(r).DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "menu", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?done=menu-deleted")
}
