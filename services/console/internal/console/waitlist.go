package console

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

func (h *Handler) Waitlist(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Waitlist")
	defer finish()
	h.renderView(w, r, "waitlist", h.stateFromQuery(r))
}

// WaitlistCandidates renders the tables that can seat an entry's party.
func (h *Handler) WaitlistCandidates(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaitlistCandidates")
	defer finish()

	store := storeFrom(r)
	id := chi.URLParam(r, "id")

	if err := store.RefreshIfOlder(r.Context(), h.freshness(cache.Tables), cache.Tables, cache.Waitlist); err != nil {
		h.log(r).Debug("candidate refresh failed, using cached tables", "error", err)
	}

	entry, ok := store.Waitlist.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := map[string]interface{}{
		"Entry":      newWaitlistView(entry, store.Now()),
		"Candidates": tableViews(matching.Candidates(store.Tables.Items(), entry.NumberOfGuests)),
	}
	h.renderTemplate(w, r, "waitlist.html", "candidates_fragment", data)
}

// ConvertWaitlistEntry seats the entry at the chosen table.
func (h *Handler) ConvertWaitlistEntry(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ConvertWaitlistEntry")
	defer finish()

	if err := r.ParseForm(); err != nil {
		h.renderView(w, r, "waitlist", pageState{Error: "Could not read the submitted form."})
		return
	}

	if _, err := storeFrom(r).ConvertWaitlistEntry(r.Context(), chi.URLParam(r, "id"), r.FormValue("table")); err != nil {
		h.fail(w, r, "waitlist", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/waitlist?done=waitlist-converted")
}

func (h *Handler) CancelWaitlistEntry(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CancelWaitlistEntry")
	defer finish()

	if _, err := storeFrom(r).CancelWaitlistEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "waitlist", err)
		return
	}

	aqm.RedirectOrHeader(w, r, "/waitlist?done=waitlist-cancelled")
}
