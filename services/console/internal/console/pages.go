package console

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/enums/location"
	"github.com/appetiteclub/frontdesk/pkg/enums/menucategory"
	"github.com/appetiteclub/frontdesk/pkg/enums/occasion"
	"github.com/appetiteclub/frontdesk/pkg/enums/shape"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

type pageState struct {
	Error   string
	Success string
}

// view describes one console page: the collections it shows and how to
// turn the cached state into template data.
type view struct {
	page     string
	title    string
	fragment string
	uses     []cache.Collection
	build    func(h *Handler, store *cache.Store, r *http.Request) map[string]interface{}
}

var views = map[string]view{
	"dashboard": {
		page:     "dashboard.html",
		title:    "Tableau de bord",
		fragment: "dashboard_fragment",
		uses:     []cache.Collection{cache.Tables, cache.Reservations, cache.Waitlist, cache.Orders},
		build:    (*Handler).dashboardData,
	},
	"tables": {
		page:     "tables.html",
		title:    "Tables",
		fragment: "tables_fragment",
		uses:     []cache.Collection{cache.Tables},
		build:    (*Handler).tablesData,
	},
	"reservations": {
		page:     "reservations.html",
		title:    "Réservations",
		fragment: "reservations_fragment",
		uses:     []cache.Collection{cache.Reservations, cache.Tables},
		build:    (*Handler).reservationsData,
	},
	"waitlist": {
		page:     "waitlist.html",
		title:    "Liste d'attente",
		fragment: "waitlist_fragment",
		uses:     []cache.Collection{cache.Waitlist, cache.Tables},
		build:    (*Handler).waitlistData,
	},
	"orders": {
		page:     "orders.html",
		title:    "Commandes",
		fragment: "orders_fragment",
		uses:     []cache.Collection{cache.Orders, cache.Tables, cache.Menu},
		build:    (*Handler).ordersData,
	},
	"menu": {
		page:     "menu.html",
		title:    "Carte",
		fragment: "menu_fragment",
		uses:     []cache.Collection{cache.Menu},
		build:    (*Handler).menuData,
	},
}

// doneMessages are the flashes shown after a redirect with ?done=<key>.
var doneMessages = map[string]string{
	"table-created":       "Table created.",
	"table-updated":       "Table updated.",
	"table-deleted":       "Table deleted.",
	"table-status":        "Table status updated.",
	"reservation-created": "Reservation created.",
	"reservation-updated": "Reservation updated.",
	"reservation-deleted": "Reservation deleted.",
	"reservation-status":  "Reservation status updated.",
	"waitlist-converted":  "Guest seated: reservation created.",
	"waitlist-cancelled":  "Waitlist entry cancelled.",
	"order-created":       "Order created.",
	"order-status":        "Order status updated.",
	"order-items":         "Items added to the order.",
	"order-cancelled":     "Order cancelled.",
	"order-deleted":       "Order deleted.",
	"menu-created":        "Menu item created.",
	"menu-updated":        "Menu item updated.",
	"menu-deleted":        "Menu item deleted.",
	"menu-availability":   "Availability updated.",
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Dashboard")
	defer finish()
	h.renderView(w, r, "dashboard", h.stateFromQuery(r))
}

func (h *Handler) stateFromQuery(r *http.Request) pageState {
	return pageState{Success: doneMessages[r.URL.Query().Get("done")]}
}

// renderView refreshes what the page shows when it is older than its poll
// interval and renders the full page. Load failures keep the last good data.
func (h *Handler) renderView(w http.ResponseWriter, r *http.Request, key string, state pageState) {
	v, ok := views[key]
	store := storeFrom(r)
	if !ok || store == nil {
		http.NotFound(w, r)
		return
	}

	data, err := h.viewData(v, store, r)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.endSession(w, r)
			aqm.RedirectOrHeader(w, r, "/signin?expired=1")
			return
		}
		data["LoadError"] = api.UserMessage(err)
	}

	data["Title"] = v.title
	data["Template"] = key
	data["User"] = h.userFrom(r)
	data["Error"] = state.Error
	data["Success"] = state.Success

	h.renderTemplate(w, r, v.page, "base.html", data)
}

func (h *Handler) viewData(v view, store *cache.Store, r *http.Request) (map[string]interface{}, error) {
	var errs []error
	for _, c := range v.uses {
		errs = append(errs, store.RefreshIfOlder(r.Context(), h.freshness(c), c))
	}
	data := v.build(h, store, r)
	return data, errors.Join(errs...)
}

// Fragment re-renders the live part of a page for HTMX polling.
func (h *Handler) Fragment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Fragment")
	defer finish()

	key := chi.URLParam(r, "collection")
	v, ok := views[key]
	store := storeFrom(r)
	if !ok || store == nil {
		http.NotFound(w, r)
		return
	}

	data, err := h.viewData(v, store, r)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.endSession(w, r)
			aqm.RedirectOrHeader(w, r, "/signin?expired=1")
			return
		}
		data["LoadError"] = api.UserMessage(err)
	}

	h.renderTemplate(w, r, v.page, v.fragment, data)
}

func (h *Handler) poll(c cache.Collection) int {
	return h.settings.PollSeconds(c)
}

func refreshing(store *cache.Store, cols ...cache.Collection) bool {
	for _, c := range cols {
		if store.IsRefreshing(c) {
			return true
		}
	}
	return false
}

func (h *Handler) dashboardData(store *cache.Store, r *http.Request) map[string]interface{} {
	now := store.Now()
	tables := store.Tables.Items()
	reservations := store.Reservations.Items()
	waitlist := store.Waitlist.Items()
	orders := store.Orders.Items()

	return map[string]interface{}{
		"Summary":      matching.Summarize(tables, reservations, waitlist, orders, now),
		"Today":        reservationViews(matching.Today(reservations, now), tables, now),
		"Waiting":      waitlistViews(matching.ActiveWaitlist(waitlist), now),
		"ActiveOrders": orderViews(matching.ActiveOrders(orders), tables),
		"Poll":         h.poll(cache.Tables),
		"Refreshing":   refreshing(store, cache.Tables, cache.Reservations, cache.Waitlist, cache.Orders),
	}
}

func (h *Handler) tablesData(store *cache.Store, r *http.Request) map[string]interface{} {
	tables := store.Tables.Items()
	return map[string]interface{}{
		"Tables":     tableViews(tables),
		"Counts":     matching.TableCounts(tables),
		"Statuses":   statusOptions(tablestatus.All),
		"Locations":  statusOptions(location.All),
		"Shapes":     statusOptions(shape.All),
		"Poll":       h.poll(cache.Tables),
		"Refreshing": store.IsRefreshing(cache.Tables),
	}
}

func (h *Handler) reservationsData(store *cache.Store, r *http.Request) map[string]interface{} {
	now := store.Now()
	reservations := store.Reservations.Items()
	tables := store.Tables.Items()

	shown := reservations
	if r.URL.Query().Get("day") != "all" {
		shown = matching.Today(reservations, now)
	}

	return map[string]interface{}{
		"Reservations": reservationViews(shown, tables, now),
		"AllDays":      r.URL.Query().Get("day") == "all",
		"Counts":       matching.ReservationCounts(reservations),
		"Tables":       tableViews(matching.AvailableTables(tables)),
		"Occasions":    statusOptions(occasion.All),
		"Poll":         h.poll(cache.Reservations),
		"Refreshing":   store.IsRefreshing(cache.Reservations),
	}
}

func (h *Handler) waitlistData(store *cache.Store, r *http.Request) map[string]interface{} {
	now := store.Now()
	entries := store.Waitlist.Items()

	shown := entries
	if r.URL.Query().Get("status") != "all" {
		shown = matching.ActiveWaitlist(entries)
	}

	return map[string]interface{}{
		"Entries":    waitlistViews(shown, now),
		"All":        r.URL.Query().Get("status") == "all",
		"Counts":     matching.WaitlistCounts(entries),
		"Poll":       h.poll(cache.Waitlist),
		"Refreshing": store.IsRefreshing(cache.Waitlist),
	}
}

func (h *Handler) ordersData(store *cache.Store, r *http.Request) map[string]interface{} {
	orders := store.Orders.Items()
	tables := store.Tables.Items()

	shown := orders
	if r.URL.Query().Get("status") != "all" {
		shown = matching.ActiveOrders(orders)
	}

	var seatable []tableView
	for _, t := range tables {
		if t.State() != tablestatus.Statuses.OutOfService {
			seatable = append(seatable, newTableView(t))
		}
	}

	return map[string]interface{}{
		"Orders":     orderViews(shown, tables),
		"All":        r.URL.Query().Get("status") == "all",
		"Counts":     matching.OrderCounts(orders),
		"Tables":     seatable,
		"Menu":       menuSections(store.Menu.Items(), true),
		"Poll":       h.poll(cache.Orders),
		"Refreshing": store.IsRefreshing(cache.Orders),
	}
}

func (h *Handler) menuData(store *cache.Store, r *http.Request) map[string]interface{} {
	items := store.Menu.Items()
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items = filterMenu(items, q)
	}
	return map[string]interface{}{
		"Sections":   menuSections(items, false),
		"Query":      r.URL.Query().Get("q"),
		"Categories": statusOptions(menucategory.All),
		"Poll":       h.poll(cache.Menu),
		"Refreshing": store.IsRefreshing(cache.Menu),
	}
}
