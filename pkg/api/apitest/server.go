// Package apitest provides an in-memory restaurant service for tests.
package apitest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	Username = "admin"
	Password = "secret"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
}

type failure struct {
	status int
	times  int
}

// Server implements the service endpoints over in-memory collections.
// Responses are wrapped in a {"success", "data"} envelope unless Bare is set.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	bare     bool
	now      func() time.Time
	calls    []Call
	failures map[Call]*failure

	tables       []*api.Table
	reservations []*api.Reservation
	waitlist     []*api.WaitlistEntry
	orders       []*api.Order
	menu         []*api.MenuItem
}

func NewServer() *Server {
	s := &Server{
		now:      time.Now,
		failures: make(map[Call]*failure),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// URL of the API root, suitable for api.NewClient.
func (s *Server) APIURL() string {
	return s.Server.URL + "/api"
}

// SetBare switches between enveloped and bare response bodies.
func (s *Server) SetBare(bare bool) {
	s.mu.Lock()
	s.bare = bare
	s.mu.Unlock()
}

// FailNext makes the next n requests to method+path fail with status.
// Status 0 drops the connection without a response.
func (s *Server) FailNext(method, path string, status, n int) {
	s.mu.Lock()
	s.failures[Call{Method: method, Path: path}] = &failure{status: status, times: n}
	s.mu.Unlock()
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CountCalls counts received requests matching method and path.
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", s.listMenu)
		r.Get("/menu/categories", s.menuCategories)
		r.Get("/menu/popular", s.menuPopular)
		r.Get("/menu/specials", s.menuSpecials)
		r.Get("/menu/search", s.menuSearch)
		r.Get("/menu/statistics", s.menuStatistics)
		r.Get("/menu/{id}", s.getMenuItem)
		r.Post("/waitlist", s.createWaitlist)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/menu", s.createMenuItem)
			r.Put("/menu/{id}", s.updateMenuItem)
			r.Delete("/menu/{id}", s.deleteMenuItem)
			r.Patch("/menu/{id}/availability", s.toggleAvailability)

			r.Get("/tables", s.listTables)
			r.Get("/tables/available", s.availableTables)
			r.Get("/tables/floor-plan", s.floorPlan)
			r.Get("/tables/statistics", s.tableStatistics)
			r.Get("/tables/{id}", s.getTable)
			r.Post("/tables", s.createTable)
			r.Put("/tables/{id}", s.updateTable)
			r.Delete("/tables/{id}", s.deleteTable)
			r.Patch("/tables/{id}/status", s.updateTableStatus)

			r.Get("/reservations", s.listReservations)
			r.Get("/reservations/customer/{phone}", s.reservationsByCustomer)
			r.Get("/reservations/{id}", s.getReservation)
			r.Post("/reservations", s.createReservation)
			r.Put("/reservations/{id}", s.updateReservation)
			r.Delete("/reservations/{id}", s.deleteReservation)
			r.Post("/reservations/{id}/cancel", s.reservationStep(reservationstatus.Statuses.Cancelled))
			r.Post("/reservations/{id}/arrived", s.reservationStep(reservationstatus.Statuses.Arrived))
			r.Post("/reservations/{id}/completed", s.reservationStep(reservationstatus.Statuses.Completed))

			r.Get("/waitlist", s.listWaitlist)
			r.Post("/waitlist/{id}/convert", s.convertWaitlist)
			r.Post("/waitlist/{id}/cancel", s.cancelWaitlist)

			r.Get("/orders", s.listOrders)
			r.Get("/orders/statistics", s.orderStatistics)
			r.Get("/orders/table/{tableId}", s.ordersByTable)
			r.Get("/orders/customer/{phone}", s.ordersByCustomer)
			r.Get("/orders/{id}", s.getOrder)
			r.Post("/orders", s.createOrder)
			r.Patch("/orders/{id}/status", s.updateOrderStatus)
			r.Post("/orders/{id}/items", s.addOrderItems)
			r.Post("/orders/{id}/cancel", s.cancelOrder)
			r.Delete("/orders/{id}", s.deleteOrder)
		})
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := Call{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api")}

		s.mu.Lock()
		s.calls = append(s.calls, c)
		f := s.failures[c]
		var status int
		fail := f != nil && f.times > 0
		if fail {
			f.times--
			status = f.status
		}
		s.mu.Unlock()

		if fail {
			if status == 0 {
				if hj, ok := w.(http.Hijacker); ok {
					if conn, _, err := hj.Hijack(); err == nil {
						conn.Close()
						return
					}
				}
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, "injected failure")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(Username+":"+Password))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != want {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	s.mu.Lock()
	bare := s.bare
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if bare {
		_ = json.NewEncoder(w).Encode(data)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

func decode(r *http.Request, dest any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dest)
	return err == nil || errors.Is(err, io.EOF)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// Seed helpers insert fixtures directly and return a copy with its id.

func (s *Server) SeedTable(t api.Table) api.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = tablestatus.Statuses.Available.Code()
	}
	t.CreatedAt = s.now()
	s.tables = append(s.tables, &t)
	return t
}

func (s *Server) SeedReservation(res api.Reservation) api.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.ID == "" {
		res.ID = newID()
	}
	if res.Status == "" {
		res.Status = reservationstatus.Statuses.Pending.Code()
	}
	res.CreatedAt = s.now()
	s.reservations = append(s.reservations, &res)
	return res
}

func (s *Server) SeedWaitlist(e api.WaitlistEntry) api.WaitlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = waitliststatus.Statuses.Waiting.Code()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.waitlist = append(s.waitlist, &e)
	return e
}

func (s *Server) SeedOrder(o api.Order) api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = newID()
	}
	if o.Status == "" {
		o.Status = orderstatus.Statuses.Pending.Code()
	}
	o.CreatedAt = s.now()
	s.orders = append(s.orders, &o)
	return o
}

func (s *Server) SeedMenuItem(m api.MenuItem) api.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	m.CreatedAt = s.now()
	s.menu = append(s.menu, &m)
	return m
}

// Snapshot accessors return copies of the stored documents.

func (s *Server) Table(id string) (api.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findTable(id); t != nil {
		return *t, true
	}
	return api.Table{}, false
}

func (s *Server) WaitlistEntry(id string) (api.WaitlistEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.waitlist {
		if e.ID == id {
			return *e, true
		}
	}
	return api.WaitlistEntry{}, false
}

func (s *Server) Reservations() []api.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, *r)
	}
	return out
}

func (s *Server) findTable(id string) *api.Table {
	for _, t := range s.tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Server) findReservation(id string) *api.Reservation {
	for _, r := range s.reservations {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Server) findOrder(id string) *api.Order {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Server) findMenuItem(id string) *api.MenuItem {
	for _, m := range s.menu {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Server) setTableStatus(ref api.TableRef, status tablestatus.Status) {
	if ref.IsZero() {
		return
	}
	if t := s.findTable(ref.ID); t != nil {
		t.Status = status.Code()
		t.UpdatedAt = s.now()
	}
}

func countBy[T any](items []*T, key func(*T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[key(it)]++
	}
	return counts
}

func is(code string, status interface{ Code() string }) bool {
	return enums.Equal(code, status.Code())
}
