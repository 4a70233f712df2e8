package console

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/api/apitest"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
	"github.com/appetiteclub/frontdesk/pkg/matching"
)

type renderCall struct {
	page   string
	layout string
	data   map[string]interface{}
}

type stubRenderer struct {
	mu    sync.Mutex
	calls []renderCall
}

func (s *stubRenderer) Render(w io.Writer, page, layout string, data map[string]interface{}) error {
	s.mu.Lock()
	s.calls = append(s.calls, renderCall{page: page, layout: layout, data: data})
	s.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s/%s", page, layout)
	return err
}

func (s *stubRenderer) last(t *testing.T) renderCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		t.Fatal("nothing was rendered")
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubRenderer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type testConsole struct {
	handler  *Handler
	router   http.Handler
	srv      *apitest.Server
	render   *stubRenderer
	sessions *MemorySessionRepo
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	poll := make(map[cache.Collection]time.Duration, len(cache.DefaultPoll))
	for c, d := range cache.DefaultPoll {
		poll[c] = d
	}
	settings := Settings{
		APIURL:        srv.APIURL(),
		APITimeout:    5 * time.Second,
		Poll:          poll,
		SessionName:   "frontdesk_session",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	}

	render := &stubRenderer{}
	sessions := NewMemorySessionRepo()
	workspaces := NewWorkspaces(settings, NewSealer(settings.SessionSecret), nil, nil)
	h := NewHandler(render, sessions, workspaces, settings, nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	return &testConsole{handler: h, router: r, srv: srv, render: render, sessions: sessions}
}

func (tc *testConsole) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	tc.router.ServeHTTP(rec, req)
	return rec
}

func (tc *testConsole) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	rec := tc.do(http.MethodPost, "/signin", url.Values{
		"username": {apitest.Username},
		"password": {apitest.Password},
	}, nil)

	if got := redirectTarget(rec); got != "/" {
		t.Fatalf("sign in redirect = %q, want /", got)
	}
	cookie := sessionCookie(rec, "frontdesk_session")
	if cookie == nil || cookie.Value == "" {
		t.Fatal("sign in did not set a session cookie")
	}
	return cookie
}

func redirectTarget(rec *httptest.ResponseRecorder) string {
	if loc := rec.Header().Get("Location"); loc != "" {
		return loc
	}
	return rec.Header().Get("HX-Redirect")
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionMiddlewareRedirects(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{name: "noCookie", cookie: nil, want: "/signin"},
		{name: "forgedCookie", cookie: &http.Cookie{Name: "frontdesk_session", Value: "forged"}, want: "/signin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)

			rec := tc.do(http.MethodGet, "/tables", nil, tt.cookie)

			if got := redirectTarget(rec); got != tt.want {
				t.Errorf("redirect = %q, want %q", got, tt.want)
			}
			if tc.render.count() != 0 {
				t.Errorf("rendered %d pages, want none", tc.render.count())
			}
			if n := len(tc.srv.Calls()); n != 0 {
				t.Errorf("service received %d calls, want none", n)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	_, loginErr := api.NewSession().Login(apitest.Username, "")

	tests := []struct {
		name       string
		username   string
		password   string
		wantCookie bool
		wantError  string
	}{
		{
			name:       "validCredential",
			username:   apitest.Username,
			password:   apitest.Password,
			wantCookie: true,
		},
		{
			name:      "wrongPassword",
			username:  apitest.Username,
			password:  "nope",
			wantError: "Invalid username or password.",
		},
		{
			name:      "missingPassword",
			username:  apitest.Username,
			password:  "",
			wantError: api.UserMessage(loginErr),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)

			rec := tc.do(http.MethodPost, "/signin", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}, nil)

			cookie := sessionCookie(rec, "frontdesk_session")
			if tt.wantCookie {
				if cookie == nil || cookie.Value == "" {
					t.Fatal("HandleSignIn() did not set a session cookie")
				}
				if !cookie.HttpOnly {
					t.Error("session cookie is not HttpOnly")
				}
				if got := redirectTarget(rec); got != "/" {
					t.Errorf("redirect = %q, want /", got)
				}
				if tc.handler.workspaces.Len() != 1 {
					t.Errorf("workspaces = %d, want 1", tc.handler.workspaces.Len())
				}
				claims, err := tc.handler.tokens.Parse(cookie.Value)
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
				stored, err := tc.sessions.Get(t.Context(), claims.ID)
				if err != nil {
					t.Fatalf("sessions.Get() error = %v", err)
				}
				if strings.Contains(string(stored.Sealed), "YWRtaW46c2VjcmV0") {
					t.Error("stored session holds the credential in clear")
				}
				return
			}

			if cookie != nil && cookie.Value != "" {
				t.Error("HandleSignIn() set a cookie for a rejected credential")
			}
			call := tc.render.last(t)
			if call.page != "signin.html" {
				t.Errorf("rendered %q, want signin.html", call.page)
			}
			if got, _ := call.data["Error"].(string); got != tt.wantError {
				t.Errorf("Error = %q, want %q", got, tt.wantError)
			}
			if tc.handler.workspaces.Len() != 0 {
				t.Errorf("workspaces = %d, want 0", tc.handler.workspaces.Len())
			}
		})
	}
}

func TestDashboardRendersSummary(t *testing.T) {
	tc := newTestConsole(t)
	tc.srv.SeedTable(api.Table{Number: 1, Capacity: 2})
	tc.srv.SeedTable(api.Table{Number: 2, Capacity: 4, Status: tablestatus.Statuses.Occupied.Code()})
	tc.srv.SeedWaitlist(api.WaitlistEntry{CustomerName: "Durand", CustomerPhone: "0600000000", NumberOfGuests: 2})
	cookie := tc.signIn(t)

	rec := tc.do(http.MethodGet, "/", nil, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	call := tc.render.last(t)
	if call.page != "dashboard.html" || call.layout != "base.html" {
		t.Errorf("rendered %s/%s, want dashboard.html/base.html", call.page, call.layout)
	}
	summary, ok := call.data["Summary"].(matching.Dashboard)
	if !ok {
		t.Fatalf("Summary = %T, want matching.Dashboard", call.data["Summary"])
	}
	if summary.TotalTables != 2 || summary.AvailableTables != 1 {
		t.Errorf("tables = %d/%d, want 1/2", summary.AvailableTables, summary.TotalTables)
	}
	if summary.ActiveWaitlist != 1 {
		t.Errorf("ActiveWaitlist = %d, want 1", summary.ActiveWaitlist)
	}
	user, _ := call.data["User"].(map[string]interface{})
	if user["Username"] != apitest.Username {
		t.Errorf("User = %v, want %s", user, apitest.Username)
	}
}

func TestFragment(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLayout string
	}{
		{name: "tables", path: "/fragments/tables", wantStatus: http.StatusOK, wantLayout: "tables_fragment"},
		{name: "dashboard", path: "/fragments/dashboard", wantStatus: http.StatusOK, wantLayout: "dashboard_fragment"},
		{name: "unknown", path: "/fragments/kitchen", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)
			cookie := tc.signIn(t)

			rec := tc.do(http.MethodGet, tt.path, nil, cookie)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLayout == "" {
				return
			}
			if call := tc.render.last(t); call.layout != tt.wantLayout {
				t.Errorf("layout = %q, want %q", call.layout, tt.wantLayout)
			}
		})
	}
}

func TestConvertWaitlistEntry(t *testing.T) {
	tc := newTestConsole(t)
	table := tc.srv.SeedTable(api.Table{Number: 5, Capacity: 4})
	entry := tc.srv.SeedWaitlist(api.WaitlistEntry{CustomerName: "Martin", CustomerPhone: "0611111111", NumberOfGuests: 2})
	cookie := tc.signIn(t)
	tc.do(http.MethodGet, "/waitlist", nil, cookie)

	rec := tc.do(http.MethodPost, "/waitlist/"+entry.ID+"/convert", url.Values{"table": {table.ID}}, cookie)

	if got := redirectTarget(rec); got != "/waitlist?done=waitlist-converted" {
		t.Fatalf("redirect = %q, want /waitlist?done=waitlist-converted", got)
	}
	if got, _ := tc.srv.Table(table.ID); got.State() != tablestatus.Statuses.Reserved {
		t.Errorf("table status = %q, want reserved", got.Status)
	}
	if got, _ := tc.srv.WaitlistEntry(entry.ID); got.State() != waitliststatus.Statuses.Confirmed {
		t.Errorf("entry status = %q, want confirmed", got.Status)
	}

	tc.do(http.MethodGet, "/waitlist?done=waitlist-converted", nil, cookie)
	call := tc.render.last(t)
	if got := call.data["Success"]; got != doneMessages["waitlist-converted"] {
		t.Errorf("Success = %v, want %q", got, doneMessages["waitlist-converted"])
	}
}

func TestConvertWaitlistEntryRejected(t *testing.T) {
	tc := newTestConsole(t)
	table := tc.srv.SeedTable(api.Table{Number: 2, Capacity: 2})
	entry := tc.srv.SeedWaitlist(api.WaitlistEntry{CustomerName: "Petit", CustomerPhone: "0622222222", NumberOfGuests: 6})
	cookie := tc.signIn(t)
	tc.do(http.MethodGet, "/waitlist", nil, cookie)

	rec := tc.do(http.MethodPost, "/waitlist/"+entry.ID+"/convert", url.Values{"table": {table.ID}}, cookie)

	if got := redirectTarget(rec); got != "" {
		t.Errorf("redirect = %q, want none", got)
	}
	call := tc.render.last(t)
	if call.page != "waitlist.html" {
		t.Errorf("rendered %q, want waitlist.html", call.page)
	}
	if got, _ := call.data["Error"].(string); got == "" {
		t.Error("Error is empty, want a user message")
	}
	if n := tc.srv.CountCalls(http.MethodPost, "/waitlist/"+entry.ID+"/convert"); n != 0 {
		t.Errorf("convert calls = %d, want 0", n)
	}
}

func TestRefusedCredentialEndsSession(t *testing.T) {
	tc := newTestConsole(t)
	entry := tc.srv.SeedWaitlist(api.WaitlistEntry{CustomerName: "Roux", CustomerPhone: "0633333333", NumberOfGuests: 2})
	cookie := tc.signIn(t)
	tc.do(http.MethodGet, "/waitlist", nil, cookie)

	tc.srv.FailNext(http.MethodPost, "/waitlist/"+entry.ID+"/cancel", http.StatusUnauthorized, 1)
	rec := tc.do(http.MethodPost, "/waitlist/"+entry.ID+"/cancel", nil, cookie)

	if got := redirectTarget(rec); got != "/signin?expired=1" {
		t.Fatalf("redirect = %q, want /signin?expired=1", got)
	}
	if cleared := sessionCookie(rec, "frontdesk_session"); cleared == nil || cleared.MaxAge >= 0 {
		t.Error("session cookie was not cleared")
	}
	if tc.handler.workspaces.Len() != 0 {
		t.Errorf("workspaces = %d, want 0", tc.handler.workspaces.Len())
	}

	rec = tc.do(http.MethodGet, "/", nil, cookie)
	if got := redirectTarget(rec); got != "/signin?expired=1" {
		t.Errorf("reuse redirect = %q, want /signin?expired=1", got)
	}
}

func TestSignOut(t *testing.T) {
	tc := newTestConsole(t)
	cookie := tc.signIn(t)

	rec := tc.do(http.MethodPost, "/signout", nil, cookie)

	if got := redirectTarget(rec); got != "/signin" {
		t.Errorf("redirect = %q, want /signin", got)
	}
	if tc.handler.workspaces.Len() != 0 {
		t.Errorf("workspaces = %d, want 0", tc.handler.workspaces.Len())
	}
	if got := redirectTarget(tc.do(http.MethodGet, "/", nil, cookie)); !strings.HasPrefix(got, "/signin") {
		t.Errorf("reuse redirect = %q, want /signin", got)
	}
}

func TestWorkspaceReopensFromSealedSession(t *testing.T) {
	tc := newTestConsole(t)
	tc.srv.SeedTable(api.Table{Number: 3, Capacity: 2})
	cookie := tc.signIn(t)

	claims, err := tc.handler.tokens.Parse(cookie.Value)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	tc.handler.workspaces.Drop(claims.ID)

	rec := tc.do(http.MethodGet, "/tables", nil, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	tables, _ := tc.render.last(t).data["Tables"].([]tableView)
	if len(tables) != 1 {
		t.Errorf("tables = %d, want 1", len(tables))
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		wantStatus int
		wantCount  float64
	}{
		{name: "tables", collection: "tables", wantStatus: http.StatusOK, wantCount: 2},
		{name: "emptyOrders", collection: "orders", wantStatus: http.StatusOK, wantCount: 0},
		{name: "unknown", collection: "kitchen", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)
			tc.srv.SeedTable(api.Table{Number: 1, Capacity: 2})
			tc.srv.SeedTable(api.Table{Number: 2, Capacity: 4})
			cookie := tc.signIn(t)

			rec := tc.do(http.MethodGet, "/api/state/"+tt.collection, nil, cookie)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("cannot decode body: %v", err)
			}
			if data, ok := body["data"].(map[string]interface{}); ok {
				body = data
			}
			if body["collection"] != tt.collection {
				t.Errorf("collection = %v, want %s", body["collection"], tt.collection)
			}
			if body["count"] != tt.wantCount {
				t.Errorf("count = %v, want %v", body["count"], tt.wantCount)
			}
		})
	}
}

func TestBooking(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantSent  bool
		wantCalls int
	}{
		{
			name: "validRequest",
			form: url.Values{
				"customer_name":  {"Bernard"},
				"customer_phone": {"0644444444"},
				"date":           {"2026-03-14"},
				"time":           {"20:30"},
				"guests":         {"3"},
			},
			wantSent:  true,
			wantCalls: 1,
		},
		{
			name: "missingPhone",
			form: url.Values{
				"customer_name": {"Bernard"},
				"date":          {"2026-03-14"},
				"time":          {"20:30"},
				"guests":        {"3"},
			},
		},
		{
			name: "badDate",
			form: url.Values{
				"customer_name":  {"Bernard"},
				"customer_phone": {"0644444444"},
				"date":           {"14/03/2026"},
				"time":           {"20:30"},
				"guests":         {"3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)

			rec := tc.do(http.MethodPost, "/book", tt.form, nil)

			if n := tc.srv.CountCalls(http.MethodPost, "/waitlist"); n != tt.wantCalls {
				t.Errorf("waitlist calls = %d, want %d", n, tt.wantCalls)
			}
			if tt.wantSent {
				if got := redirectTarget(rec); got != "/book?sent=1" {
					t.Errorf("redirect = %q, want /book?sent=1", got)
				}
				return
			}
			call := tc.render.last(t)
			if call.page != "book.html" {
				t.Errorf("rendered %q, want book.html", call.page)
			}
			if got, _ := call.data["Error"].(string); got == "" {
				t.Error("Error is empty, want a user message")
			}
		})
	}
}

func TestCarteShowsOnlyAvailableItems(t *testing.T) {
	tc := newTestConsole(t)
	tc.srv.SeedMenuItem(api.MenuItem{Name: "Soupe", Category: "entrée", Price: 8, Available: true})
	tc.srv.SeedMenuItem(api.MenuItem{Name: "Tarte", Category: "dessert", Price: 7, Available: false})

	rec := tc.do(http.MethodGet, "/carte", nil, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	sections, _ := tc.render.last(t).data["Sections"].([]menuSection)
	if len(sections) != 1 || sections[0].Items[0].Name != "Soupe" {
		t.Errorf("Sections = %+v, want only Soupe", sections)
	}
}

func TestWelcomeIsPublic(t *testing.T) {
	tc := newTestConsole(t)
	tc.srv.SeedMenuItem(api.MenuItem{Name: "Soupe", Category: "entrée", Price: 8, Available: true, Rating: 4.1})
	tc.srv.SeedMenuItem(api.MenuItem{Name: "Confit", Category: "plat principal", Price: 21, Available: true, Rating: 4.7})
	tc.srv.SeedMenuItem(api.MenuItem{Name: "Tarte", Category: "dessert", Price: 7, Available: false, Rating: 5})

	rec := tc.do(http.MethodGet, "/welcome", nil, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	call := tc.render.last(t)
	if call.page != "home.html" {
		t.Errorf("page = %q, want home.html", call.page)
	}
	popular, _ := call.data["Popular"].([]menuItemView)
	if len(popular) != 2 || popular[0].Name != "Confit" || popular[1].Name != "Soupe" {
		t.Errorf("Popular = %+v, want Confit then Soupe", popular)
	}
	if n := tc.srv.CountCalls(http.MethodGet, "/menu/popular"); n != 1 {
		t.Errorf("popular calls = %d, want 1", n)
	}
}
