package console

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	aqmtemplate "github.com/aquamarinepk/aqm/template"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
)

// Renderer executes layout from the template set of page.
type Renderer interface {
	Render(w io.Writer, page, layout string, data map[string]interface{}) error
}

type templateRenderer struct {
	mgr *aqmtemplate.Manager
}

func NewTemplateRenderer(mgr *aqmtemplate.Manager) Renderer {
	return &templateRenderer{mgr: mgr}
}

func (t *templateRenderer) Render(w io.Writer, page, layout string, data map[string]interface{}) error {
	tmpl, err := t.mgr.Get(page)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, layout, data)
}

type Handler struct {
	tmpl       Renderer
	settings   Settings
	sessions   SessionRepo
	tokens     *Tokens
	workspaces *Workspaces
	public     *api.Client
	cors       *cors.Cors
	logger     aqm.Logger
	http       *telemetry.HTTP
	now        func() time.Time
}

func NewHandler(tmpl Renderer, sessions SessionRepo, workspaces *Workspaces, settings Settings, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return &Handler{
		tmpl:       tmpl,
		settings:   settings,
		sessions:   sessions,
		tokens:     NewTokens(settings.SessionSecret),
		workspaces: workspaces,
		public:     workspaces.NewClient(api.NewSession()),
		cors: cors.New(cors.Options{
			AllowedOrigins:   settings.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request"},
			AllowCredentials: true,
		}),
		logger: logger,
		http:   telemetry.NewHTTP(),
		now:    time.Now,
	}
}

// RegisterRoutes registers the public pages and the signed-in console.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/signin", h.ShowSignIn)
	r.Post("/signin", h.HandleSignIn)
	r.Post("/signout", h.HandleSignOut)
	r.Get("/book", h.ShowBooking)
	r.Post("/book", h.HandleBooking)
	r.Get("/carte", h.Carte)
	r.Get("/welcome", h.Welcome)

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/", h.Dashboard)
		r.Get("/fragments/{collection}", h.Fragment)

		r.Get("/tables", h.Tables)
		r.Post("/tables", h.CreateTable)
		r.Post("/tables/{id}", h.UpdateTable)
		r.Post("/tables/{id}/status", h.SetTableStatus)
		r.Post("/tables/{id}/delete", h.DeleteTable)

		r.Get("/reservations", h.Reservations)
		r.Post("/reservations", h.CreateReservation)
		r.Post("/reservations/{id}", h.UpdateReservation)
		r.Post("/reservations/{id}/delete", h.DeleteReservation)
		r.Post("/reservations/{id}/{step}", h.AdvanceReservation)

		r.Get("/waitlist", h.Waitlist)
		r.Get("/waitlist/{id}/candidates", h.WaitlistCandidates)
		r.Post("/waitlist/{id}/convert", h.ConvertWaitlistEntry)
		r.Post("/waitlist/{id}/cancel", h.CancelWaitlistEntry)

		r.Get("/orders", h.Orders)
		r.Post("/orders", h.CreateOrder)
		r.Post("/orders/{id}/status", h.SetOrderStatus)
		r.Post("/orders/{id}/items", h.AddOrderItems)
		r.Post("/orders/{id}/cancel", h.CancelOrder)
		r.Post("/orders/{id}/delete", h.DeleteOrder)

		r.Get("/menu", h.Menu)
		r.Post("/menu", h.CreateMenuItem)
		r.Post("/menu/{id}", h.UpdateMenuItem)
		r.Post("/menu/{id}/toggle", h.ToggleMenuItem)
		r.Post("/menu/{id}/delete", h.DeleteMenuItem)

		r.With(h.cors.Handler).Get("/api/state/{collection}", h.State)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, page, layout string, data map[string]interface{}) {
	if err := h.tmpl.Render(w, page, layout, data); err != nil {
		h.log(r).Error("error rendering template", "error", err, "template", page, "layout", layout)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type sessionKey struct{}

type signedIn struct {
	session *Session
	store   *cache.Store
}

func withSignedIn(ctx context.Context, s *signedIn) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func signedInFrom(ctx context.Context) *signedIn {
	s, _ := ctx.Value(sessionKey{}).(*signedIn)
	return s
}

func storeFrom(r *http.Request) *cache.Store {
	if s := signedInFrom(r.Context()); s != nil {
		return s.store
	}
	return nil
}

func (h *Handler) userFrom(r *http.Request) map[string]interface{} {
	s := signedInFrom(r.Context())
	if s == nil {
		return nil
	}
	return map[string]interface{}{
		"Username": s.session.Username,
	}
}

// fail reports a rejected action. A refused credential ends the session.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, view string, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		h.log(r).Info("credential refused, ending session", "error", err)
		h.endSession(w, r)
		aqm.RedirectOrHeader(w, r, "/signin?expired=1")
		return
	}

	h.log(r).Debug("action rejected", "view", view, "error", err)
	h.renderView(w, r, view, pageState{Error: api.UserMessage(err)})
}

// freshness is how old a collection may be when a page renders it.
func (h *Handler) freshness(c cache.Collection) time.Duration {
	if d := h.settings.Poll[c]; d > 0 {
		return d
	}
	return time.Minute
}
