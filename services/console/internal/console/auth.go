package console

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
)

// ShowSignIn displays the sign-in page
func (h *Handler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowSignIn")
	defer finish()

	data := map[string]interface{}{
		"Title":    "Connexion",
		"Template": "signin",
		"HideNav":  true,
	}
	if r.URL.Query().Get("expired") == "1" {
		data["Error"] = "Your session has ended. Please sign in again."
	}

	h.renderTemplate(w, r, "signin.html", "base.html", data)
}

// HandleSignIn checks the credential against a protected read before
// opening a console session for it.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignIn")
	defer finish()

	log := h.log(r)
	renderError := func(username, message string) {
		data := map[string]interface{}{
			"Title":    "Connexion",
			"Template": "signin",
			"HideNav":  true,
			"Username": username,
			"Error":    message,
		}
		h.renderTemplate(w, r, "signin.html", "base.html", data)
	}

	if err := r.ParseForm(); err != nil {
		log.Debug("failed to parse form", "error", err)
		renderError("", "Failed to parse form. Please try again.")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	apiSession := api.NewSession()
	cred, err := apiSession.Login(username, password)
	if err != nil {
		renderError(username, api.UserMessage(err))
		return
	}

	id := uuid.New().String()
	now := h.now()
	expiresAt := now.Add(h.settings.SessionTTL)
	store := h.workspaces.Adopt(id, apiSession, expiresAt)
	if err := store.Invalidate(r.Context(), cache.Tables); err != nil {
		h.workspaces.Drop(id)
		log.Debug("sign-in rejected", "username", username, "error", err)
		if errors.Is(err, api.ErrUnauthorized) {
			renderError(username, "Invalid username or password.")
			return
		}
		renderError(username, api.UserMessage(err))
		return
	}

	sealed, err := h.workspaces.Seal(cred)
	if err != nil {
		h.workspaces.Drop(id)
		log.Error("cannot seal credential", "error", err)
		renderError(username, "Session error. Please try again.")
		return
	}

	session := &Session{
		ID:        id,
		Username:  cred.Username,
		Sealed:    sealed,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := h.sessions.Save(r.Context(), session); err != nil {
		h.workspaces.Drop(id)
		log.Error("failed to save session", "error", err)
		renderError(username, "Session error. Please try again.")
		return
	}

	token, err := h.tokens.Issue(session.ID, session.Username, session.ExpiresAt)
	if err != nil {
		h.workspaces.Drop(id)
		log.Error("failed to issue session token", "error", err)
		renderError(username, "Session error. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.settings.SessionName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.settings.SessionTTL.Seconds()),
	})

	log.Info("operator signed in", "username", session.Username, "session", session.ID)
	aqm.RedirectOrHeader(w, r, "/")
}

// HandleSignOut processes sign-out requests
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignOut")
	defer finish()

	h.endSession(w, r)
	aqm.RedirectOrHeader(w, r, "/signin")
}

// endSession forgets the credential of the request's session and clears the cookie.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.settings.SessionName); err == nil {
		if claims, err := h.tokens.Parse(cookie.Value); err == nil {
			h.workspaces.Drop(claims.ID)
			if err := h.sessions.Delete(r.Context(), claims.ID); err != nil {
				h.log(r).Error("cannot delete session", "session", claims.ID, "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.settings.SessionName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SessionMiddleware validates session for protected routes
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.settings.SessionName)
		if err != nil {
			aqm.RedirectOrHeader(w, r, "/signin")
			return
		}

		claims, err := h.tokens.Parse(cookie.Value)
		if err != nil {
			h.log(r).Debug("invalid session cookie", "error", err)
			h.endSession(w, r)
			aqm.RedirectOrHeader(w, r, "/signin")
			return
		}

		session, err := h.sessions.Get(r.Context(), claims.ID)
		if err != nil {
			h.workspaces.Drop(claims.ID)
			aqm.RedirectOrHeader(w, r, "/signin?expired=1")
			return
		}

		store, err := h.workspaces.Open(session)
		if err != nil {
			h.log(r).Error("cannot open workspace", "session", session.ID, "error", err)
			h.endSession(w, r)
			aqm.RedirectOrHeader(w, r, "/signin?expired=1")
			return
		}

		ctx := withSignedIn(r.Context(), &signedIn{session: session, store: store})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
