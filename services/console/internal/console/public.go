package console

import (
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg/api"
)

// Welcome renders the public landing page with the house favourites.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Welcome")
	defer finish()

	data := map[string]interface{}{
		"Title":    "Bienvenue",
		"Template": "home",
		"HideNav":  true,
	}

	popular, err := h.public.Menu().Popular(r.Context())
	if err != nil {
		h.log(r).Debug("cannot load popular dishes", "error", err)
	}
	var views []menuItemView
	for _, m := range popular {
		views = append(views, newMenuItemView(m))
	}
	data["Popular"] = views

	h.renderTemplate(w, r, "home.html", "base.html", data)
}

// ShowBooking renders the public booking request form.
func (h *Handler) ShowBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowBooking")
	defer finish()

	data := map[string]interface{}{
		"Title":    "Réserver",
		"Template": "book",
		"HideNav":  true,
		"Form":     bookingForm{Guests: "2"},
	}
	if r.URL.Query().Get("sent") == "1" {
		data["Success"] = "Thank you, your request is on our waitlist. We will call you to confirm."
	}

	h.renderTemplate(w, r, "book.html", "base.html", data)
}

type bookingForm struct {
	Name   string
	Phone  string
	Email  string
	Date   string
	Time   string
	Guests string
	Notes  string
}

// HandleBooking files a public waitlist request; no sign-in is needed.
func (h *Handler) HandleBooking(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleBooking")
	defer finish()

	form := bookingForm{}
	renderError := func(message string) {
		data := map[string]interface{}{
			"Title":    "Réserver",
			"Template": "book",
			"HideNav":  true,
			"Form":     form,
			"Error":    message,
		}
		h.renderTemplate(w, r, "book.html", "base.html", data)
	}

	if err := r.ParseForm(); err != nil {
		renderError("Could not read the submitted form.")
		return
	}

	form = bookingForm{
		Name:   strings.TrimSpace(r.FormValue("customer_name")),
		Phone:  strings.TrimSpace(r.FormValue("customer_phone")),
		Email:  strings.TrimSpace(r.FormValue("customer_email")),
		Date:   strings.TrimSpace(r.FormValue("date")),
		Time:   strings.TrimSpace(r.FormValue("time")),
		Guests: strings.TrimSpace(r.FormValue("guests")),
		Notes:  strings.TrimSpace(r.FormValue("notes")),
	}

	in := api.WaitlistInput{
		CustomerName:   form.Name,
		CustomerPhone:  form.Phone,
		CustomerEmail:  form.Email,
		Time:           form.Time,
		NumberOfGuests: atoi(form.Guests),
		Notes:          form.Notes,
	}
	if form.Date != "" {
		d, err := api.ParseDate(form.Date)
		if err != nil {
			renderError("Please enter a valid date.")
			return
		}
		in.Date = d
	}
	if err := in.Validate(); err != nil {
		renderError(api.UserMessage(err))
		return
	}

	entry, err := h.public.Waitlist().Create(r.Context(), in)
	if err != nil {
		h.log(r).Error("booking request failed", "error", err)
		renderError(api.UserMessage(err))
		return
	}

	h.log(r).Info("booking request received", "entry", entry.ID, "guests", entry.NumberOfGuests)
	aqm.RedirectOrHeader(w, r, "/book?sent=1")
}

// Carte renders the public menu: available items grouped by category.
func (h *Handler) Carte(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Carte")
	defer finish()

	data := map[string]interface{}{
		"Title":    "La carte",
		"Template": "carte",
		"HideNav":  true,
	}

	items, err := h.public.Menu().List(r.Context())
	if err != nil {
		h.log(r).Error("cannot load menu", "error", err)
		data["LoadError"] = api.UserMessage(err)
	}
	data["Sections"] = menuSections(items, true)

	if specials, err := h.public.Menu().Specials(r.Context()); err == nil {
		var views []menuItemView
		for _, m := range specials {
			if m.Available {
				views = append(views, newMenuItemView(m))
			}
		}
		data["Specials"] = views
	}

	h.renderTemplate(w, r, "carte.html", "base.html", data)
}
