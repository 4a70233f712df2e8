package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums"
	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/reservationstatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
	"github.com/appetiteclub/frontdesk/pkg/enums/waitliststatus"
	"github.com/go-chi/chi/v5"
)

// Tables

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, *t)
	}
	s.mu.Unlock()
	s.respond(w, http.StatusOK, out)
}

func (s *Server) availableTables(w http.ResponseWriter, r *http.Request) {
	capacity, _ := strconv.Atoi(r.URL.Query().Get("capacity"))
	loc := r.URL.Query().Get("location")

	s.mu.Lock()
	out := []api.Table{}
	for _, t := range s.tables {
		if !is(t.Status, tablestatus.Statuses.Available) || t.Capacity < capacity {
			continue
		}
		if loc != "" && !enums.Equal(t.Location, loc) {
			continue
		}
		out = append(out, *t)
	}
	s.mu.Unlock()
	s.respond(w, http.StatusOK, out)
}

func (s *Server) floorPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	plan := map[string][]api.Table{}
	for _, t := range s.tables {
		plan[t.Location] = append(plan[t.Location], *t)
	}
	s.mu.Unlock()
	s.respond(w, http.StatusOK, plan)
}

func (s *Server) tableStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	byStatus := countBy(s.tables, func(t *api.Table) string { return t.Status })
	total := len(s.tables)
	s.mu.Unlock()
	s.respond(w, http.StatusOK, map[string]any{"total": total, "byStatus": byStatus})
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.findTable(chi.URLParam(r, "id"))
	var out api.Table
	if t != nil {
		out = *t
	}
	s.mu.Unlock()
	if t == nil {
		writeError(w, http.StatusNotFound, "Table non trouvée")
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	var in api.TableInput
	if !decode(r, &in) || in.Number <= 0 || in.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "Données de table invalides")
		return
	}

	s.mu.Lock()
	for _, t := range s.tables {
		if t.Number == in.Number {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "Ce numéro de table existe déjà")
			return
		}
	}
	t := &api.Table{
		ID:        newID(),
		Number:    in.Number,
		Capacity:  in.Capacity,
		Location:  in.Location,
		Shape:     in.Shape,
		Status:    in.Status,
		CreatedAt: s.now(),
	}
	if t.Status == "" {
		t.Status = tablestatus.Statuses.Available.Code()
	}
	s.tables = append(s.tables, t)
	out := *t
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, out)
}

func (s *Server) updateTable(w http.ResponseWriter, r *http.Request) {
	var in api.TableInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Données de table invalides")
		return
	}

	s.mu.Lock()
	t := s.findTable(chi.URLParam(r, "id"))
	if t == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Table non trouvée")
		return
	}
	t.Number, t.Capacity, t.Location, t.Shape = in.Number, in.Capacity, in.Location, in.Shape
	if in.Status != "" {
		t.Status = in.Status
	}
	t.UpdatedAt = s.now()
	out := *t
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	idx := -1
	for i, t := range s.tables {
		if t.ID == id {
			idx = i
		}
	}
	if idx >= 0 {
		s.tables = append(s.tables[:idx], s.tables[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeError(w, http.StatusNotFound, "Table non trouvée")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Table supprimée"})
}

func (s *Server) updateTableStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decode(r, &body) || tablestatus.ByName(body.Status) == nil {
		writeError(w, http.StatusBadRequest, "Statut invalide")
		return
	}

	s.mu.Lock()
	t := s.findTable(chi.URLParam(r, "id"))
	if t == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Table non trouvée")
		return
	}
	t.Status = tablestatus.ByName(body.Status).Code()
	t.UpdatedAt = s.now()
	out := *t
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

// Reservations

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.Reservations())
}

func (s *Server) reservationsByCustomer(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	out := []api.Reservation{}
	for _, res := range s.Reservations() {
		if res.CustomerPhone == phone {
			out = append(out, res)
		}
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) getReservation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.findReservation(chi.URLParam(r, "id"))
	var out api.Reservation
	if res != nil {
		out = *res
	}
	s.mu.Unlock()
	if res == nil {
		writeError(w, http.StatusNotFound, "Réservation non trouvée")
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) createReservation(w http.ResponseWriter, r *http.Request) {
	var in api.ReservationInput
	if !decode(r, &in) || in.CustomerName == "" || in.NumberOfGuests <= 0 {
		writeError(w, http.StatusBadRequest, "Données de réservation invalides")
		return
	}

	s.mu.Lock()
	res := &api.Reservation{
		ID:              newID(),
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		NumberOfGuests:  in.NumberOfGuests,
		ReservationDate: in.ReservationDate,
		ReservationTime: in.ReservationTime,
		Table:           api.RefTable(in.Table),
		Occasion:        in.Occasion,
		SpecialRequests: in.SpecialRequests,
		Status:          in.Status,
		CreatedAt:       s.now(),
	}
	if res.Status == "" {
		res.Status = reservationstatus.Statuses.Pending.Code()
	}
	if st := reservationstatus.ByName(res.Status); st != nil && reservationstatus.HoldsTable(*st) {
		s.setTableStatus(res.Table, tablestatus.Statuses.Reserved)
	}
	s.reservations = append(s.reservations, res)
	out := *res
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, out)
}

func (s *Server) updateReservation(w http.ResponseWriter, r *http.Request) {
	var in api.ReservationInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Données de réservation invalides")
		return
	}

	s.mu.Lock()
	res := s.findReservation(chi.URLParam(r, "id"))
	if res == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Réservation non trouvée")
		return
	}
	if in.CustomerName != "" {
		res.CustomerName = in.CustomerName
		res.CustomerPhone = in.CustomerPhone
		res.CustomerEmail = in.CustomerEmail
		res.NumberOfGuests = in.NumberOfGuests
		res.ReservationDate = in.ReservationDate
		res.ReservationTime = in.ReservationTime
		res.Table = api.RefTable(in.Table)
		res.Occasion = in.Occasion
		res.SpecialRequests = in.SpecialRequests
	}
	if in.Status != "" {
		res.Status = in.Status
		if st := reservationstatus.ByName(in.Status); st != nil && reservationstatus.IsTerminal(*st) {
			s.setTableStatus(res.Table, tablestatus.Statuses.Available)
		}
	}
	res.UpdatedAt = s.now()
	out := *res
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func (s *Server) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	idx := -1
	for i, res := range s.reservations {
		if res.ID == id {
			idx = i
		}
	}
	if idx >= 0 {
		s.reservations = append(s.reservations[:idx], s.reservations[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeError(w, http.StatusNotFound, "Réservation non trouvée")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Réservation supprimée"})
}

func (s *Server) reservationStep(to reservationstatus.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CancelReason string `json:"cancelReason"`
		}
		decode(r, &body)

		s.mu.Lock()
		res := s.findReservation(chi.URLParam(r, "id"))
		if res == nil {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, "Réservation non trouvée")
			return
		}
		if !reservationstatus.CanTransition(res.State(), to) {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Transition de statut impossible")
			return
		}
		res.Status = to.Code()
		res.CancelReason = body.CancelReason
		res.UpdatedAt = s.now()
		switch to {
		case reservationstatus.Statuses.Arrived:
			s.setTableStatus(res.Table, tablestatus.Statuses.Occupied)
		case reservationstatus.Statuses.Completed, reservationstatus.Statuses.Cancelled:
			s.setTableStatus(res.Table, tablestatus.Statuses.Available)
		}
		out := *res
		s.mu.Unlock()

		s.respond(w, http.StatusOK, out)
	}
}

// Waitlist

func (s *Server) listWaitlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]api.WaitlistEntry, 0, len(s.waitlist))
	for _, e := range s.waitlist {
		out = append(out, *e)
	}
	s.mu.Unlock()
	s.respond(w, http.StatusOK, out)
}

func (s *Server) createWaitlist(w http.ResponseWriter, r *http.Request) {
	var in api.WaitlistInput
	if !decode(r, &in) || in.CustomerName == "" || in.NumberOfGuests <= 0 {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	e := &api.WaitlistEntry{
		ID:             newID(),
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		NumberOfGuests: in.NumberOfGuests,
		RequestedDate:  in.Date,
		RequestedTime:  in.Time,
		Notes:          in.Notes,
		Status:         waitliststatus.Statuses.Waiting.Code(),
		CreatedAt:      s.now(),
	}
	s.waitlist = append(s.waitlist, e)
	out := *e
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, out)
}

func (s *Server) convertWaitlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TableID string `json:"tableId"`
	}
	if !decode(r, &body) || body.TableID == "" {
		writeError(w, http.StatusBadRequest, "Table requise")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *api.WaitlistEntry
	for _, e := range s.waitlist {
		if e.ID == chi.URLParam(r, "id") {
			entry = e
		}
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entrée non trouvée")
		return
	}
	if !waitliststatus.CanConvert(entry.State()) {
		writeError(w, http.StatusBadRequest, "Entrée déjà traitée")
		return
	}
	table := s.findTable(body.TableID)
	if table == nil {
		writeError(w, http.StatusNotFound, "Table non trouvée")
		return
	}
	if !is(table.Status, tablestatus.Statuses.Available) {
		writeError(w, http.StatusConflict, "Table non disponible")
		return
	}
	if table.Capacity < entry.NumberOfGuests {
		writeError(w, http.StatusBadRequest, "Capacité insuffisante")
		return
	}

	now := s.now()
	res := &api.Reservation{
		ID:              newID(),
		CustomerName:    entry.CustomerName,
		CustomerPhone:   entry.CustomerPhone,
		CustomerEmail:   entry.CustomerEmail,
		NumberOfGuests:  entry.NumberOfGuests,
		ReservationDate: entry.RequestedDate,
		ReservationTime: entry.RequestedTime,
		Table:           api.RefTable(table.ID),
		SpecialRequests: entry.Notes,
		Status:          reservationstatus.Statuses.Confirmed.Code(),
		CreatedAt:       now,
	}
	s.reservations = append(s.reservations, res)
	entry.Status = waitliststatus.Statuses.Confirmed.Code()
	entry.UpdatedAt = now
	table.Status = tablestatus.Statuses.Reserved.Code()
	table.UpdatedAt = now

	s.respond(w, http.StatusOK, *res)
}

func (s *Server) cancelWaitlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var entry *api.WaitlistEntry
	for _, e := range s.waitlist {
		if e.ID == chi.URLParam(r, "id") {
			entry = e
		}
	}
	if entry == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Entrée non trouvée")
		return
	}
	if !waitliststatus.CanTransition(entry.State(), waitliststatus.Statuses.Cancelled) {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Entrée déjà traitée")
		return
	}
	entry.Status = waitliststatus.Statuses.Cancelled.Code()
	entry.UpdatedAt = s.now()
	out := *entry
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

// Orders

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.filterOrders(func(*api.Order) bool { return true }))
}

func (s *Server) ordersByTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tableId")
	s.respond(w, http.StatusOK, s.filterOrders(func(o *api.Order) bool { return o.Table.ID == id }))
}

func (s *Server) ordersByCustomer(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	s.respond(w, http.StatusOK, s.filterOrders(func(o *api.Order) bool { return o.CustomerPhone == phone }))
}

func (s *Server) filterOrders(keep func(*api.Order) bool) []api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (s *Server) orderStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	byStatus := countBy(s.orders, func(o *api.Order) string { return o.Status })
	revenue := 0.0
	for _, o := range s.orders {
		if is(o.Status, orderstatus.Statuses.Paid) {
			revenue += o.Total
		}
	}
	total := len(s.orders)
	s.mu.Unlock()
	s.respond(w, http.StatusOK, map[string]any{"total": total, "byStatus": byStatus, "revenue": revenue})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	o := s.findOrder(chi.URLParam(r, "id"))
	var out api.Order
	if o != nil {
		out = *o
	}
	s.mu.Unlock()
	if o == nil {
		writeError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) linesFor(inputs []api.OrderLineInput) ([]api.OrderLine, bool) {
	lines := make([]api.OrderLine, 0, len(inputs))
	for _, in := range inputs {
		item := s.findMenuItem(in.MenuItem)
		if item == nil || in.Quantity < 1 {
			return nil, false
		}
		lines = append(lines, api.OrderLine{
			MenuItem: api.RefMenuItem(item.ID),
			Name:     item.Name,
			Price:    item.Price,
			Quantity: in.Quantity,
			Notes:    in.Notes,
		})
	}
	return lines, true
}

func recompute(o *api.Order) {
	subtotal := 0.0
	for _, l := range o.Items {
		subtotal += l.Price * float64(l.Quantity)
	}
	o.Subtotal = subtotal
	o.Total = subtotal - o.Discount + o.Tax
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var in api.OrderInput
	if !decode(r, &in) || len(in.Items) == 0 {
		writeError(w, http.StatusBadRequest, "La commande doit contenir au moins un article")
		return
	}

	s.mu.Lock()
	lines, ok := s.linesFor(in.Items)
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Article de menu invalide")
		return
	}
	o := &api.Order{
		ID:            newID(),
		Table:         api.RefTable(in.Table),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Items:         lines,
		Status:        orderstatus.Statuses.Pending.Code(),
		CreatedAt:     s.now(),
	}
	recompute(o)
	s.setTableStatus(o.Table, tablestatus.Statuses.Occupied)
	s.orders = append(s.orders, o)
	out := *o
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, out)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decode(r, &body) || orderstatus.ByName(body.Status) == nil {
		writeError(w, http.StatusBadRequest, "Statut invalide")
		return
	}
	to := *orderstatus.ByName(body.Status)

	s.mu.Lock()
	o := s.findOrder(chi.URLParam(r, "id"))
	if o == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	if !orderstatus.CanTransition(o.State(), to) {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Transition de statut impossible")
		return
	}
	o.Status = to.Code()
	o.UpdatedAt = s.now()
	out := *o
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func (s *Server) addOrderItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []api.OrderLineInput `json:"items"`
	}
	if !decode(r, &body) || len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Aucun article")
		return
	}

	s.mu.Lock()
	o := s.findOrder(chi.URLParam(r, "id"))
	if o == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	if !orderstatus.AcceptsItems(o.State()) {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "La commande ne peut plus être modifiée")
		return
	}
	lines, ok := s.linesFor(body.Items)
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Article de menu invalide")
		return
	}
	o.Items = append(o.Items, lines...)
	recompute(o)
	o.UpdatedAt = s.now()
	out := *o
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CancelReason string `json:"cancelReason"`
	}
	decode(r, &body)

	s.mu.Lock()
	o := s.findOrder(chi.URLParam(r, "id"))
	if o == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	if orderstatus.IsTerminal(o.State()) {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Commande déjà clôturée")
		return
	}
	o.Status = orderstatus.Statuses.Cancelled.Code()
	o.CancelReason = body.CancelReason
	o.UpdatedAt = s.now()
	out := *o
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	idx := -1
	for i, o := range s.orders {
		if o.ID == id {
			idx = i
		}
	}
	if idx >= 0 {
		s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Commande supprimée"})
}

// Menu

func (s *Server) menuItems(keep func(*api.MenuItem) bool) []api.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.MenuItem{}
	for _, m := range s.menu {
		if keep(m) {
			out = append(out, *m)
		}
	}
	return out
}

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.menuItems(func(*api.MenuItem) bool { return true }))
}

func (s *Server) menuSpecials(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.menuItems(func(m *api.MenuItem) bool { return m.IsSpecial && m.Available }))
}

func (s *Server) menuPopular(w http.ResponseWriter, r *http.Request) {
	items := s.menuItems(func(m *api.MenuItem) bool { return m.Available })
	sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	if len(items) > 5 {
		items = items[:5]
	}
	s.respond(w, http.StatusOK, items)
}

func (s *Server) menuSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	s.respond(w, http.StatusOK, s.menuItems(func(m *api.MenuItem) bool {
		return strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Description), q)
	}))
}

func (s *Server) menuCategories(w http.ResponseWriter, r *http.Request) {
	items := s.menuItems(func(m *api.MenuItem) bool { return m.Available })
	var groups []api.MenuCategory
	index := map[string]int{}
	for _, m := range items {
		i, ok := index[m.Category]
		if !ok {
			i = len(groups)
			index[m.Category] = i
			groups = append(groups, api.MenuCategory{Category: m.Category})
		}
		groups[i].Items = append(groups[i].Items, m)
		groups[i].Count++
	}
	s.respond(w, http.StatusOK, groups)
}

func (s *Server) menuStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	byCategory := countBy(s.menu, func(m *api.MenuItem) string { return m.Category })
	total := len(s.menu)
	s.mu.Unlock()
	s.respond(w, http.StatusOK, map[string]any{"total": total, "byCategory": byCategory})
}

func (s *Server) getMenuItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.findMenuItem(chi.URLParam(r, "id"))
	var out api.MenuItem
	if m != nil {
		out = *m
	}
	s.mu.Unlock()
	if m == nil {
		writeError(w, http.StatusNotFound, "Article non trouvé")
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var in api.MenuItemInput
	if !decode(r, &in) || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	m := &api.MenuItem{ID: newID(), CreatedAt: s.now(), Available: true}
	applyMenuInput(m, in)
	s.menu = append(s.menu, m)
	out := *m
	s.mu.Unlock()

	s.respond(w, http.StatusCreated, out)
}

func (s *Server) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in api.MenuItemInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	m := s.findMenuItem(chi.URLParam(r, "id"))
	if m == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Article non trouvé")
		return
	}
	applyMenuInput(m, in)
	m.UpdatedAt = s.now()
	out := *m
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}

func applyMenuInput(m *api.MenuItem, in api.MenuItemInput) {
	m.Name = in.Name
	m.Description = in.Description
	m.Price = in.Price
	m.Category = in.Category
	if in.Available != nil {
		m.Available = *in.Available
	}
	m.PreparationTime = in.PreparationTime
	m.Ingredients = in.Ingredients
	m.Allergens = in.Allergens
	m.Calories = in.Calories
	m.SpicyLevel = in.SpicyLevel
	m.IsSpecial = in.IsSpecial
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	idx := -1
	for i, m := range s.menu {
		if m.ID == id {
			idx = i
		}
	}
	if idx >= 0 {
		s.menu = append(s.menu[:idx], s.menu[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeError(w, http.StatusNotFound, "Article non trouvé")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"message": "Article supprimé"})
}

func (s *Server) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.findMenuItem(chi.URLParam(r, "id"))
	if m == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Article non trouvé")
		return
	}
	m.Available = !m.Available
	m.UpdatedAt = s.now()
	out := *m
	s.mu.Unlock()

	s.respond(w, http.StatusOK, out)
}
