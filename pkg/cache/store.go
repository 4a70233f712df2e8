package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/event"
	"github.com/aquamarinepk/aqm"
)

// Publisher carries action events. *pkg.NATSPublisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// Store owns the caches of one signed-in session and performs every
// mutation on their behalf, so each action triggers exactly the refetches
// declared in Invalidations.
type Store struct {
	client    *api.Client
	logger    aqm.Logger
	publisher Publisher
	topic     string
	now       func() time.Time

	Tables       *Cache[api.Table]
	Reservations *Cache[api.Reservation]
	Waitlist     *Cache[api.WaitlistEntry]
	Orders       *Cache[api.Order]
	Menu         *Cache[api.MenuItem]
}

type StoreOption func(*Store)

// WithPublisher emits an event.ActionEvent on topic after each successful action.
func WithPublisher(p Publisher, topic string) StoreOption {
	return func(s *Store) {
		s.publisher = p
		if topic != "" {
			s.topic = topic
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(client *api.Client, logger aqm.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	s := &Store{
		client: client,
		logger: logger,
		topic:  event.ActionsTopic,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Tables = New(Tables, client.Tables().List, func(t api.Table) string { return t.ID }, logger)
	s.Reservations = New(Reservations, client.Reservations().List, func(r api.Reservation) string { return r.ID }, logger)
	s.Waitlist = New(Waitlist, client.Waitlist().List, func(e api.WaitlistEntry) string { return e.ID }, logger)
	s.Orders = New(Orders, client.Orders().List, func(o api.Order) string { return o.ID }, logger)
	s.Menu = New(Menu, client.Menu().List, func(m api.MenuItem) string { return m.ID }, logger)

	return s
}

func (s *Store) Client() *api.Client {
	return s.client
}

func (s *Store) Now() time.Time {
	return s.now()
}

type refresher interface {
	Refresh(ctx context.Context) error
	RefreshIfOlder(ctx context.Context, maxAge time.Duration) error
	MarkStale()
	IsRefreshing() bool
}

func (s *Store) cache(c Collection) refresher {
	switch c {
	case Tables:
		return s.Tables
	case Reservations:
		return s.Reservations
	case Waitlist:
		return s.Waitlist
	case Orders:
		return s.Orders
	case Menu:
		return s.Menu
	default:
		return nil
	}
}

// IsRefreshing reports whether a fetch of c is in flight.
func (s *Store) IsRefreshing(c Collection) bool {
	if r := s.cache(c); r != nil {
		return r.IsRefreshing()
	}
	return false
}

// Invalidate marks cols stale and refetches them concurrently, returning
// once every refetch has settled.
func (s *Store) Invalidate(ctx context.Context, cols ...Collection) error {
	var targets []refresher
	for _, c := range cols {
		if r := s.cache(c); r != nil {
			r.MarkStale()
			targets = append(targets, r)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, r := range targets {
		wg.Add(1)
		go func(i int, r refresher) {
			defer wg.Done()
			errs[i] = r.Refresh(ctx)
		}(i, r)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// RefreshIfOlder refreshes each collection whose data is older than maxAge.
func (s *Store) RefreshIfOlder(ctx context.Context, maxAge time.Duration, cols ...Collection) error {
	var errs []error
	for _, c := range cols {
		if r := s.cache(c); r != nil {
			errs = append(errs, r.RefreshIfOlder(ctx, maxAge))
		}
	}
	return errors.Join(errs...)
}

// Load fetches every collection once.
func (s *Store) Load(ctx context.Context) error {
	return s.Invalidate(ctx, Collections...)
}

// done settles a successful action: it refetches the declared collections
// and publishes the audit event. Refetch failures are recorded on the
// caches and do not turn the action into a failure.
func (s *Store) done(ctx context.Context, action Action, tableLinked bool, evt event.ActionEvent) {
	cols := action.Invalidates(tableLinked)
	if err := s.Invalidate(ctx, cols...); err != nil {
		s.logger.Error("refetch after action failed", "action", action, "error", err)
	}

	if s.publisher == nil {
		return
	}

	evt.Invalidated = make([]string, len(cols))
	for i, c := range cols {
		evt.Invalidated[i] = string(c)
	}
	if cred, ok := s.client.Session().Credential(); ok {
		evt.Actor = cred.Username
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot encode action event", "action", action, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
		s.logger.Error("cannot publish action event", "action", action, "error", err)
	}
}

func (s *Store) newEvent(action Action, entityID, tableID, status string) event.ActionEvent {
	evt := event.NewActionEvent(string(action), s.now())
	evt.EntityID = entityID
	evt.TableID = tableID
	evt.Status = status
	return evt
}

// Watch refreshes each collection on its own interval until ctx is done.
// Collections with a zero or missing interval are not polled.
func (s *Store) Watch(ctx context.Context, intervals map[Collection]time.Duration, onRefresh func(Collection, error)) {
	var wg sync.WaitGroup
	for _, c := range Collections {
		every := intervals[c]
		r := s.cache(c)
		if every <= 0 || r == nil {
			continue
		}

		wg.Add(1)
		go func(c Collection, r refresher, every time.Duration) {
			defer wg.Done()
			ticker := time.NewTicker(every)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					err := r.Refresh(ctx)
					if ctx.Err() != nil {
						return
					}
					if onRefresh != nil {
						onRefresh(c, err)
					}
				}
			}
		}(c, r, every)
	}
	wg.Wait()
}
