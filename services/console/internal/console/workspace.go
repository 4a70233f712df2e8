package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
)

// Workspaces keeps one live Store per signed-in session. A Store is rebuilt
// from the sealed credential when the process restarts or the entry is dropped.
// Entries whose session has expired are released by Sweep.
type Workspaces struct {
	mu        sync.Mutex
	stores    map[string]workspace
	now       func() time.Time
	settings  Settings
	sealer    *Sealer
	publisher cache.Publisher
	logger    aqm.Logger
}

func NewWorkspaces(settings Settings, sealer *Sealer, publisher cache.Publisher, logger aqm.Logger) *Workspaces {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Workspaces{
		stores:    make(map[string]workspace),
		now:       time.Now,
		settings:  settings,
		sealer:    sealer,
		publisher: publisher,
		logger:    logger,
	}
}

type workspace struct {
	store     *cache.Store
	expiresAt time.Time
}

// NewClient builds a Domain Client bound to session.
func (ws *Workspaces) NewClient(session *api.Session) *api.Client {
	return api.NewClient(ws.settings.APIURL, session,
		api.WithTimeout(ws.settings.APITimeout),
		api.WithLogger(ws.logger),
	)
}

// Seal encrypts the credential for storage in a Session record.
func (ws *Workspaces) Seal(cred api.Credential) ([]byte, error) {
	return ws.sealer.Seal([]byte(cred.Token))
}

// Open returns the Store of sess, creating it on first use.
func (ws *Workspaces) Open(sess *Session) (*cache.Store, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if entry, ok := ws.stores[sess.ID]; ok {
		entry.expiresAt = sess.ExpiresAt
		ws.stores[sess.ID] = entry
		return entry.store, nil
	}

	token, err := ws.sealer.Open(sess.Sealed)
	if err != nil {
		return nil, err
	}
	apiSession := api.NewSession()
	if err := apiSession.Restore(api.Credential{Username: sess.Username, Token: string(token)}); err != nil {
		return nil, fmt.Errorf("cannot restore session %s: %w", sess.ID, err)
	}

	store := cache.NewStore(ws.NewClient(apiSession), ws.logger.With("session", sess.ID), ws.storeOptions()...)
	ws.stores[sess.ID] = workspace{store: store, expiresAt: sess.ExpiresAt}
	return store, nil
}

// Adopt registers a Store created during sign-in for a session ending at expiresAt.
func (ws *Workspaces) Adopt(id string, session *api.Session, expiresAt time.Time) *cache.Store {
	store := cache.NewStore(ws.NewClient(session), ws.logger.With("session", id), ws.storeOptions()...)

	ws.mu.Lock()
	ws.stores[id] = workspace{store: store, expiresAt: expiresAt}
	ws.mu.Unlock()
	return store
}

// Drop forgets the Store of id and clears its credential.
func (ws *Workspaces) Drop(id string) {
	ws.mu.Lock()
	entry, ok := ws.stores[id]
	delete(ws.stores, id)
	ws.mu.Unlock()

	if ok {
		entry.store.Client().Session().Logout()
	}
}

// Sweep drops the Stores of expired sessions and reports how many were released.
func (ws *Workspaces) Sweep() int {
	now := ws.now()

	ws.mu.Lock()
	var expired []*cache.Store
	for id, entry := range ws.stores {
		if !now.Before(entry.expiresAt) {
			expired = append(expired, entry.store)
			delete(ws.stores, id)
		}
	}
	ws.mu.Unlock()

	for _, store := range expired {
		store.Client().Session().Logout()
	}
	if len(expired) > 0 {
		ws.logger.Debug("released expired workspaces", "count", len(expired))
	}
	return len(expired)
}

// StartSweep runs Sweep every interval until ctx is done.
func (ws *Workspaces) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ws.Sweep()
			}
		}
	}()
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.stores)
}

func (ws *Workspaces) storeOptions() []cache.StoreOption {
	if ws.publisher == nil {
		return nil
	}
	return []cache.StoreOption{cache.WithPublisher(ws.publisher, ws.settings.NATSTopic)}
}
