package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg"
	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/event"
)

// Workspace is a signed-in Store plus whatever it opened to publish events.
type Workspace struct {
	Store     *cache.Store
	publisher *pkg.NATSPublisher
}

func (w *Workspace) Close() {
	if w.publisher != nil {
		_ = w.publisher.Close()
	}
	w.Store.Client().Session().Logout()
}

// Connect signs in with api.username/api.password and returns an empty Store.
// When nats.url is set, actions taken through the Store are published.
func Connect(ctx context.Context, config *aqm.Config, logger aqm.Logger) (*Workspace, error) {
	apiURL := stringOr(config, "api.url", api.DefaultBaseURL)
	username := stringOr(config, "api.username", "")
	password := stringOr(config, "api.password", "")

	session := api.NewSession()
	if _, err := session.Login(username, password); err != nil {
		return nil, fmt.Errorf("cannot sign in (set UTILS_API_USERNAME and UTILS_API_PASSWORD): %w", err)
	}

	timeout := 10 * time.Second
	if raw := stringOr(config, "api.timeout", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	client := api.NewClient(apiURL, session, api.WithTimeout(timeout), api.WithLogger(logger))

	ws := &Workspace{}
	var opts []cache.StoreOption
	if natsURL := stringOr(config, "nats.url", ""); natsURL != "" {
		publisher, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			logger.Error("cannot connect to NATS, actions will not be published", "error", err)
		} else {
			ws.publisher = publisher
			opts = append(opts, cache.WithPublisher(publisher, stringOr(config, "nats.topic", event.ActionsTopic)))
		}
	}

	ws.Store = cache.NewStore(client, logger, opts...)
	return ws, nil
}

func stringOr(config *aqm.Config, key, def string) string {
	if config == nil {
		return def
	}
	if v, ok := config.GetString(key); ok && v != "" {
		return v
	}
	return def
}
