package console

import (
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/event"
)

// Settings holds the console configuration resolved from aqm.Config.
type Settings struct {
	APIURL        string
	APITimeout    time.Duration
	Poll          map[cache.Collection]time.Duration
	SessionName   string
	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string
	NATSTopic     string
}

func LoadSettings(config *aqm.Config, logger aqm.Logger) Settings {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	s := Settings{
		APIURL:        stringOr(config, "api.url", api.DefaultBaseURL),
		APITimeout:    durationOr(config, logger, "api.timeout", 10*time.Second),
		Poll:          make(map[cache.Collection]time.Duration, len(cache.DefaultPoll)),
		SessionName:   stringOr(config, "auth.session.name", "frontdesk_session"),
		SessionSecret: stringOr(config, "auth.session.secret", ""),
		SessionTTL:    durationOr(config, logger, "auth.session.ttl", 12*time.Hour),
		NATSTopic:     stringOr(config, "nats.topic", event.ActionsTopic),
	}

	for c, def := range cache.DefaultPoll {
		s.Poll[c] = durationOr(config, logger, "poll."+string(c), def)
	}

	if origins := stringOr(config, "cors.origins", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.CORSOrigins = append(s.CORSOrigins, o)
			}
		}
	}

	return s
}

// PollSeconds is the fragment re-poll interval for c; zero disables polling.
func (s Settings) PollSeconds(c cache.Collection) int {
	return int(s.Poll[c] / time.Second)
}

func stringOr(config *aqm.Config, key, def string) string {
	if config == nil {
		return def
	}
	if v, ok := config.GetString(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func durationOr(config *aqm.Config, logger aqm.Logger, key string, def time.Duration) time.Duration {
	raw := stringOr(config, key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		logger.Info("invalid duration, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}
