package console

import (
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/cache"
	"github.com/appetiteclub/frontdesk/pkg/event"
)

func TestLoadSettingsDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config *aqm.Config
	}{
		{name: "nilConfig", config: nil},
		{name: "emptyConfig", config: aqm.NewConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := LoadSettings(tt.config, nil)

			if s.APIURL != api.DefaultBaseURL {
				t.Errorf("APIURL = %q, want %q", s.APIURL, api.DefaultBaseURL)
			}
			if s.APITimeout != 10*time.Second {
				t.Errorf("APITimeout = %v, want 10s", s.APITimeout)
			}
			if s.SessionName != "frontdesk_session" {
				t.Errorf("SessionName = %q, want frontdesk_session", s.SessionName)
			}
			if s.SessionSecret != "" {
				t.Errorf("SessionSecret = %q, want empty", s.SessionSecret)
			}
			if s.SessionTTL != 12*time.Hour {
				t.Errorf("SessionTTL = %v, want 12h", s.SessionTTL)
			}
			if s.NATSTopic != event.ActionsTopic {
				t.Errorf("NATSTopic = %q, want %q", s.NATSTopic, event.ActionsTopic)
			}
			if len(s.CORSOrigins) != 0 {
				t.Errorf("CORSOrigins = %v, want none", s.CORSOrigins)
			}
			for c, want := range cache.DefaultPoll {
				if got := s.Poll[c]; got != want {
					t.Errorf("Poll[%s] = %v, want %v", c, got, want)
				}
			}
		})
	}
}

func TestSettingsPollSeconds(t *testing.T) {
	s := Settings{Poll: map[cache.Collection]time.Duration{
		cache.Tables: 10 * time.Second,
		cache.Orders: 1500 * time.Millisecond,
	}}

	tests := []struct {
		name       string
		collection cache.Collection
		want       int
	}{
		{name: "wholeSeconds", collection: cache.Tables, want: 10},
		{name: "truncatesFraction", collection: cache.Orders, want: 1},
		{name: "unsetDisablesPolling", collection: cache.Menu, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.PollSeconds(tt.collection); got != tt.want {
				t.Errorf("PollSeconds(%s) = %d, want %d", tt.collection, got, tt.want)
			}
		})
	}
}

func TestHandlerFreshnessFallsBackWhenPollingIsOff(t *testing.T) {
	h := &Handler{settings: Settings{Poll: map[cache.Collection]time.Duration{
		cache.Tables: 10 * time.Second,
		cache.Menu:   0,
	}}}

	if got := h.freshness(cache.Tables); got != 10*time.Second {
		t.Errorf("freshness(tables) = %v, want 10s", got)
	}
	if got := h.freshness(cache.Menu); got != time.Minute {
		t.Errorf("freshness(menu) = %v, want 1m", got)
	}
}
