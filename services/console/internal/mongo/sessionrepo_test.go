package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/frontdesk/services/console/internal/console"
)

func TestOptionsFromDefaults(t *testing.T) {
	got := OptionsFrom(nil)
	want := Options{URL: "mongodb://localhost:27017", Database: "frontdesk_console", Timeout: 10 * time.Second}
	if got != want {
		t.Errorf("OptionsFrom(nil) = %+v, want %+v", got, want)
	}
}

func TestSessionRepoBeforeStart(t *testing.T) {
	repo := NewSessionRepo(OptionsFrom(nil), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "save", call: func() error { return repo.Save(ctx, &console.Session{ID: "s1"}) }},
		{name: "get", call: func() error { _, err := repo.Get(ctx, "s1"); return err }},
		{name: "delete", call: func() error { return repo.Delete(ctx, "s1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, errNotStarted) {
				t.Errorf("error = %v, want %v", err, errNotStarted)
			}
		})
	}

	if err := repo.Stop(ctx); err != nil {
		t.Errorf("Stop() before Start error = %v", err)
	}
}
