package api

import (
	"errors"
	"testing"
)

func TestSessionLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid", username: "admin", password: "admin123", wantErr: false},
		{name: "emptyUsername", username: "  ", password: "admin123", wantErr: true},
		{name: "emptyPassword", username: "admin", password: "", wantErr: true},
		{name: "colonInUsername", username: "ad:min", password: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			cred, err := s.Login(tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Login() error = %v, want ErrValidation", err)
				}
				if _, ok := s.Credential(); ok {
					t.Error("Credential() ok = true after failed login")
				}
				return
			}
			if got := cred.Header(); got != "Basic YWRtaW46YWRtaW4xMjM=" {
				t.Errorf("Header() = %q, want Basic YWRtaW46YWRtaW4xMjM=", got)
			}
		})
	}
}

func TestSessionRestoreAndLogout(t *testing.T) {
	s := NewSession()
	cred := Credential{Username: "admin", Token: "YWRtaW46YWRtaW4xMjM="}

	if err := s.Restore(cred); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	got, ok := s.Credential()
	if !ok || got != cred {
		t.Errorf("Credential() = %v, %v, want %v, true", got, ok, cred)
	}

	s.Logout()
	if _, ok := s.Credential(); ok {
		t.Error("Credential() ok = true after Logout()")
	}

	if err := s.Restore(Credential{}); !errors.Is(err, ErrValidation) {
		t.Errorf("Restore(empty) error = %v, want ErrValidation", err)
	}
	if err := s.Restore(Credential{Token: "%%%"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Restore(malformed) error = %v, want ErrValidation", err)
	}
}

func TestNilSessionHasNoCredential(t *testing.T) {
	var s *Session
	if _, ok := s.Credential(); ok {
		t.Error("nil Session Credential() ok = true")
	}
}
