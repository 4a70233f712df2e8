package api

import (
	"encoding/base64"
	"strings"
	"sync"
)

// Credential is the value established at login and attached to every
// protected call. It is safe to persist and hand back to Restore.
type Credential struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Header returns the Authorization header value.
func (c Credential) Header() string {
	return "Basic " + c.Token
}

func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Session holds the credential of one signed-in operator. A Client reads
// it on every protected call, so Logout takes effect immediately.
type Session struct {
	mu   sync.RWMutex
	cred Credential
}

func NewSession() *Session {
	return &Session{}
}

// Login builds a Basic credential from username and password and makes it
// the session's current credential.
func (s *Session) Login(username, password string) (Credential, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Credential{}, Errorf("login", ErrValidation, "username and password are required")
	}
	if strings.Contains(username, ":") {
		return Credential{}, Errorf("login", ErrValidation, "username must not contain a colon")
	}

	cred := Credential{
		Username: username,
		Token:    base64.StdEncoding.EncodeToString([]byte(username + ":" + password)),
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	return cred, nil
}

// Restore reinstates a credential persisted from an earlier Login.
func (s *Session) Restore(cred Credential) error {
	if cred.IsZero() {
		return Errorf("restore", ErrValidation, "empty credential")
	}
	if _, err := base64.StdEncoding.DecodeString(cred.Token); err != nil {
		return Errorf("restore", ErrValidation, "malformed credential")
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.cred = Credential{}
	s.mu.Unlock()
}

func (s *Session) Credential() (Credential, bool) {
	if s == nil {
		return Credential{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, !s.cred.IsZero()
}
