// Package client is the operator-side half of the system: durable session
// state, navigation guards mirroring the server's role checks, and an HTTP
// client that attaches the session's bearer token to every request.
package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"vlabgallery/internal/auth"
)

// Session holds the current token and role, in memory and mirrored to a JSON
// file so a new process starts where the last one left off. It is an explicit
// object handed to whoever needs it; there is no package-level state.
type Session struct {
	path string

	mu    sync.Mutex
	token string
	role  auth.Role
}

type sessionFile struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// DefaultSessionPath places the session file under the user config dir.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "galleryctl", "session.json"), nil
}

// NewSession loads the session at path. A missing or corrupt file, or a file
// carrying an unknown role, yields a logged-out session; no token validation
// happens here — an expired token is discovered when the server rejects it.
func NewSession(path string) *Session {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var stored sessionFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return s
	}
	role, err := auth.ParseRole(stored.Role)
	if err != nil || stored.Token == "" {
		return s
	}

	s.token = stored.Token
	s.role = role
	return s
}

// Login stores the token and role in memory and on disk.
func (s *Session) Login(token string, role auth.Role) error {
	s.mu.Lock()
	s.token = token
	s.role = role
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sessionFile{Token: token, Role: role.String()})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Logout clears both the in-memory state and the stored file.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.role = ""
	s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the current token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Role returns the current role and whether a session is active.
func (s *Session) Role() (auth.Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role, s.token != ""
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}
