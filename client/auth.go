package client

import (
	"context"
	"net/http"
	"sync"
)

// Identity is the signed-in account as reported by the auth endpoints.
type Identity struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token"`
}

// AuthStore holds the session token and identity and hands the token
// to the other stores. Mirrors the browser auth store.
type AuthStore struct {
	api    *Client
	notify *NotificationStore

	mu    sync.Mutex
	user  *Identity
	token string
}

func NewAuthStore(api *Client, notify *NotificationStore) *AuthStore {
	return &AuthStore{api: api, notify: notify}
}

func (s *AuthStore) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "/api/auth/login", username, password, "Welcome back, ")
}

func (s *AuthStore) Register(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "/api/auth/register", username, password, "Account created! Welcome, ")
}

func (s *AuthStore) authenticate(ctx context.Context, path, username, password, greeting string) error {
	body := map[string]string{"username": username, "password": password}

	var identity Identity
	if err := s.api.do(ctx, http.MethodPost, path, nil, "", body, &identity); err != nil {
		s.notify.Show("Login failed: invalid username or password", LevelError)
		return err
	}

	s.mu.Lock()
	s.user = &identity
	s.token = identity.Token
	s.mu.Unlock()

	s.notify.Show(greeting+identity.Username+"!", LevelInfo)
	return nil
}

// Logout revokes the token server-side and drops local state either
// way; a dead session should never survive a failed revoke.
func (s *AuthStore) Logout(ctx context.Context) {
	token := s.Token()
	if token != "" {
		_ = s.api.do(ctx, http.MethodPost, "/api/auth/logout", nil, token, nil, nil)
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

func (s *AuthStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *AuthStore) IsLoggedIn() bool {
	return s.Token() != ""
}

func (s *AuthStore) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// CurrentUser returns a copy of the signed-in identity, or nil.
func (s *AuthStore) CurrentUser() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}
