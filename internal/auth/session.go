// Package auth manages the authenticated session: credential storage,
// login/logout/refresh against the backend, and the session state machine
// the rest of the application observes.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/clinova/vedika-workbench/internal/httpx"
	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
	"github.com/clinova/vedika-workbench/internal/shared/metrics"
)

// State is the session lifecycle phase.
type State int

const (
	// StateUnauthenticated means no valid credentials are held.
	StateUnauthenticated State = iota
	// StateValidating means stored credentials are being checked at startup.
	StateValidating
	// StateAuthenticated means the backend has confirmed the credentials.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrLoginThrottled is returned when login attempts arrive faster than the
// local rate limit allows.
var ErrLoginThrottled = errors.New("too many login attempts, wait before retrying")

// User is the authenticated operator's profile.
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user holds the given permission.
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// RemoteSession is one active session as reported by the backend.
type RemoteSession struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	Current   bool      `json:"current"`
}

// Config holds session construction parameters.
type Config struct {
	// LoginBurst and LoginInterval bound local login attempts.
	LoginBurst    int
	LoginInterval time.Duration
	// RefreshLeeway is how long before token expiry NeedsRefresh turns true.
	RefreshLeeway time.Duration
}

// Session owns the credential lifecycle. It implements httpx.TokenSource
// so the HTTP client always sees the current access token.
type Session struct {
	client  *httpx.Client
	vault   *Vault
	log     *logger.Logger
	limiter *rate.Limiter
	leeway  time.Duration

	mu           sync.RWMutex
	state        State
	user         *User
	accessToken  string
	refreshToken string
	nextSubID    int
	subscribers  map[int]func(State)
}

func NewSession(client *httpx.Client, vault *Vault, cfg Config, log *logger.Logger) *Session {
	burst := cfg.LoginBurst
	if burst <= 0 {
		burst = 5
	}
	interval := cfg.LoginInterval
	if interval <= 0 {
		interval = 12 * time.Second
	}
	leeway := cfg.RefreshLeeway
	if leeway <= 0 {
		leeway = time.Minute
	}
	return &Session{
		client:      client,
		vault:       vault,
		log:         log,
		limiter:     rate.NewLimiter(rate.Every(interval), burst),
		leeway:      leeway,
		state:       StateUnauthenticated,
		subscribers: make(map[int]func(State)),
	}
}

// AccessToken returns the current access token, empty when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the authenticated user, nil when logged out.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Can reports whether the current user holds the given permission.
func (s *Session) Can(permission string) bool {
	return s.CurrentUser().HasPermission(permission)
}

// HasRole reports whether the current user holds the given role.
func (s *Session) HasRole(role string) bool {
	return s.CurrentUser().HasRole(role)
}

// Subscribe registers a state observer and returns its unsubscribe func.
// The observer is called synchronously on every state transition.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	observers := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	Success bool `json:"success"`
	Data    struct {
		tokenPair
		User *User `json:"user"`
	} `json:"data"`
}

type meResponse struct {
	Success bool  `json:"success"`
	Data    *User `json:"data"`
}

type refreshResponse struct {
	Success bool      `json:"success"`
	Data    tokenPair `json:"data"`
}

type sessionsResponse struct {
	Success bool            `json:"success"`
	Data    []RemoteSession `json:"data"`
}

// Bootstrap restores the session from the vault at startup. With no stored
// token it stays unauthenticated without touching the network. Otherwise
// it validates the token against /auth/me, falling back to a single
// refresh attempt; any auth failure clears the vault.
func (s *Session) Bootstrap(ctx context.Context) error {
	creds, err := s.vault.Load()
	if err != nil {
		return err
	}
	if creds.AccessToken == "" {
		s.setState(StateUnauthenticated)
		return nil
	}

	s.mu.Lock()
	s.accessToken = creds.AccessToken
	s.refreshToken = creds.RefreshToken
	s.user = creds.User
	s.mu.Unlock()
	s.setState(StateValidating)

	user, err := s.fetchMe(ctx)
	if err != nil && apierr.IsUnauthorized(err) && creds.RefreshToken != "" {
		if refreshErr := s.Refresh(ctx); refreshErr == nil {
			user, err = s.fetchMe(ctx)
		}
	}
	if err != nil {
		s.log.WithError(err).Info("stored session rejected, clearing vault")
		s.clearCredentials()
		s.setState(StateUnauthenticated)
		if apierr.IsUnauthorized(err) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.persist()
	s.setState(StateAuthenticated)
	return nil
}

// Login authenticates with username and password. Attempts are rate
// limited locally before any request is sent.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if !s.limiter.Allow() {
		metrics.RecordLogin("throttled")
		return ErrLoginThrottled
	}

	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		metrics.RecordLogin("failure")
		return err
	}

	s.mu.Lock()
	s.accessToken = resp.Data.AccessToken
	s.refreshToken = resp.Data.RefreshToken
	s.user = resp.Data.User
	s.mu.Unlock()

	s.persist()
	s.setState(StateAuthenticated)
	metrics.RecordLogin("success")
	s.log.WithField("username", username).Info("login succeeded")
	return nil
}

// Logout revokes the session server-side and clears local credentials.
// Local credentials are cleared even when the revoke call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Post(ctx, "/auth/logout", nil, nil)
	s.clearCredentials()
	s.setState(StateUnauthenticated)
	if err != nil && !apierr.IsUnauthorized(err) {
		return err
	}
	return nil
}

// Refresh exchanges the refresh token for a new token pair.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()
	if refreshToken == "" {
		return apierr.FromEnvelope(apierr.CodeInvalidToken, "no refresh token held", 401)
	}

	body := map[string]string{"refresh_token": refreshToken}
	var resp refreshResponse
	if err := s.client.Post(ctx, "/auth/refresh", body, &resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = resp.Data.AccessToken
	if resp.Data.RefreshToken != "" {
		s.refreshToken = resp.Data.RefreshToken
	}
	s.mu.Unlock()
	s.persist()
	return nil
}

// NeedsRefresh reports whether the access token expires within the
// configured leeway. The token is parsed without signature verification;
// only the backend can verify it, this just reads the expiry claim.
func (s *Session) NeedsRefresh(now time.Time) bool {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()
	if token == "" {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.Add(s.leeway).After(claims.ExpiresAt.Time)
}

// HandleUnauthorized is wired as the HTTP client's 401 hook. Any rejected
// call outside bootstrap forces a logout. During validation the bootstrap
// path owns recovery, so the hook stays quiet.
func (s *Session) HandleUnauthorized() {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state != StateAuthenticated {
		return
	}

	s.log.Warn("request rejected with 401, forcing logout")
	metrics.RecordForcedLogout()
	s.clearCredentials()
	s.setState(StateUnauthenticated)
}

// Sessions lists the user's active sessions across devices.
func (s *Session) Sessions(ctx context.Context) ([]RemoteSession, error) {
	var resp sessionsResponse
	if err := s.client.Get(ctx, "/auth/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RevokeSession terminates one of the user's other sessions.
func (s *Session) RevokeSession(ctx context.Context, id string) error {
	return s.client.Post(ctx, "/auth/sessions/"+id+"/revoke", nil, nil)
}

func (s *Session) fetchMe(ctx context.Context) (*User, error) {
	var resp meResponse
	if err := s.client.Get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *Session) persist() {
	s.mu.RLock()
	creds := Credentials{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		User:         s.user,
	}
	s.mu.RUnlock()

	if err := s.vault.Save(creds); err != nil {
		s.log.WithError(err).Warn("failed to persist session")
	}
}

func (s *Session) clearCredentials() {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.vault.Clear(); err != nil {
		s.log.WithError(err).Warn("failed to clear vault")
	}
}
