package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/clinova/vedika-workbench/internal/httpx"
	"github.com/clinova/vedika-workbench/internal/shared/loading"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
)

// fakeBackend is a minimal auth API used by the session tests.
type fakeBackend struct {
	router       *chi.Mux
	requestCount atomic.Int64

	validTokens  map[string]bool
	refreshToken string
	user         User
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		validTokens:  map[string]bool{},
		refreshToken: "refresh-1",
		user: User{
			ID:          "u-1",
			Username:    "verifikator",
			Name:        "Dewi Lestari",
			Roles:       []string{"vedika_verifier"},
			Permissions: []string{"vedika.claim.read", "vedika.claim.update_status"},
		},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.requestCount.Add(1)
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "correct" {
			writeError(w, http.StatusUnauthorized, "INVALID_PARAMS", "wrong username or password")
			return
		}
		b.validTokens["access-1"] = true
		writeData(w, map[string]any{
			"access_token":  "access-1",
			"refresh_token": b.refreshToken,
			"user":          b.user,
		})
	})

	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		if !b.validTokens[bearer(req)] {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "token expired")
			return
		}
		writeData(w, b.user)
	})

	r.Post("/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		if body.RefreshToken != b.refreshToken {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "refresh token invalid")
			return
		}
		b.validTokens["access-2"] = true
		writeData(w, map[string]any{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
		})
	})

	r.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if !b.validTokens[bearer(req)] {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "token expired")
			return
		}
		writeData(w, nil)
	})

	b.router = r
	return b
}

func bearer(req *http.Request) string {
	const prefix = "Bearer "
	h := req.Header.Get("Authorization")
	if len(h) > len(prefix) {
		return h[len(prefix):]
	}
	return ""
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func newTestSession(t *testing.T, backend *fakeBackend, cfg Config) (*Session, *Vault) {
	t.Helper()
	server := httptest.NewServer(backend.router)
	t.Cleanup(server.Close)

	vault := NewVault(filepath.Join(t.TempDir(), "session.json"))

	var session *Session
	client := httpx.New(httpx.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, httpx.TokenSourceFunc(func() string {
		if session == nil {
			return ""
		}
		return session.AccessToken()
	}), loading.NewBus(), logger.Nop())

	session = NewSession(client, vault, cfg, logger.Nop())
	client.SetUnauthorizedHandler(session.HandleUnauthorized)
	return session, vault
}

func TestBootstrapWithoutTokenSkipsNetwork(t *testing.T) {
	backend := newFakeBackend()
	session, _ := newTestSession(t, backend, Config{})

	if err := session.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := session.State(); got != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", got)
	}
	if n := backend.requestCount.Load(); n != 0 {
		t.Errorf("bootstrap made %d requests with empty vault, want 0", n)
	}
}

func TestBootstrapValidTokenAuthenticates(t *testing.T) {
	backend := newFakeBackend()
	backend.validTokens["access-1"] = true
	session, vault := newTestSession(t, backend, Config{})

	if err := vault.Save(Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}); err != nil {
		t.Fatal(err)
	}
	if err := session.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := session.State(); got != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", got)
	}
	if user := session.CurrentUser(); user == nil || user.Username != "verifikator" {
		t.Errorf("user = %+v, want profile from /auth/me", user)
	}
}

func TestBootstrapStaleTokenRefreshesOnce(t *testing.T) {
	backend := newFakeBackend()
	session, vault := newTestSession(t, backend, Config{})

	// Stored access token is no longer valid; the refresh token still is.
	if err := vault.Save(Credentials{AccessToken: "stale", RefreshToken: "refresh-1"}); err != nil {
		t.Fatal(err)
	}
	if err := session.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := session.State(); got != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated after refresh", got)
	}
	if got := session.AccessToken(); got != "access-2" {
		t.Errorf("access token = %q, want refreshed token", got)
	}

	creds, err := vault.Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.RefreshToken != "refresh-2" {
		t.Errorf("persisted refresh token = %q, want rotated token", creds.RefreshToken)
	}
}

func TestBootstrapRefreshFailureClearsVault(t *testing.T) {
	backend := newFakeBackend()
	session, vault := newTestSession(t, backend, Config{})

	if err := vault.Save(Credentials{AccessToken: "stale", RefreshToken: "also-stale"}); err != nil {
		t.Fatal(err)
	}
	if err := session.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap should swallow auth rejection, got %v", err)
	}
	if got := session.State(); got != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", got)
	}

	creds, err := vault.Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessToken != "" {
		t.Error("vault still holds credentials after rejected bootstrap")
	}
}

func TestLoginPersistsCredentials(t *testing.T) {
	backend := newFakeBackend()
	session, vault := newTestSession(t, backend, Config{})

	if err := session.Login(context.Background(), "verifikator", "correct"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := session.State(); got != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", got)
	}
	if !session.Can("vedika.claim.update_status") {
		t.Error("Can should see the logged-in user's permissions")
	}
	if !session.HasRole("vedika_verifier") {
		t.Error("HasRole should see the logged-in user's roles")
	}

	creds, err := vault.Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessToken != "access-1" || creds.User == nil {
		t.Errorf("vault holds %+v, want token and user", creds)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(vault.path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("vault permissions = %o, want 600", perm)
		}
	}
}

func TestLoginRateLimitIsLocal(t *testing.T) {
	backend := newFakeBackend()
	session, _ := newTestSession(t, backend, Config{
		LoginBurst:    2,
		LoginInterval: time.Hour,
	})

	ctx := context.Background()
	session.Login(ctx, "verifikator", "wrong")
	session.Login(ctx, "verifikator", "wrong")

	before := backend.requestCount.Load()
	err := session.Login(ctx, "verifikator", "correct")
	if !errors.Is(err, ErrLoginThrottled) {
		t.Fatalf("third login error = %v, want ErrLoginThrottled", err)
	}
	if backend.requestCount.Load() != before {
		t.Error("throttled login still reached the backend")
	}
}

func TestForcedLogoutOn401(t *testing.T) {
	backend := newFakeBackend()
	session, vault := newTestSession(t, backend, Config{})

	if err := session.Login(context.Background(), "verifikator", "correct"); err != nil {
		t.Fatal(err)
	}

	var states []State
	session.Subscribe(func(s State) { states = append(states, s) })

	// The backend stops accepting the token; any call should force logout.
	delete(backend.validTokens, "access-1")
	if _, err := session.fetchMe(context.Background()); err == nil {
		t.Fatal("expected error from rejected call")
	}

	if got := session.State(); got != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated after 401", got)
	}
	if len(states) != 1 || states[0] != StateUnauthenticated {
		t.Errorf("observer saw %v, want single unauthenticated transition", states)
	}

	creds, err := vault.Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessToken != "" {
		t.Error("vault not cleared after forced logout")
	}
}

func TestLogoutClearsEvenWhenRevokeFails(t *testing.T) {
	backend := newFakeBackend()
	session, vault := newTestSession(t, backend, Config{})

	if err := session.Login(context.Background(), "verifikator", "correct"); err != nil {
		t.Fatal(err)
	}

	// Invalidate the token so the revoke call comes back 401.
	delete(backend.validTokens, "access-1")
	if err := session.Logout(context.Background()); err != nil {
		t.Fatalf("Logout should swallow auth rejection, got %v", err)
	}
	if got := session.State(); got != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", got)
	}
	creds, _ := vault.Load()
	if creds.AccessToken != "" {
		t.Error("vault not cleared on logout")
	}
}

func TestNeedsRefresh(t *testing.T) {
	session := NewSession(nil, NewVault(filepath.Join(t.TempDir(), "s.json")), Config{
		RefreshLeeway: time.Minute,
	}, logger.Nop())

	now := time.Now()
	signed := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		})
		s, err := token.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"no token", "", false},
		{"expires soon", signed(now.Add(30 * time.Second)), true},
		{"already expired", signed(now.Add(-time.Minute)), true},
		{"plenty of time", signed(now.Add(time.Hour)), false},
		{"not a jwt", "opaque-token", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session.mu.Lock()
			session.accessToken = tt.token
			session.mu.Unlock()
			if got := session.NeedsRefresh(now); got != tt.want {
				t.Errorf("NeedsRefresh = %v, want %v", got, tt.want)
			}
		})
	}
}
