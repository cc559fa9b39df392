package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/shared/loading"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
)

type staticTokens struct{ token string }

func (s staticTokens) AccessToken() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *loading.Bus) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	bus := loading.NewBus()
	client := New(Config{
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		ShowLoading: true,
	}, staticTokens{token: token}, bus, logger.Nop())
	return client, bus
}

func TestGetDecodesEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/admin/vedika/dashboard", func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if req.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"total":42}}`))
	})

	client, _ := newTestClient(t, r, "tok-123")

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := client.Get(context.Background(), "/admin/vedika/dashboard", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !out.Success || out.Data.Total != 42 {
		t.Errorf("decoded %+v, want success with total 42", out)
	}
}

func TestQueryParamsAreEncoded(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/admin/vedika/index", func(w http.ResponseWriter, req *http.Request) {
		if got := req.URL.Query().Get("status"); got != "PENGAJUAN" {
			t.Errorf("status query = %q, want PENGAJUAN", got)
		}
		if got := req.URL.Query().Get("page"); got != "2" {
			t.Errorf("page query = %q, want 2", got)
		}
		w.Write([]byte(`{"success":true}`))
	})

	client, _ := newTestClient(t, r, "tok")

	query := url.Values{}
	query.Set("status", "PENGAJUAN")
	query.Set("page", "2")
	if err := client.Get(context.Background(), "/admin/vedika/index", query, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestErrorEnvelopeMapsToTypedError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/admin/vedika/claim/full/{key}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"claim not found"}}`))
	})

	client, _ := newTestClient(t, r, "tok")

	err := client.Get(context.Background(), "/admin/vedika/claim/full/2024%2F001", nil, nil)
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if msg := apierr.Message(err); msg != "claim not found" {
		t.Errorf("message = %q, want server message", msg)
	}
}

func TestUnauthorizedInvokesHandlerAndMapsError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"token expired"}}`))
	})

	client, _ := newTestClient(t, r, "stale")

	called := false
	client.SetUnauthorizedHandler(func() { called = true })

	err := client.Get(context.Background(), "/auth/me", nil, nil)
	if !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if !called {
		t.Error("unauthorized handler was not invoked")
	}
}

func TestMalformedErrorBodyFallsBackToStatusText(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/broken", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway error</html>`))
	})

	client, _ := newTestClient(t, r, "tok")

	err := client.Get(context.Background(), "/broken", nil, nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if msg := apierr.Message(err); msg != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("message = %q, want status text fallback", msg)
	}
}

func TestTransportErrorIsTyped(t *testing.T) {
	bus := loading.NewBus()
	client := New(Config{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 500 * time.Millisecond,
	}, staticTokens{}, bus, logger.Nop())

	err := client.Get(context.Background(), "/anything", nil, nil)
	if !errors.Is(err, apierr.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestLoadingBusTracksRequest(t *testing.T) {
	release := make(chan struct{})
	r := chi.NewRouter()
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		<-release
		w.Write([]byte(`{"success":true}`))
	})

	client, bus := newTestClient(t, r, "tok")

	sawLoading := make(chan bool, 4)
	bus.Subscribe(func(active bool) { sawLoading <- active })

	done := make(chan error, 1)
	go func() {
		done <- client.Get(context.Background(), "/slow", nil, nil)
	}()

	if got := <-sawLoading; !got {
		t.Fatal("first loading edge should be true")
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := <-sawLoading; got {
		t.Fatal("final loading edge should be false")
	}
	if bus.IsLoading() {
		t.Error("bus still loading after request completed")
	}
}

func TestWithoutLoadingSkipsBus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/quiet", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	client, bus := newTestClient(t, r, "tok")

	edges := 0
	bus.Subscribe(func(bool) { edges++ })

	if err := client.Get(context.Background(), "/quiet", nil, nil, WithoutLoading()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if edges != 0 {
		t.Errorf("loading bus saw %d edges, want 0", edges)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/admin/vedika/claim/{key}/documents", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := req.FormValue("kode"); got != "RESUME" {
			t.Errorf("kode field = %q, want RESUME", got)
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "resume.pdf" {
			t.Errorf("filename = %q, want resume.pdf", header.Filename)
		}
		w.Write([]byte(`{"success":true}`))
	})

	client, _ := newTestClient(t, r, "tok")

	err := client.Upload(
		context.Background(),
		"/admin/vedika/claim/2024%2F001/documents",
		map[string]string{"kode": "RESUME"},
		"resume.pdf",
		strings.NewReader("%PDF-1.4 fake"),
		nil,
	)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestMetricPathCollapsesKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/admin/vedika/claim/full/2024%2F000123", "/admin/vedika/claim/full/:key"},
		{"/admin/audit-logs/12345", "/admin/audit-logs/:key"},
		{"/admin/vedika/dashboard", "/admin/vedika/dashboard"},
	}
	for _, tt := range tests {
		if got := metricPath(tt.in); got != tt.want {
			t.Errorf("metricPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
