// Package httpx provides the authenticated JSON client for the backend API.
//
// Every call attaches the bearer token, drives the global loading bus, and
// converts failures into apierr values. Callers decode the success envelope
// into their own response structs.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinova/vedika-workbench/internal/shared/apierr"
	"github.com/clinova/vedika-workbench/internal/shared/loading"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
	"github.com/clinova/vedika-workbench/internal/shared/metrics"
)

// TokenSource supplies the current access token; an empty string means
// the request goes out unauthenticated (login, refresh).
type TokenSource interface {
	AccessToken() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) AccessToken() string { return f() }

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// ShowLoading drives the loading bus for every request unless a call
	// opts out with WithoutLoading.
	ShowLoading bool
}

// Client is the HTTP client wrapper shared by all service clients.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenSource
	bus         *loading.Bus
	log         *logger.Logger
	showLoading bool

	mu             sync.RWMutex
	onUnauthorized func()
}

func New(cfg Config, tokens TokenSource, bus *loading.Bus, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		tokens:      tokens,
		bus:         bus,
		log:         log,
		showLoading: cfg.ShowLoading,
	}
}

// SetUnauthorizedHandler registers the hook invoked whenever any call
// returns 401. The auth layer uses it to clear credentials.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Option adjusts a single request.
type Option func(*requestOptions)

type requestOptions struct {
	showLoading bool
}

// WithoutLoading keeps this request off the global loading bus. Background
// fetches that render their own skeletons (dashboard, index list) use it.
func WithoutLoading() Option {
	return func(o *requestOptions) { o.showLoading = false }
}

// errorEnvelope is the failure shape every endpoint shares.
type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Get issues a GET with optional query parameters and decodes into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, opts...)
}

// Post issues a POST with a JSON body and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out, opts...)
}

// Put issues a PUT with a JSON body and decodes into out.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out, opts...)
}

// Patch issues a PATCH with a JSON body and decodes into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out, opts...)
}

// Delete issues a DELETE with optional query parameters and decodes into out.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, out, opts...)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, opts ...Option) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType, out, opts...)
}

// Upload sends multipart form data: the given form fields plus one file
// part named "file". The backend's document endpoints expect the document
// category in the "kode" field.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, filename string, file io.Reader, out any, opts ...Option) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any, opts ...Option) error {
	options := requestOptions{showLoading: c.showLoading}
	for _, opt := range opts {
		opt(&options)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if options.showLoading {
		release := c.bus.Acquire()
		defer release()
	}
	inFlightDone := metrics.RequestStarted()
	defer inFlightDone()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithRequestID(requestID).WithError(err).Debug("request failed")
		return apierr.Transport(err)
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(method, metricPath(path), resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Decode(err, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized()
	}

	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
			return apierr.FromEnvelope("", http.StatusText(resp.StatusCode), resp.StatusCode)
		}
		return apierr.FromEnvelope(envelope.Error.Code, envelope.Error.Message, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apierr.Decode(err, resp.StatusCode)
		}
	}

	return nil
}

func (c *Client) notifyUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// metricPath collapses per-episode path segments so the metric label set
// stays bounded. Episode keys contain '/' and are always URL-escaped, so
// any escaped segment is replaced wholesale.
func metricPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.Contains(s, "%") || isNumeric(s) {
			segments[i] = ":key"
		}
	}
	normalized := strings.Join(segments, "/")
	if len(normalized) > 100 {
		return normalized[:100]
	}
	return normalized
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
