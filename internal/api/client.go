// Package api is the terminal's HTTP consumer of the order/auth backend.
// Every unauthorized response broadcasts the process-wide auth-expired
// signal; error bodies are surfaced to the caller as human-readable
// strings with generic fallbacks.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/auth"
	"github.com/spec-kit/pos-terminal/internal/config"
	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/observability"
)

// ErrUnauthorized marks a call rejected for an expired or invalid token.
// The auth-expired signal has already been published when it is returned.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to the backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient builds a client for the configured backend.
func NewClient(cfg config.ClientConfig, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    strings.TrimRight(cfg.BackendURL, "/"),
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Login exchanges credentials for a bearer token. Backend error bodies are
// surfaced verbatim.
func (c *Client) Login(ctx context.Context, userID, password string) (string, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		UserID:   userID,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", errors.New(errorMessage(body, "login failed"))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("login response missing token")
	}
	return resp.Token, nil
}

// FetchProfile resolves a user profile by id, folding the alternate field
// names the backend may answer with.
func (c *Client) FetchProfile(ctx context.Context, token, id string) (identity.Profile, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/users/"+id, token, nil)
	if err != nil {
		return identity.Profile{}, err
	}
	if status == http.StatusUnauthorized {
		c.expire(ctx)
		return identity.Profile{}, ErrUnauthorized
	}
	if status < 200 || status >= 300 {
		return identity.Profile{}, errors.New(errorMessage(body, "could not load user profile"))
	}

	var payload profilePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return identity.Profile{}, fmt.Errorf("decode profile response: %w", err)
	}
	return payload.fold(), nil
}

// CreateOrder submits an order and returns the confirmation used for the
// success toast.
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (OrderConfirmation, error) {
	// A token provably past its exp claim cannot succeed; short-circuit
	// the round trip and broadcast expiry right away.
	if expired, err := auth.TokenExpired(token); err == nil && expired {
		c.expire(ctx)
		return OrderConfirmation{}, ErrUnauthorized
	}

	status, body, err := c.do(ctx, http.MethodPost, "/orders", token, req)
	if err != nil {
		return OrderConfirmation{}, err
	}
	if status == http.StatusUnauthorized {
		c.expire(ctx)
		return OrderConfirmation{}, ErrUnauthorized
	}
	if status < 200 || status >= 300 {
		return OrderConfirmation{}, errors.New(errorMessage(body, "could not create the order"))
	}

	var confirmation OrderConfirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return OrderConfirmation{}, fmt.Errorf("decode order response: %w", err)
	}
	return confirmation, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed", zap.String("path", path), zap.Error(err))
		return 0, nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	c.metrics.RecordRequest(path, method, resp.StatusCode, time.Since(start))
	return resp.StatusCode, body, nil
}

// expire broadcasts the process-wide auth-expired signal.
func (c *Client) expire(ctx context.Context) {
	if c.dispatcher == nil {
		return
	}
	_ = c.dispatcher.Publish(ctx, events.New(events.EventAuthExpired, nil))
}

// errorMessage resolves an error body to a human-readable string. It
// accepts a top-level message, the backend's nested error envelope, or
// plain text, and falls back to a generic string when the backend gives
// none.
func errorMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return fallback
}
