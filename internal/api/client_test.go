package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/config"
	"github.com/spec-kit/pos-terminal/internal/events"
	"github.com/spec-kit/pos-terminal/internal/identity"
	"github.com/spec-kit/pos-terminal/internal/observability"
)

type clientFixture struct {
	client  *Client
	expired *int
}

func newClientFixture(t *testing.T, handler http.Handler) *clientFixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dispatcher := events.NewInMemoryDispatcher()
	expired := 0
	dispatcher.Subscribe(events.EventAuthExpired, func(_ context.Context, _ events.Event) error {
		expired++
		return nil
	})

	cfg := config.ClientConfig{BackendURL: server.URL, RequestTimeoutSeconds: 5}
	return &clientFixture{
		client:  NewClient(cfg, dispatcher, observability.NewMetrics(), zap.NewNop()),
		expired: &expired,
	}
}

func TestLoginReturnsToken(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req.UserID)
		assert.Equal(t, "hunter2", req.Password)

		json.NewEncoder(w).Encode(map[string]string{"Token": "tok-1"})
	}))

	token, err := f.client.Login(context.Background(), "42", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Zero(t, *f.expired)
}

func TestLoginSurfacesBackendMessageVerbatim(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	_, err := f.client.Login(context.Background(), "42", "wrong")
	require.EqualError(t, err, "invalid credentials")
	assert.Zero(t, *f.expired, "login failures never broadcast auth expiry")
}

func TestLoginSurfacesNestedEnvelopeAndPlainText(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]map[string]string{"error": {"message": "userId is required"}})
	}))
	_, err := f.client.Login(context.Background(), "", "")
	require.EqualError(t, err, "userId is required")

	f = newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream gone"))
	}))
	_, err = f.client.Login(context.Background(), "42", "pw")
	require.EqualError(t, err, "upstream gone")
}

func TestLoginFallsBackToGenericMessage(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := f.client.Login(context.Background(), "42", "pw")
	require.EqualError(t, err, "login failed")
}

func TestFetchProfileFoldsAlternateFields(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/42", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"userId":   "42",
			"username": "Ana",
			"role":     "SUPPLIER",
		})
	}))

	profile, err := f.client.FetchProfile(context.Background(), "tok-1", "42")
	require.NoError(t, err)
	assert.Equal(t, identity.Profile{ID: "42", Name: "Ana", Type: "SUPPLIER"}, profile)
}

func TestFetchProfilePrefersPrimaryFields(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "42",
			"userId":   "shadow",
			"name":     "Ana",
			"username": "shadow",
			"type":     "supplier",
			"role":     "shadow",
		})
	}))

	profile, err := f.client.FetchProfile(context.Background(), "tok-1", "42")
	require.NoError(t, err)
	assert.Equal(t, identity.Profile{ID: "42", Name: "Ana", Type: "supplier"}, profile)
}

func TestFetchProfileUnauthorizedBroadcastsExpiry(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := f.client.FetchProfile(context.Background(), "stale", "42")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, *f.expired)
}

func TestCreateOrderReturnsConfirmation(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12", req.Table)
		require.Len(t, req.Components, 2)

		json.NewEncoder(w).Encode(OrderConfirmation{ID: "ord-9", Price: 19.00})
	}))

	confirmation, err := f.client.CreateOrder(context.Background(), "tok-1", OrderRequest{
		Table: "12",
		Components: []OrderComponent{
			{ID: "hamburger", Type: ComponentProduct},
			{ID: "hamburger-drink", Type: ComponentCombo},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-9", confirmation.ID)
	assert.Equal(t, 19.00, confirmation.Price)
}

func TestCreateOrderSurfacesFailureMessage(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]map[string]string{"error": {"message": "table is required"}})
	}))

	_, err := f.client.CreateOrder(context.Background(), "tok-1", OrderRequest{})
	require.EqualError(t, err, "table is required")
	assert.Zero(t, *f.expired)
}

func TestCreateOrderFallsBackToGenericMessage(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := f.client.CreateOrder(context.Background(), "tok-1", OrderRequest{Table: "12"})
	require.EqualError(t, err, "could not create the order")
}

func TestCreateOrderUnauthorizedBroadcastsExpiry(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := f.client.CreateOrder(context.Background(), "opaque-token", OrderRequest{Table: "12"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, *f.expired)
}

func TestCreateOrderShortCircuitsProvablyExpiredToken(t *testing.T) {
	hits := 0
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
	}))

	_, err := f.client.CreateOrder(context.Background(), expiredJWT(t), OrderRequest{Table: "12"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, *f.expired)
	assert.Zero(t, hits, "no round trip for a token past its exp claim")
}

func expiredJWT(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return signed
}
