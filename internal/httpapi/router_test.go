package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context) error { return s.err }

type stubResolver struct {
	got []auth.Identity
	err error
}

func (s *stubResolver) Resolve(_ context.Context, id auth.Identity) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.got = append(s.got, id)
	return &models.User{ID: "u-" + id.Subject, DisplayName: id.DisplayName()}, nil
}

type stubUserService struct{}

func (stubUserService) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{Id: "u1", DisplayName: "Alice"}}), nil
}

func serve(t *testing.T, r http.Handler, method, path string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		r := NewRouter(Options{Version: "1.0.0", DB: stubDB{}})
		for _, path := range []string{"/health", "/healthz"} {
			rr := serve(t, r, http.MethodGet, path, nil, nil)
			require.Equal(t, http.StatusOK, rr.Code, path)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "healthy", resp.Status)
			assert.Equal(t, "up", resp.DB)
			assert.Equal(t, "tripsplit", resp.Service)
			assert.Equal(t, "1.0.0", resp.Version)
		}
	})

	t.Run("down", func(t *testing.T) {
		r := NewRouter(Options{DB: stubDB{err: errors.New("connection refused")}})
		rr := serve(t, r, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), `"db":"down"`)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "tripsplit_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r := NewRouter(Options{Gatherer: reg})
	rr := serve(t, r, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tripsplit_test_total 1")
}

func TestIdentityWebhook(t *testing.T) {
	const secret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"
	signer, err := svix.NewWebhook(secret)
	require.NoError(t, err)

	resolver := &stubResolver{}
	newRouter := func(t *testing.T, resolver UserResolver) *gin.Engine {
		t.Helper()
		h, err := NewWebhookHandler(secret, resolver)
		require.NoError(t, err)
		return NewRouter(Options{Webhook: h})
	}
	r := newRouter(t, resolver)

	signedAt := func(body []byte, at time.Time) map[string]string {
		sig, err := signer.Sign("msg_1", at, body)
		require.NoError(t, err)
		return map[string]string{
			HeaderWebhookID:        "msg_1",
			HeaderWebhookTimestamp: strconv.FormatInt(at.Unix(), 10),
			HeaderWebhookSignature: sig,
		}
	}
	signed := func(body []byte) map[string]string {
		return signedAt(body, time.Now())
	}
	created := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_123",
			"first_name": "Ana",
			"last_name": "",
			"username": "",
			"email_addresses": [{"email_address": "ana@example.com"}]
		}
	}`)

	t.Run("user created", func(t *testing.T) {
		rr := serve(t, r, http.MethodPost, "/webhooks/identity", created, signed(created))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Len(t, resolver.got, 1)
		assert.Equal(t, "user_123", resolver.got[0].Subject)
		assert.Equal(t, "ana", resolver.got[0].DisplayName())
		assert.Contains(t, rr.Body.String(), "u-user_123")
	})

	t.Run("missing signature", func(t *testing.T) {
		rr := serve(t, r, http.MethodPost, "/webhooks/identity", created, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		tampered := bytes.Replace(created, []byte("user_123"), []byte("user_999"), 1)
		rr := serve(t, r, http.MethodPost, "/webhooks/identity", tampered, signed(created))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("stale delivery", func(t *testing.T) {
		rr := serve(t, r, http.MethodPost, "/webhooks/identity", created, signedAt(created, time.Now().Add(-time.Hour)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("other events ignored", func(t *testing.T) {
		before := len(resolver.got)
		body := []byte(`{"type":"session.created","data":{"id":"sess_1"}}`)
		rr := serve(t, r, http.MethodPost, "/webhooks/identity", body, signed(body))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ignored")
		assert.Len(t, resolver.got, before)
	})

	t.Run("resolver failure", func(t *testing.T) {
		failing := newRouter(t, &stubResolver{err: errors.New("db down")})
		rr := serve(t, failing, http.MethodPost, "/webhooks/identity", created, signed(created))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("disabled without handler", func(t *testing.T) {
		disabled := NewRouter(Options{})
		rr := serve(t, disabled, http.MethodPost, "/webhooks/identity", created, signed(created))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed secret", func(t *testing.T) {
		_, err := NewWebhookHandler("whsec_%%%", resolver)
		assert.Error(t, err)
	})
}

func TestConnectMount(t *testing.T) {
	path, handler := apiconnect.NewUserServiceHandler(stubUserService{})
	server := httptest.NewServer(NewRouter(Options{Services: []Service{{Path: path, Handler: handler}}}))
	defer server.Close()

	client := apiconnect.NewUserServiceClient(http.DefaultClient, server.URL)
	resp, err := client.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Msg.User.DisplayName)
}

func TestCORS(t *testing.T) {
	r := NewRouter(Options{CORSOrigins: []string{"https://app.example"}})

	rr := serve(t, r, http.MethodOptions, "/tripsplit.v1.TripService/ListTrips", nil, map[string]string{
		"Origin":                         "https://app.example",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "authorization,content-type",
	})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = serve(t, r, http.MethodOptions, "/tripsplit.v1.TripService/ListTrips", nil, map[string]string{
		"Origin":                        "https://evil.example",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tripsplit</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o644))

	r := NewRouter(Options{StaticPath: dir})

	rr := serve(t, r, http.MethodGet, "/app.js", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "console.log")

	for _, path := range []string{"/", "/trips/abc"} {
		rr = serve(t, r, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.True(t, strings.Contains(rr.Body.String(), "tripsplit"), path)
	}

	rr = serve(t, r, http.MethodPost, "/tripsplit.v1.NoService/Call", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
