package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/models"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{Subject: "sub-1", Username: "ada"}, nil
}

type stubResolver struct{ err error }

func (r stubResolver) Resolve(_ context.Context, id auth.Identity) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &models.User{ID: "user-" + id.Subject, DisplayName: id.DisplayName()}, nil
}

type empty struct{}

func call(t *testing.T, interceptor connect.UnaryInterceptorFunc, header string, next connect.UnaryFunc) error {
	t.Helper()
	req := connect.NewRequest(&empty{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	_, err := interceptor(next)(context.Background(), req)
	return err
}

func TestRequireAuth(t *testing.T) {
	var seen string
	next := func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUserID(ctx)
		assert.Equal(t, "sub-1", GetExternalRef(ctx))
		return connect.NewResponse(&empty{}), nil
	}

	t.Run("valid token resolves the user", func(t *testing.T) {
		err := call(t, RequireAuth(stubVerifier{}, stubResolver{}), "Bearer good", next)
		require.NoError(t, err)
		assert.Equal(t, "user-sub-1", seen)
	})

	t.Run("missing token", func(t *testing.T) {
		err := call(t, RequireAuth(stubVerifier{}, stubResolver{}), "", next)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("rejected token", func(t *testing.T) {
		err := call(t, RequireAuth(stubVerifier{}, stubResolver{}), "Bearer bad", next)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("resolver failure is internal", func(t *testing.T) {
		resolver := stubResolver{err: &models.StorageError{Op: "create user", Err: errors.New("disk full")}}
		err := call(t, RequireAuth(stubVerifier{}, resolver), "Bearer good", next)
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	})
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&empty{}), nil
	}
	fail := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("bill not found"))
	}

	require.NoError(t, call(t, m.Interceptor(), "", ok))
	require.NoError(t, call(t, m.Interceptor(), "", ok))
	require.Error(t, call(t, m.Interceptor(), "", fail))

	// Requests built client-side carry an empty procedure
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeInvalidArgument, errors.New("bad amount"))
	err := call(t, LoggingInterceptor(), "", func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	})
	assert.Equal(t, want, err)
}
