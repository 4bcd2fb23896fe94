package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/models"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/tripledger.v1.BillService/GetBill", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called, "preflight must not reach the handler")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestHTTPLoggingPassesThrough(t *testing.T) {
	h := HTTPLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestUserIDContext(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.Equal(t, "user-1", GetUserID(WithUserID(context.Background(), "user-1")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, isClientError(connect.CodeInvalidArgument))
	assert.True(t, isClientError(connect.CodeFailedPrecondition))
	assert.False(t, isClientError(connect.CodeInternal))
	assert.False(t, isClientError(connect.CodeUnavailable))
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", "", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	var seen Caller
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = CallerFrom(ctx)
		return connect.NewResponse(&struct{}{}), nil
	}
	handler := RequireAuth(jwtManager)(next)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "valid token", header: "Bearer " + token, want: true},
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic " + token},
		{name: "garbage token", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = Caller{}
			req := connect.NewRequest(&struct{}{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if !tt.want {
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
				assert.Empty(t, seen.UserID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Caller{UserID: "alice", Email: "alice@example.com"}, seen)
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	failing := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad total"))
	})

	ctx := WithUserID(context.Background(), "alice")
	_, err := failing(ctx, connect.NewRequest(&struct{}{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"user_id":"alice"`)
	assert.Contains(t, out, `"error":"bad total"`)
}
