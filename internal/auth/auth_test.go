package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-secret")

func sign(t *testing.T, claims jwt.RegisteredClaims, key []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func protected(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var got string
	h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := Subject(r.Context())
		require.True(t, ok)
		got = sub
	}))
	return h, &got
}

func TestMiddlewareValidToken(t *testing.T) {
	h, got := protected(t)

	tok := sign(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, secret)

	req := httptest.NewRequest(http.MethodGet, "/order", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user-42", *got)
}

func TestMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer nope"},
		{name: "wrong key", header: "Bearer " + sign(t, jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, []byte("other-secret"))},
		{name: "expired", header: "Bearer " + sign(t, jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}, secret)},
		{name: "no subject claim", header: "Bearer " + sign(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, secret)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/order", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.JSONEq(t, `{"error":"Unauthorized user"}`, w.Body.String())
			require.False(t, called)
		})
	}
}

func TestMiddlewareSkips(t *testing.T) {
	t.Run("preflight", func(t *testing.T) {
		called := false
		h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := Subject(r.Context())
			require.False(t, ok)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/order", nil))
		require.True(t, called)
	})

	t.Run("exempt path", func(t *testing.T) {
		called := false
		h := Middleware(secret, "/healthz")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.True(t, called)
	})
}

func TestSubject(t *testing.T) {
	_, ok := Subject(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)

	ctx := WithSubject(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "u1")
	sub, ok := Subject(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", sub)
}
