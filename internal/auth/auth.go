// Package auth guards the API with bearer tokens. Middleware verifies the
// token at the routing boundary; handlers only ever see the verified subject
// through Subject, never the token itself.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

// WithSubject stores a verified subject identifier in the context. Exported
// so tests can stand in for the middleware.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKey{}, subject)
}

// Subject returns the verified subject identifier, if any. A missing claim is
// indistinguishable from an unauthenticated request, by contract.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKey{}).(string)
	return s, ok && s != ""
}

// Middleware verifies the Authorization bearer token (HS256) and injects its
// subject claim into the request context. Preflight requests and the listed
// paths pass through unauthenticated; everything else without a verifiable
// subject gets 401 before any routing or handler work happens.
func Middleware(secret []byte, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			sub, ok := verify(r.Header.Get("Authorization"), secret)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized user"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}

func verify(header string, secret []byte) (string, bool) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
