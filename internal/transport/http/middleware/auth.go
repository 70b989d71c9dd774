package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"empdir/internal/auth"
	"empdir/internal/requestctx"
	"empdir/internal/transport/http/api"
)

type TokenVerifier interface {
	Verify(token string) (auth.UserContext, error)
}

type authState struct {
	err error
}

type ctxKey string

const ctxKeyAuthState ctxKey = "auth_state"

var errMissingToken = errors.New("authentication required")

// Auth attaches the bearer token's user to the context when the token verifies.
// It never rejects; RequireUser does.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.Verify(token)
			if err != nil {
				ctx := context.WithValue(r.Context(), ctxKeyAuthState, authState{err: err})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireUser rejects requests without a verified user with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		message := errMissingToken.Error()
		if state, ok := r.Context().Value(ctxKeyAuthState).(authState); ok && state.err != nil {
			message = "invalid or expired token"
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="empdir"`)
		api.Fail(w, http.StatusUnauthorized, "unauthorized", message, GetRequestID(r.Context()))
	})
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	return requestctx.GetUser(ctx)
}
