package httpx

import (
	"net/http"
)

// SessionVerifier resolves a session cookie value to an account email.
type SessionVerifier func(token string) (string, error)

// AuthMiddleware rejects requests without a valid session cookie.
func AuthMiddleware(cookieName string, verify SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := SessionAccount(r, cookieName, verify)
			if !ok {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), email)))
		})
	}
}

// SessionAccount returns the account behind the request's session cookie.
func SessionAccount(r *http.Request, cookieName string, verify SessionVerifier) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	email, err := verify(cookie.Value)
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}
