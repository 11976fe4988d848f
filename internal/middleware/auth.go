package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenMiddleware wymaga tokenu podglądu w nagłówku Authorization albo w
// parametrze ?token= (przeglądarki nie ustawiają nagłówków dla WebSocket).
// Pusty token wyłącza sprawdzanie.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.URL.Query().Get("token")
			if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				provided = bearer
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
