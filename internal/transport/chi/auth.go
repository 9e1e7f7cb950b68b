package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// DefaultExemptPaths bypass authentication so probes and scrapers need no key.
var DefaultExemptPaths = []string{"/health", "/metrics"}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens against apiKeys.
// If apiKeys holds no non-empty key, authentication is disabled (pass-through).
// Requests to exempt paths (DefaultExemptPaths when none are given) skip the check.
func BearerAuthMiddleware(apiKeys []string, exempt ...string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	if len(exempt) == 0 {
		exempt = DefaultExemptPaths
	}
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptPaths[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			scheme, token, found := strings.Cut(auth, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				unauthorized(w, "authorization header must use Bearer scheme")
				return
			}

			if !validKey(keys, strings.TrimSpace(token)) {
				unauthorized(w, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validKey compares token against every key in constant time per key.
func validKey(keys [][]byte, token string) bool {
	t := []byte(token)
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(k, t)
	}
	return match == 1
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="jokedex"`)
	writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, message)
}
