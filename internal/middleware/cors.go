package middleware

import (
	"net/http"
	"strings"
)

// CORS enforces an exact-match origin allow-list for credentialed requests.
//
// THREE CASES:
//   - no Origin header (curl, same-origin, server-to-server) → pass through
//   - allowed origin → CORS headers echo that origin, credentials allowed;
//     an OPTIONS preflight is answered here with 204
//   - any other origin → 403, the request never reaches a handler
//
// Because the cookie is sent with credentials, the response can never use
// "Access-Control-Allow-Origin: *". The matching origin is echoed instead
// and "Vary: Origin" keeps caches from mixing responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if trimmed := strings.TrimRight(strings.TrimSpace(o), "/"); trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")

			if _, ok := origins[origin]; !ok {
				http.Error(w, "Not allowed by CORS", http.StatusForbidden)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
