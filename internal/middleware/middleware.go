package middleware

import (
	"log"
	"net/http"
	"sync/atomic"
)

// CORS echoes the origin back only when it is on the configured allow-list.
// A single "*" entry allows every origin, which the dev profile defaults to.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
			continue
		}
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, ok := allowed[origin]
			if origin != "" && (ok || wildcard) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// exempt paths skip the API key check so load balancers can probe health
// and browsers can reach the advocacy pages without a header.
var exempt = map[string]struct{}{
	"/health":          {},
	"/advocacy":        {},
	"/advocacy/search": {},
}

// APIKey requires the X-API-Key header to match the configured key. An
// empty configured key disables the check entirely.
func APIKey(key string) func(http.Handler) http.Handler {
	var warned atomic.Bool
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				if warned.CompareAndSwap(false, true) {
					log.Println("[middleware] API_KEY unset, requests are unauthenticated")
				}
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := exempt[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("X-API-Key") != key {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
