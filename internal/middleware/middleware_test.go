package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	h := middleware.CORS([]string{"https://statehouseatlas.org"})(okHandler())

	req := httptest.NewRequest("GET", "/graphql", nil)
	req.Header.Set("Origin", "https://statehouseatlas.org")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://statehouseatlas.org" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
}

func TestCORSIgnoresUnlistedOrigin(t *testing.T) {
	h := middleware.CORS([]string{"https://statehouseatlas.org"})(okHandler())

	req := httptest.NewRequest("GET", "/graphql", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unlisted origin, got %q", got)
	}
}

func TestCORSWildcardEchoesAnyOrigin(t *testing.T) {
	h := middleware.CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest("GET", "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected wildcard to echo origin, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	h := middleware.CORS([]string{"*"})(next)

	req := httptest.NewRequest("OPTIONS", "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rr.Code)
	}
	if called {
		t.Error("preflight should not reach the next handler")
	}
}

func TestAPIKeyRejectsMissingHeader(t *testing.T) {
	h := middleware.APIKey("secret")(okHandler())

	req := httptest.NewRequest("POST", "/graphql", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rr.Code)
	}
}

func TestAPIKeyAcceptsMatchingHeader(t *testing.T) {
	h := middleware.APIKey("secret")(okHandler())

	req := httptest.NewRequest("POST", "/graphql", nil)
	req.Header.Set("X-API-Key", "secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rr.Code)
	}
}

func TestAPIKeyExemptsHealth(t *testing.T) {
	h := middleware.APIKey("secret")(okHandler())

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected health to bypass the key check, got %d", rr.Code)
	}
}

func TestAPIKeyEmptyDisablesCheck(t *testing.T) {
	h := middleware.APIKey("")(okHandler())

	req := httptest.NewRequest("POST", "/graphql", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected open access with empty key, got %d", rr.Code)
	}
}
