package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finboardhq/finboard-portal/internal/app"
	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/config"
)

// newTestHandler builds the full middleware-wrapped handler against a fake
// upstream market API and a throwaway badger directory.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/assets/") && strings.HasSuffix(r.URL.Path, "/details/"):
			w.Write([]byte(`{"market_cap":null,"volume":null}`))
		case r.URL.Path == "/assets/":
			w.Write([]byte(`[{"id":10,"symbol":"IBM","name":"IBM","asset_type":"STOCK_GLOBAL","latest_price":"180","change_24h":"0.5"}]`))
		case r.URL.Path == "/market/summary/":
			w.Write([]byte(`{"tickers":[],"gainers":[]}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(upstream.Close)

	cfg := config.NewDefaultConfig()
	cfg.API.URL = upstream.URL
	cfg.Storage.Badger.Path = t.TempDir()

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(func() { application.Close() })

	return New(application).Handler()
}

func TestRoutes_APIEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", "GET", "/api/health", http.StatusOK},
		{"version", "GET", "/api/version", http.StatusOK},
		{"assets", "GET", "/api/markets/assets", http.StatusOK},
		{"summary", "GET", "/api/markets/summary", http.StatusOK},
		{"sparkline", "GET", "/api/markets/assets/10/sparkline", http.StatusOK},
		{"news default country", "GET", "/api/news", http.StatusOK},
		{"headlines", "GET", "/api/news/headlines", http.StatusOK},
		{"alerts list", "GET", "/api/alerts", http.StatusOK},
		{"watchlist list", "GET", "/api/watchlist", http.StatusOK},
		{"settings get", "GET", "/api/settings", http.StatusOK},
		{"unknown api route", "GET", "/api/nope", http.StatusNotFound},
		{"alerts collection delete", "DELETE", "/api/alerts", http.StatusMethodNotAllowed},
		{"settings delete", "DELETE", "/api/settings", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: expected %d, got %d (%s)", tt.method, tt.path, tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRoutes_UnknownAPIRouteIsJSON(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/does-not-exist", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected JSON 404, got content type %q", ct)
	}
}

func TestRoutes_DashboardRequiresSession(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/dashboard", "/dashboard/markets", "/dashboard/settings"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusFound {
			t.Errorf("%s: expected redirect without session, got %d", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/auth" {
			t.Errorf("%s: expected redirect to /auth, got %s", path, loc)
		}
	}
}

func TestRoutes_PublicPages(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/", "/auth"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
