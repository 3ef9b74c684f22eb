package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finboardhq/finboard-portal/internal/models"
)

func TestListAssets_StringPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "CRYPTO" {
			t.Errorf("expected type=CRYPTO, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"symbol":"BTC","name":"Bitcoin","asset_type":"CRYPTO","latest_price":"42000.50","change_24h":"2.0"},
			{"id":2,"symbol":"ETH","name":"Ethereum","asset_type":"CRYPTO","latest_price":2500.25,"change_24h":-1.5}
		]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	assets, err := c.ListAssets(context.Background(), models.AssetTypeCrypto, "")
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Price() != 42000.50 {
		t.Errorf("string price not parsed: %v", assets[0].Price())
	}
	if assets[1].Price() != 2500.25 {
		t.Errorf("numeric price not parsed: %v", assets[1].Price())
	}
}

func TestListAssets_ExchangeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("exchange"); got != "DSE" {
			t.Errorf("expected exchange=DSE, got %s", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	assets, err := c.ListAssets(context.Background(), models.AssetTypeStockDSE, "DSE")
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 0 {
		t.Errorf("expected empty list, got %d", len(assets))
	}
}

func TestPriceHistory_NormalisedToChronological(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prices/BTC/history/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("period"); got != "5d" {
			t.Errorf("expected period=5d, got %s", got)
		}
		// Newest-first, as the API delivers it.
		w.Write([]byte(`[
			{"time":"2024-01-02T00:00:00","value":"101"},
			{"time":"2024-01-01T00:00:00","value":"100"}
		]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	series, err := c.PriceHistory(context.Background(), "BTC", models.Period5D)
	if err != nil {
		t.Fatalf("PriceHistory failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].Time != "2024-01-01T00:00:00" {
		t.Errorf("series not chronological: %+v", series)
	}
}

func TestPriceHistory_EmptySeriesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	series, err := c.PriceHistory(context.Background(), "NEW", models.Period1D)
	if err != nil {
		t.Fatalf("empty series must not error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d points", len(series))
	}
}

func TestAssetHistory_SortedOldestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/7/history/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"price":"102","timestamp":"2024-01-03T00:00:00"},
			{"price":"100","timestamp":"2024-01-01T00:00:00"},
			{"price":"101","timestamp":"2024-01-02T00:00:00"}
		]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	points, err := c.AssetHistory(context.Background(), 7, "24h")
	if err != nil {
		t.Fatalf("AssetHistory failed: %v", err)
	}
	if float64(points[0].Price) != 100 || float64(points[2].Price) != 102 {
		t.Errorf("points not oldest-first: %+v", points)
	}
}

func TestWatchlist_UnauthDegradesToEmpty(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewMarketClient(srv.URL)
		entries, err := c.Watchlist(context.Background())
		if err != nil {
			t.Errorf("status %d must degrade to empty list, got error: %v", status, err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("status %d: expected empty non-nil list, got %v", status, entries)
		}
		srv.Close()
	}
}

func TestWatchlist_ServerErrorIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	if _, err := c.Watchlist(context.Background()); err == nil {
		t.Error("500 must surface as an error")
	}
}

func TestAddToWatchlist_SendsCSRFHeader(t *testing.T) {
	var sawToken string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /watchlist/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-123", Path: "/"})
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /watchlist/", func(w http.ResponseWriter, r *http.Request) {
		sawToken = r.Header.Get("X-CSRFToken")
		var body map[string]int64
		json.NewDecoder(r.Body).Decode(&body)
		if body["asset_id"] != 42 {
			t.Errorf("expected asset_id 42, got %d", body["asset_id"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"asset":{"id":42,"symbol":"BTC","name":"Bitcoin","asset_type":"CRYPTO","latest_price":null,"change_24h":0}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewMarketClient(srv.URL)

	// Prime the cookie jar the way a browser session would: a read first.
	if _, err := c.Watchlist(context.Background()); err != nil {
		t.Fatalf("priming read failed: %v", err)
	}

	entry, err := c.AddToWatchlist(context.Background(), 42)
	if err != nil {
		t.Fatalf("AddToWatchlist failed: %v", err)
	}
	if sawToken != "tok-123" {
		t.Errorf("expected CSRF header tok-123, got %q", sawToken)
	}
	if entry.ID != 9 || entry.Asset.Symbol != "BTC" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestAddToWatchlist_NoCookieSendsEmptyHeader(t *testing.T) {
	var sawHeader bool
	var sawToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = true
		sawToken = r.Header.Get("X-CSRFToken")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	if _, err := c.AddToWatchlist(context.Background(), 1); err == nil {
		t.Error("rejected write must surface as an error")
	}
	if !sawHeader || sawToken != "" {
		t.Errorf("expected empty CSRF header when no cookie issued, got %q", sawToken)
	}
}

func TestRemoveFromWatchlist(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	if err := c.RemoveFromWatchlist(context.Background(), 17); err != nil {
		t.Fatalf("RemoveFromWatchlist failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/watchlist/17/" {
		t.Errorf("expected DELETE /watchlist/17/, got %s %s", gotMethod, gotPath)
	}
}

func TestNews_Country(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("country"); got != "bd" {
			t.Errorf("expected country=bd, got %s", got)
		}
		w.Write([]byte(`[{"title":"DSE gains","source":"Daily Star","url":"https://example.com/1","published_at":"2024-03-01T09:00:00"}]`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	items, err := c.News(context.Background(), "bd")
	if err != nil {
		t.Fatalf("News failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "DSE gains" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestMarketSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/market/summary/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"tickers":[{"symbol":"SPX","name":"S&P 500","price":"5100.2","change":"0.4"}],
			"gainers":[{"symbol":"BTC","name":"Bitcoin","price":"42000","change":"2.0"}]
		}`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	summary, err := c.MarketSummary(context.Background())
	if err != nil {
		t.Fatalf("MarketSummary failed: %v", err)
	}
	if len(summary.Tickers) != 1 || len(summary.Gainers) != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if float64(summary.Tickers[0].Price) != 5100.2 {
		t.Errorf("ticker price not parsed: %v", summary.Tickers[0].Price)
	}
}

func TestGet_Non200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL)
	if _, err := c.TopHeadlines(context.Background()); err == nil {
		t.Error("expected error for 502 response")
	}
}
