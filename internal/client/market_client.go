// Package client wraps the remote market-data REST API. Every call is a
// plain request/response with no retries; failures surface as errors for the
// caller's view to degrade independently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/finboardhq/finboard-portal/internal/models"
)

// csrfCookieName is the cookie the market-data API issues for write
// protection. Its value is echoed back in the csrfHeaderName header on
// watchlist writes; when the cookie is absent an empty header is sent and
// the server rejects the write.
const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// MarketClient communicates with the market-data REST API.
type MarketClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMarketClient creates a client targeting the given API base URL. The
// cookie jar keeps the CSRF token the server issues on reads.
func NewMarketClient(baseURL string) *MarketClient {
	jar, _ := cookiejar.New(nil)
	return &MarketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// ListAssets fetches the asset directory, optionally filtered by asset type
// and/or exchange.
// GET /assets/?type=&exchange= -> [] Asset
func (c *MarketClient) ListAssets(ctx context.Context, assetType models.AssetType, exchange string) ([]models.Asset, error) {
	query := url.Values{}
	if assetType != "" {
		query.Set("type", string(assetType))
	}
	if exchange != "" {
		query.Set("exchange", exchange)
	}

	var assets []models.Asset
	if err := c.get(ctx, "/assets/", query, &assets); err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, nil
}

// AssetHistory fetches the raw price points for one asset over a 24h or 7d
// window, ordered oldest-first.
// GET /assets/{id}/history/?period= -> [] {price, timestamp}
func (c *MarketClient) AssetHistory(ctx context.Context, assetID int64, period string) ([]models.PricePoint, error) {
	query := url.Values{}
	query.Set("period", period)

	var points []models.PricePoint
	path := fmt.Sprintf("/assets/%d/history/", assetID)
	if err := c.get(ctx, path, query, &points); err != nil {
		return nil, fmt.Errorf("failed to fetch asset history: %w", err)
	}
	sortPricePoints(points)
	return points, nil
}

// PriceHistory fetches the charting series for one symbol and period. The
// API delivers newest-first; the result is normalised to chronological order
// because charts assume left-to-right time progression. An empty series is a
// valid result, not an error.
// GET /prices/{symbol}/history/?period= -> [] {time, value}
func (c *MarketClient) PriceHistory(ctx context.Context, symbol string, period models.Period) (models.PriceSeries, error) {
	query := url.Values{}
	query.Set("period", string(period))

	var series models.PriceSeries
	path := "/prices/" + url.PathEscape(symbol) + "/history/"
	if err := c.get(ctx, path, query, &series); err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	series.SortChronological()
	return series, nil
}

// AssetDetails fetches market cap and traded volume for one asset.
// GET /assets/{id}/details/ -> {market_cap, volume}
func (c *MarketClient) AssetDetails(ctx context.Context, assetID int64) (models.AssetDetails, error) {
	var details models.AssetDetails
	path := fmt.Sprintf("/assets/%d/details/", assetID)
	if err := c.get(ctx, path, nil, &details); err != nil {
		return models.AssetDetails{}, fmt.Errorf("failed to fetch asset details: %w", err)
	}
	return details, nil
}

// News fetches the news feed for a country code.
// GET /news/?country= -> [] NewsItem
func (c *MarketClient) News(ctx context.Context, country string) ([]models.NewsItem, error) {
	query := url.Values{}
	query.Set("country", country)

	var items []models.NewsItem
	if err := c.get(ctx, "/news/", query, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	return items, nil
}

// TopHeadlines fetches the landing-page headline set, independent of country.
// GET /news/top-headlines/ -> [] NewsItem
func (c *MarketClient) TopHeadlines(ctx context.Context) ([]models.NewsItem, error) {
	var items []models.NewsItem
	if err := c.get(ctx, "/news/top-headlines/", nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch top headlines: %w", err)
	}
	return items, nil
}

// MarketSummary fetches the combined landing-page snapshot: ticker list and
// top gainers in one call.
// GET /market/summary/ -> {tickers, gainers}
func (c *MarketClient) MarketSummary(ctx context.Context) (models.MarketSummary, error) {
	var summary models.MarketSummary
	if err := c.get(ctx, "/market/summary/", nil, &summary); err != nil {
		return models.MarketSummary{}, fmt.Errorf("failed to fetch market summary: %w", err)
	}
	return summary, nil
}

// Watchlist fetches the user's server-persisted watchlist. A 401 or 403
// degrades to an empty list rather than an error.
// GET /watchlist/ -> [] WatchlistEntry
func (c *MarketClient) Watchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/watchlist/", nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach market-data api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return []models.WatchlistEntry{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market-data api returned %d: %s", resp.StatusCode, string(body))
	}

	var entries []models.WatchlistEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return entries, nil
}

// AddToWatchlist creates a watchlist entry for an asset. The CSRF token from
// the cookie jar is attached as a header.
// POST /watchlist/ {asset_id} -> WatchlistEntry
func (c *MarketClient) AddToWatchlist(ctx context.Context, assetID int64) (models.WatchlistEntry, error) {
	payload, err := json.Marshal(map[string]int64{"asset_id": assetID})
	if err != nil {
		return models.WatchlistEntry{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/watchlist/", nil, bytes.NewReader(payload))
	if err != nil {
		return models.WatchlistEntry{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeaderName, c.csrfToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to reach market-data api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return models.WatchlistEntry{}, fmt.Errorf("market-data api returned %d: %s", resp.StatusCode, string(body))
	}

	var entry models.WatchlistEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return entry, nil
}

// RemoveFromWatchlist deletes a watchlist entry by its entry id.
// DELETE /watchlist/{id}/
func (c *MarketClient) RemoveFromWatchlist(ctx context.Context, entryID int64) error {
	path := "/watchlist/" + strconv.FormatInt(entryID, 10) + "/"
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set(csrfHeaderName, c.csrfToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach market-data api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("market-data api returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// get performs a GET, enforces a 2xx status, and decodes the body into out.
func (c *MarketClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach market-data api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market-data api returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *MarketClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return req, nil
}

// csrfToken returns the CSRF token the API set in the cookie jar, or an
// empty string when none has been issued yet.
func (c *MarketClient) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

// sortPricePoints orders raw history oldest-first; the API's default
// ordering is newest-first.
func sortPricePoints(points []models.PricePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp.Time)
	})
}
