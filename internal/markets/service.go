// Package markets owns the browse-view state: one composer per view, the
// refresh pollers that keep them current, and the cached reads against the
// market-data API.
package markets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/finboardhq/finboard-portal/internal/cache"
	"github.com/finboardhq/finboard-portal/internal/client"
	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/models"
	"github.com/finboardhq/finboard-portal/internal/poller"
	"github.com/finboardhq/finboard-portal/internal/view"
)

// View names for the two asset browse pages.
const (
	ViewStocks = "stocks"
	ViewCrypto = "crypto"
)

// longHistoryTTL caches non-intraday history windows; only the intraday
// window follows the refresh interval.
const longHistoryTTL = 10 * time.Minute

// Service composes the market browse state. It is safe for concurrent use
// by request handlers and the background pollers.
type Service struct {
	client  *client.MarketClient
	cache   *cache.Cache
	logger  *common.Logger
	refresh time.Duration

	stocks *view.Composer
	crypto *view.Composer

	mu        sync.RWMutex
	universe  map[string]struct{}
	summary   models.MarketSummary
	onSummary func(models.MarketSummary)

	pollers []*poller.Poller
}

// NewService creates the market service. refresh is the asset-list poll
// interval (~60s in production).
func NewService(mc *client.MarketClient, c *cache.Cache, logger *common.Logger, refresh time.Duration) *Service {
	return &Service{
		client:   mc,
		cache:    c,
		logger:   logger,
		refresh:  refresh,
		stocks:   view.NewComposer(models.StockExchanges[0]),
		crypto:   view.NewComposer(""),
		universe: make(map[string]struct{}),
	}
}

// SetSummaryListener registers a callback invoked with each fresh market
// summary snapshot. Used by the websocket hub to push ticker updates.
func (s *Service) SetSummaryListener(fn func(models.MarketSummary)) {
	s.mu.Lock()
	s.onSummary = fn
	s.mu.Unlock()
}

// Start launches the per-view refresh pollers. They stop when ctx is
// cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) {
	s.pollers = []*poller.Poller{
		poller.New("stocks-assets", s.refresh, func(ctx context.Context) error {
			filter := s.stocks.Filter()
			return s.refreshView(ctx, s.stocks, models.AssetTypeForExchange(filter), filter)
		}, s.logger),
		poller.New("crypto-assets", s.refresh, func(ctx context.Context) error {
			return s.refreshView(ctx, s.crypto, models.AssetTypeCrypto, "")
		}, s.logger),
		poller.New("market-summary", s.refresh, s.refreshSummary, s.logger),
	}
	for _, p := range s.pollers {
		p.Start(ctx)
	}
	s.logger.Info().Int("pollers", len(s.pollers)).Msg("market refresh pollers started")
}

// Stop halts all refresh pollers.
func (s *Service) Stop() {
	for _, p := range s.pollers {
		p.Stop()
	}
}

// StockView returns the stock browse state for the given exchange filter.
// Switching exchange clears the selection before the new list is applied.
func (s *Service) StockView(ctx context.Context, exchange string) (view.State, error) {
	if exchange != "" {
		s.stocks.SetFilter(exchange)
	}
	filter := s.stocks.Filter()
	if err := s.refreshView(ctx, s.stocks, models.AssetTypeForExchange(filter), filter); err != nil {
		return view.State{}, err
	}
	return s.stocks.Snapshot(), nil
}

// CryptoView returns the crypto browse state.
func (s *Service) CryptoView(ctx context.Context) (view.State, error) {
	if err := s.refreshView(ctx, s.crypto, models.AssetTypeCrypto, ""); err != nil {
		return view.State{}, err
	}
	return s.crypto.Snapshot(), nil
}

// Select moves the selection of the named view to the given symbol and
// triggers the detail fetch for it. Returns false when the symbol is not in
// the view's current list.
func (s *Service) Select(ctx context.Context, viewName, symbol string) (view.State, bool, error) {
	composer, err := s.composerFor(viewName)
	if err != nil {
		return view.State{}, false, err
	}
	if !composer.Select(symbol) {
		return composer.Snapshot(), false, nil
	}
	s.applyDetails(ctx, composer)
	return composer.Snapshot(), true, nil
}

// History returns the chronological charting series for one symbol and
// period. Only the intraday window is refetched on the refresh interval;
// longer windows are cached harder.
func (s *Service) History(ctx context.Context, symbol string, period models.Period) (models.PriceSeries, error) {
	if !models.ValidPeriod(period) {
		return nil, fmt.Errorf("invalid history period %q", period)
	}

	key := cache.MakeKey("history", symbol, string(period))
	if cached, ok := s.cache.Get(key); ok {
		return cached.(models.PriceSeries), nil
	}

	series, err := s.client.PriceHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	ttl := longHistoryTTL
	if period == models.Period1D {
		ttl = s.refresh
	}
	s.cache.SetWithTTL(key, series, ttl)
	return series, nil
}

// Sparkline returns the raw by-id price points backing the watchlist trend
// strips. Only the 24h and 7d windows exist upstream; the short window
// follows the refresh interval like the intraday chart.
func (s *Service) Sparkline(ctx context.Context, assetID int64, window string) ([]models.PricePoint, error) {
	if !models.ValidSparklineWindow(window) {
		return nil, fmt.Errorf("invalid sparkline window %q", window)
	}

	key := cache.MakeKey("sparkline", fmt.Sprint(assetID), window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.PricePoint), nil
	}

	points, err := s.client.AssetHistory(ctx, assetID, window)
	if err != nil {
		return nil, err
	}

	ttl := longHistoryTTL
	if window == models.Window24H {
		ttl = s.refresh
	}
	s.cache.SetWithTTL(key, points, ttl)
	return points, nil
}

// Summary returns the landing-page market snapshot, refreshing through the
// cache when the poller has not run yet.
func (s *Service) Summary(ctx context.Context) (models.MarketSummary, error) {
	if cached, ok := s.cache.Get("summary"); ok {
		return cached.(models.MarketSummary), nil
	}
	if err := s.refreshSummary(ctx); err != nil {
		return models.MarketSummary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary, nil
}

// News returns the bounded news feed for a country code.
func (s *Service) News(ctx context.Context, country string) ([]models.NewsItem, error) {
	key := cache.MakeKey("news", country)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.NewsItem), nil
	}
	items, err := s.client.News(ctx, country)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, items)
	return items, nil
}

// TopHeadlines returns the landing-page headline set, newest first and
// capped at ten items.
func (s *Service) TopHeadlines(ctx context.Context) ([]models.NewsItem, error) {
	if cached, ok := s.cache.Get("headlines"); ok {
		return cached.([]models.NewsItem), nil
	}
	items, err := s.client.TopHeadlines(ctx)
	if err != nil {
		return nil, err
	}
	models.SortNewsByRecency(items)
	if len(items) > 10 {
		items = items[:10]
	}
	s.cache.Set("headlines", items)
	return items, nil
}

// Watchlist reads the server-persisted watchlist. Authorization failures
// already degrade to an empty list inside the client.
func (s *Service) Watchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if cached, ok := s.cache.Get("watchlist"); ok {
		return cached.([]models.WatchlistEntry), nil
	}
	entries, err := s.client.Watchlist(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set("watchlist", entries)
	return entries, nil
}

// AddToWatchlist creates a watchlist entry and drops the cached read.
func (s *Service) AddToWatchlist(ctx context.Context, assetID int64) (models.WatchlistEntry, error) {
	entry, err := s.client.AddToWatchlist(ctx, assetID)
	if err != nil {
		return models.WatchlistEntry{}, err
	}
	s.cache.InvalidatePrefix("watchlist")
	return entry, nil
}

// RemoveFromWatchlist deletes a watchlist entry and drops the cached read.
func (s *Service) RemoveFromWatchlist(ctx context.Context, entryID int64) error {
	if err := s.client.RemoveFromWatchlist(ctx, entryID); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("watchlist")
	return nil
}

// KnownSymbol reports whether a symbol has appeared in any fetched asset
// list this session. The alert store uses this to validate new alerts.
func (s *Service) KnownSymbol(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.universe[symbol]
	return ok
}

func (s *Service) composerFor(viewName string) (*view.Composer, error) {
	switch viewName {
	case ViewStocks:
		return s.stocks, nil
	case ViewCrypto:
		return s.crypto, nil
	}
	return nil, fmt.Errorf("unknown market view %q", viewName)
}

// refreshView fetches the asset list for one view, applies it to the
// composer, and fills details for the selection. A detail failure degrades
// to placeholders without failing the list. The list is keyed to the filter
// it was fetched under: if the filter moved on while the fetch was in
// flight, the stale list is discarded instead of repopulating the new view.
func (s *Service) refreshView(ctx context.Context, composer *view.Composer, assetType models.AssetType, exchange string) error {
	assets, err := s.cachedAssets(ctx, assetType, exchange)
	if err != nil {
		return err
	}
	s.recordSymbols(assets)
	if !composer.ApplyAssetsFor(exchange, assets) {
		s.logger.Debug().Str("exchange", exchange).Msg("discarding asset list fetched under a superseded filter")
		return nil
	}
	s.applyDetails(ctx, composer)
	return nil
}

func (s *Service) cachedAssets(ctx context.Context, assetType models.AssetType, exchange string) ([]models.Asset, error) {
	key := cache.MakeKey("assets", string(assetType), exchange)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Asset), nil
	}
	assets, err := s.client.ListAssets(ctx, assetType, exchange)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, assets)
	return assets, nil
}

// applyDetails runs the dependent detail fetch for the current selection.
// Issued only when a selection exists; a failure leaves the N/A placeholders.
func (s *Service) applyDetails(ctx context.Context, composer *view.Composer) {
	id := composer.SelectedID()
	if id == 0 {
		return
	}

	key := cache.MakeKey("details", fmt.Sprint(id))
	if cached, ok := s.cache.Get(key); ok {
		composer.ApplyDetails(id, cached.(models.AssetDetails))
		return
	}

	details, err := s.client.AssetDetails(ctx, id)
	if err != nil {
		s.logger.Warn().Int64("asset_id", id).Err(err).Msg("detail fetch failed, keeping placeholders")
		return
	}
	s.cache.Set(key, details)
	composer.ApplyDetails(id, details)
}

func (s *Service) refreshSummary(ctx context.Context) error {
	summary, err := s.client.MarketSummary(ctx)
	if err != nil {
		return err
	}

	s.cache.SetWithTTL("summary", summary, s.refresh)

	s.mu.Lock()
	s.summary = summary
	listener := s.onSummary
	s.mu.Unlock()

	if listener != nil {
		listener(summary)
	}
	return nil
}

func (s *Service) recordSymbols(assets []models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assets {
		s.universe[a.Symbol] = struct{}{}
	}
}
