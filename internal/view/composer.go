// Package view derives display state for the market browse pages: raw assets
// mapped to display records, a selection kept stable across list refreshes,
// and detail fields filled in lazily by a secondary fetch.
package view

import (
	"strconv"
	"sync"

	"github.com/finboardhq/finboard-portal/internal/models"
)

// Placeholder is shown for market cap and volume until the detail fetch for
// the selected asset resolves.
const Placeholder = "N/A"

// DisplayAsset is the enriched record the browse pages render. Change is
// derived from the 24h percentage because the list endpoint only exposes a
// percentage.
type DisplayAsset struct {
	ID            int64            `json:"id"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	AssetType     models.AssetType `json:"asset_type"`
	Price         float64          `json:"price"`
	Change        float64          `json:"change"`
	ChangePercent float64          `json:"change_percent"`
	MarketCap     string           `json:"market_cap"`
	Volume        string           `json:"volume"`
}

// NewDisplayAsset maps a raw asset to its display record. A nil latest price
// displays as 0; an absent 24h change as 0%.
func NewDisplayAsset(a models.Asset) DisplayAsset {
	price := a.Price()
	pct := float64(a.Change24h)
	return DisplayAsset{
		ID:            a.ID,
		Symbol:        a.Symbol,
		Name:          a.Name,
		AssetType:     a.AssetType,
		Price:         price,
		Change:        deriveChange(price, pct),
		ChangePercent: pct,
		MarketCap:     Placeholder,
		Volume:        Placeholder,
	}
}

// deriveChange recovers the absolute 24h change from the percentage:
// price - price/(1+pct/100). A pct of exactly -100 would divide by zero, so
// it is clamped to a zero change.
func deriveChange(price, pct float64) float64 {
	if pct == -100 {
		return 0
	}
	return price - price/(1+pct/100)
}

// State is an immutable snapshot of one browse view.
type State struct {
	Filter   string         `json:"filter,omitempty"`
	Assets   []DisplayAsset `json:"assets"`
	Selected *DisplayAsset  `json:"selected"`
}

// Composer reconciles asset-list refreshes with the user's selection for one
// browse view. Selection is tracked by symbol so it survives refetches that
// replace every record.
type Composer struct {
	mu       sync.Mutex
	filter   string
	assets   []DisplayAsset
	selected *DisplayAsset
}

// NewComposer creates a composer with the given initial filter.
func NewComposer(filter string) *Composer {
	return &Composer{filter: filter}
}

// Filter returns the active exchange or asset-type filter.
func (c *Composer) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter switches the active filter. Changing filter clears the selection
// so the next list refresh re-initialises cleanly instead of matching a
// stale symbol against a disjoint list.
func (c *Composer) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if filter == c.filter {
		return
	}
	c.filter = filter
	c.selected = nil
	c.assets = nil
}

// ApplyAssets installs a fresh list and reconciles the selection:
// no selection -> first element; selected symbol still present -> refreshed
// record for that symbol; symbol gone -> first element, or nil on an empty
// list.
func (c *Composer) ApplyAssets(list []models.Asset) {
	c.ApplyAssetsFor(c.Filter(), list)
}

// ApplyAssetsFor applies a list that was fetched while filter was active.
// A list resolving after the filter has moved on is discarded, the same way
// ApplyDetails discards results for a superseded asset id. Returns whether
// the list was applied.
func (c *Composer) ApplyAssetsFor(filter string, list []models.Asset) bool {
	display := make([]DisplayAsset, len(list))
	for i, a := range list {
		display[i] = NewDisplayAsset(a)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if filter != c.filter {
		return false
	}
	c.assets = display

	if len(display) == 0 {
		c.selected = nil
		return true
	}
	if c.selected == nil {
		first := display[0]
		c.selected = &first
		return true
	}
	for _, a := range display {
		if a.Symbol == c.selected.Symbol {
			refreshed := a
			c.selected = &refreshed
			return true
		}
	}
	first := display[0]
	c.selected = &first
	return true
}

// Select sets the selection to the asset with the given symbol. Returns
// false when the symbol is not in the current list.
func (c *Composer) Select(symbol string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.assets {
		if a.Symbol == symbol {
			chosen := a
			c.selected = &chosen
			return true
		}
	}
	return false
}

// SelectedID returns the identifier of the selected asset, or 0 when nothing
// is selected. The detail fetch is only issued when this is non-zero.
func (c *Composer) SelectedID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return 0
	}
	return c.selected.ID
}

// ApplyDetails fills market cap and volume on the selection. Results for a
// superseded selection (different asset id) are discarded.
func (c *Composer) ApplyDetails(assetID int64, d models.AssetDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil || c.selected.ID != assetID {
		return
	}
	c.selected.MarketCap = formatAmount(d.MarketCap)
	c.selected.Volume = formatAmount(d.Volume)
}

// Snapshot returns a copy of the current view state.
func (c *Composer) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	assets := make([]DisplayAsset, len(c.assets))
	copy(assets, c.assets)

	var selected *DisplayAsset
	if c.selected != nil {
		chosen := *c.selected
		selected = &chosen
	}

	return State{
		Filter:   c.filter,
		Assets:   assets,
		Selected: selected,
	}
}

func formatAmount(f *models.FlexFloat) string {
	if f == nil {
		return Placeholder
	}
	return strconv.FormatFloat(float64(*f), 'f', -1, 64)
}
