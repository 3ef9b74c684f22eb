// Package models defines the data structures exchanged with the market-data API.
package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AssetType identifies which market an asset trades on.
type AssetType string

const (
	AssetTypeCrypto      AssetType = "CRYPTO"
	AssetTypeStockGlobal AssetType = "STOCK_GLOBAL"
	AssetTypeStockDSE    AssetType = "STOCK_DSE"
)

// ValidAssetType returns true if t is one of CRYPTO/STOCK_GLOBAL/STOCK_DSE.
func ValidAssetType(t AssetType) bool {
	switch t {
	case AssetTypeCrypto, AssetTypeStockGlobal, AssetTypeStockDSE:
		return true
	}
	return false
}

// StockExchanges lists the exchanges selectable on the stock browse view.
var StockExchanges = []string{"NYSE", "NASDAQ", "LSE", "DSE"}

// ValidExchange reports whether the exchange is a selectable stock exchange.
func ValidExchange(exchange string) bool {
	for _, e := range StockExchanges {
		if strings.EqualFold(e, exchange) {
			return true
		}
	}
	return false
}

// AssetTypeForExchange maps an exchange filter to the asset type queried on
// the market-data API. DSE stocks are a distinct type; every other exchange
// resolves to the global stock universe.
func AssetTypeForExchange(exchange string) AssetType {
	if strings.EqualFold(exchange, "DSE") {
		return AssetTypeStockDSE
	}
	return AssetTypeStockGlobal
}

// FlexFloat is a float64 that unmarshals from either a JSON number or a
// numeric string. The market-data API delivers decimal fields as text on
// some endpoints.
type FlexFloat float64

// UnmarshalJSON accepts numbers, quoted numbers, null, and the empty string.
// Non-finite values are rejected.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", string(data), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite numeric value %s", string(data))
	}
	*f = FlexFloat(v)
	return nil
}

// Asset is a tradable instrument tracked by the market-data API.
// LatestPrice is nil when no price point has been recorded yet.
type Asset struct {
	ID            int64      `json:"id"`
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	AssetType     AssetType  `json:"asset_type"`
	APIIdentifier string     `json:"api_identifier,omitempty"`
	LatestPrice   *FlexFloat `json:"latest_price"`
	Change24h     FlexFloat  `json:"change_24h"`
}

// Price returns the latest price, or 0 when none has been recorded.
func (a Asset) Price() float64 {
	if a.LatestPrice == nil {
		return 0
	}
	return float64(*a.LatestPrice)
}

// PricePoint is one sample of an asset's price history.
type PricePoint struct {
	Price     FlexFloat `json:"price"`
	Timestamp Timestamp `json:"timestamp"`
}

// SeriesPoint is one labelled sample of a charting series.
type SeriesPoint struct {
	Time  string    `json:"time"`
	Value FlexFloat `json:"value"`
}

// PriceSeries is an ordered charting series for one asset and period.
type PriceSeries []SeriesPoint

// SortChronological orders the series oldest-first. The API labels points
// with ISO-8601 timestamps, so lexical order is chronological.
func (s PriceSeries) SortChronological() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Time < s[j].Time
	})
}

// AssetDetails holds the secondary detail fetch for a selected asset.
// Either field is nil when the API has no figure for it.
type AssetDetails struct {
	MarketCap *FlexFloat `json:"market_cap"`
	Volume    *FlexFloat `json:"volume"`
}

// Period is a price-history window code accepted by the symbol history endpoint.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// ValidPeriod returns true for a recognised history window code.
func ValidPeriod(p Period) bool {
	switch p {
	case Period1D, Period5D, Period1Mo, Period1Y, Period5Y, PeriodMax:
		return true
	}
	return false
}

// Sparkline windows accepted by the by-id asset history endpoint.
const (
	Window24H = "24h"
	Window7D  = "7d"
)

// ValidSparklineWindow returns true for a recognised sparkline window code.
func ValidSparklineWindow(w string) bool {
	return w == Window24H || w == Window7D
}
