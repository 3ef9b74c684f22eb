package models

// MarketTickerItem is the lightweight projection used by the landing page
// ticker scroll and the gainer cards. Unlike Asset it carries no identifier
// or type.
type MarketTickerItem struct {
	Symbol string    `json:"symbol"`
	Name   string    `json:"name"`
	Price  FlexFloat `json:"price"`
	Change FlexFloat `json:"change"`
}

// MarketSummary is the combined landing-page snapshot: one ticker-scroll
// list and one top-gainers list, fetched in a single call.
type MarketSummary struct {
	Tickers []MarketTickerItem `json:"tickers"`
	Gainers []MarketTickerItem `json:"gainers"`
}
