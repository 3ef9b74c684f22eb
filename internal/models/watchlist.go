package models

// WatchlistEntry is one server-persisted watchlist row. The watchlist is
// owned by the market-data API; this portal only reads and writes it on the
// user's behalf.
type WatchlistEntry struct {
	ID        int64     `json:"id"`
	Asset     Asset     `json:"asset"`
	CreatedAt Timestamp `json:"created_at"`
}
