package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	pages := s.app.PageHandler
	mux.HandleFunc("/{$}", pages.ServePage("landing.html", "home"))
	mux.HandleFunc("/auth", pages.ServeAuthPage)
	mux.HandleFunc("/dashboard", pages.ServeDashboardPage("dashboard.html", "dashboard"))
	mux.HandleFunc("/dashboard/markets", pages.ServeDashboardPage("dashboard.html", "markets"))
	mux.HandleFunc("/dashboard/crypto", pages.ServeDashboardPage("dashboard.html", "crypto"))
	mux.HandleFunc("/dashboard/news", pages.ServeDashboardPage("dashboard.html", "news"))
	mux.HandleFunc("/dashboard/alerts", pages.ServeDashboardPage("dashboard.html", "alerts"))
	mux.HandleFunc("/dashboard/settings", pages.ServeDashboardPage("dashboard.html", "settings"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", pages.StaticFileHandler)

	// Session
	mux.HandleFunc("/api/auth/login", s.app.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", s.app.AuthHandler.HandleLogout)

	// Market browse views
	mux.HandleFunc("/api/markets/assets", s.app.MarketsHandler.HandleAssets)
	mux.HandleFunc("/api/markets/assets/{symbol}/history", s.app.MarketsHandler.HandleHistory)
	mux.HandleFunc("/api/markets/assets/{id}/sparkline", s.app.MarketsHandler.HandleSparkline)
	mux.HandleFunc("/api/markets/select", s.app.MarketsHandler.HandleSelect)
	mux.HandleFunc("/api/markets/summary", s.app.MarketsHandler.HandleSummary)

	// News
	mux.HandleFunc("/api/news", s.app.NewsHandler.HandleNews)
	mux.HandleFunc("/api/news/headlines", s.app.NewsHandler.HandleHeadlines)

	// Price alerts
	mux.HandleFunc("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.AlertsHandler.HandleList, s.app.AlertsHandler.HandleCreate)
	})
	mux.HandleFunc("/api/alerts/{id}", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, nil, s.app.AlertsHandler.HandleDelete)
	})

	// Watchlist (proxied to the market API)
	mux.HandleFunc("/api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.WatchlistHandler.HandleList, s.app.WatchlistHandler.HandleAdd)
	})
	mux.HandleFunc("/api/watchlist/{id}", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, nil, nil, s.app.WatchlistHandler.HandleRemove)
	})

	// Settings (persisted preferences)
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			"GET":  s.app.SettingsHandler.HandleGet,
			"PUT":  s.app.SettingsHandler.HandleSave,
			"POST": s.app.SettingsHandler.HandleSave,
		})
	})

	// Live ticker stream
	mux.Handle("/ws/ticker", s.app.TickerHub)

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
