package server

import "net/http"

// MethodRouter maps HTTP methods to handlers for routes where one pattern
// serves several verbs (the alerts, watchlist and settings resources).
type MethodRouter map[string]http.HandlerFunc

// RouteByMethod dispatches on the request method, answering 405 for any
// verb the route does not carry.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

// RouteResourceCollection is the list + create pattern: GET -> list,
// POST -> create. A nil handler leaves that verb unrouted.
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, list, create http.HandlerFunc) {
	routes := make(MethodRouter)
	if list != nil {
		routes["GET"] = list
	}
	if create != nil {
		routes["POST"] = create
	}
	RouteByMethod(w, r, routes)
}

// RouteResourceItem is the get + update + delete pattern for a single
// resource. Alerts and watchlist entries only route DELETE here.
func RouteResourceItem(w http.ResponseWriter, r *http.Request, get, update, del http.HandlerFunc) {
	routes := make(MethodRouter)
	if get != nil {
		routes["GET"] = get
	}
	if update != nil {
		routes["PUT"] = update
	}
	if del != nil {
		routes["DELETE"] = del
	}
	RouteByMethod(w, r, routes)
}
