// Package city serves a route plan over HTTP.
//
// Handler ties the routing packages together: it canonicalizes the request
// path, matches it against the router, enforces the trailing slash policy
// on pages, loads the route's modules and dispatches to their endpoint
// handlers. Endpoint routes answer with the normalized handler response.
// Page routes answer with a Renderer, or with the handler data as JSON when
// the client sends "Accept: application/json".
//
// Middleware wraps dispatch:
//
//	logRequests := city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
//	    err := next()
//	    slog.Info("request", "route", ev.Route, "status", ev.Status())
//	    return err
//	})
//	h := city.New(r, city.WithMiddleware(logRequests))
package city
