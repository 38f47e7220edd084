package city

import "github.com/vango-dev/city/pkg/endpoint"

// Middleware wraps endpoint dispatch for a matched request.
type Middleware interface {
	// Handle processes the request and optionally calls next.
	// Return an error to stop the chain and report an error.
	// Return nil without calling next to stop the chain without a response;
	// the request is then answered with 204 No Content.
	Handle(ev *endpoint.RequestEvent, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ev *endpoint.RequestEvent, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ev *endpoint.RequestEvent, next func() error) error {
	return f(ev, next)
}

// LoadObserver is implemented by middleware that wants to see the outcome
// of module loading, which happens before the middleware chain runs.
type LoadObserver interface {
	ObserveLoad(ev *endpoint.RequestEvent, err error)
}

// Compose runs mw in order (first to last) with handler at the end.
func Compose(ev *endpoint.RequestEvent, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ev, next)
		}
	}
	return chain()
}

// Chain combines several middleware into one.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		return Compose(ev, middleware, next)
	})
}

// Skip bypasses mw when condition is true.
func Skip(condition func(ev *endpoint.RequestEvent) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		if condition(ev) {
			return next()
		}
		return mw.Handle(ev, next)
	})
}

// Only runs mw only when condition is true.
func Only(condition func(ev *endpoint.RequestEvent) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		if !condition(ev) {
			return next()
		}
		return mw.Handle(ev, next)
	})
}
