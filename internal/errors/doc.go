// Package errors provides structured, coded errors for City.
//
// Every error produced while loading configuration, scanning a routes
// directory, building a route plan or reading a manifest carries a code
// (e.g. "E201") that maps to a registered template with a short message,
// a longer explanation and a documentation link.
//
// # Error Categories
//
//   - route: route table and pattern errors (E200-E219)
//   - manifest: manifest encoding and storage errors (E220-E239)
//   - config: configuration file errors (E120-E139, E141)
//   - cli: command line errors (E160-E179)
//   - runtime: request handling errors (E100-E119)
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail(`pattern ^/blog/([^/]+?)/?$ is declared twice`).
//	    WithLocation("app/routes/blog/[slug]/index.go", 1, 1).
//	    WithSuggestion("Remove one of the route files").
//	    Wrap(router.ErrDuplicatePattern)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: Duplicate route pattern
//	//
//	//   app/routes/blog/[slug]/index.go:1:1
//	//
//	//   pattern ^/blog/([^/]+?)/?$ is declared twice
//	//
//	//   Hint: Remove one of the route files
//	//
//	//   Learn more: https://city.vango.dev/errors/E201
//
// CityError implements Unwrap, so the wrapped sentinel is reachable with
// the standard library's errors.Is.
package errors
