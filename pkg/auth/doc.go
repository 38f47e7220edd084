// Package auth provides authentication helpers and authorization
// middleware for city handlers.
//
// The authenticated user lives on the endpoint.RequestEvent. Authenticate
// fills it from a Provider; Set stores any user type directly:
//
//	tokens := auth.ProviderFunc(func(r *http.Request) (*auth.Principal, bool, error) {
//	    token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
//	    if !ok {
//	        return nil, false, nil
//	    }
//	    return lookup(r.Context(), token)
//	})
//
//	h := city.New(r, city.WithMiddleware(auth.Authenticate(tokens)))
//
// Handlers read the user with Get or Require:
//
//	OnGet: func(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
//	    user, err := auth.Require[*auth.Principal](ev)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &endpoint.Response{Body: user}, nil
//	}
//
// # Errors
//
// ErrUnauthorized and ErrForbidden carry their HTTP status, so returning
// either from middleware or a handler produces a 401 or 403 response.
// Wrapped errors keep the status:
//
//	return fmt.Errorf("%w: token revoked", auth.ErrUnauthorized)
package auth
