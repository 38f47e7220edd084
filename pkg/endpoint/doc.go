// Package endpoint defines request handlers and the normalization of their
// responses.
//
// A Module holds at most one Handler per HTTP method plus a catch-all
// OnRequest. Handlers return a *Response whose defaults are resolved by
// Normalize:
//
//	func onGet(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
//	    post, err := store.Post(ev.Context(), ev.Params.Get("slug"))
//	    if err != nil {
//	        return nil, endpoint.NotFound("no such post")
//	    }
//	    return &endpoint.Response{Body: post}, nil
//	}
//
//	var Endpoint = endpoint.Module{OnGet: onGet}
//
// Setting Redirect without Status produces a 307 Temporary Redirect.
// Without a Content-Type header the body is serialized as JSON.
package endpoint
