package endpoint

import (
	"fmt"
	"net/http"
	"strings"
)

// MethodNotAllowedError reports the methods a route does serve.
type MethodNotAllowedError struct {
	Method Method
	Allow  []Method
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMethodNotAllowed, e.Method)
}

// Is makes errors.Is(err, ErrMethodNotAllowed) match.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// StatusCode implements the status interface used by StatusOf.
func (e *MethodNotAllowedError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

// AllowHeader formats Allow as an HTTP header value.
func (e *MethodNotAllowedError) AllowHeader() string {
	parts := make([]string, len(e.Allow))
	for i, m := range e.Allow {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// DispatchOptions configures Dispatch.
type DispatchOptions struct {
	// Page marks the chain as belonging to a page route. A page leaf without
	// a handler still serves GET and HEAD, with an empty response.
	Page bool
}

// Dispatch runs the handlers of chain (root layout first, leaf last) for
// the event's method.
//
// A layout response with a redirect or a status of 300 or above ends the
// chain and becomes the result. Any other layout response contributes its
// headers only. The leaf response is the result; headers from layouts fill
// in names the leaf did not set. A result whose body cannot be encoded is
// reported as a 500 error.
func Dispatch(ev *RequestEvent, chain []*Module, opts DispatchOptions) (*Normalized, error) {
	method := ev.Method()
	inherited := make(http.Header)

	finish := func(res *Response) (*Normalized, error) {
		out := Normalize(res)
		for name, values := range inherited {
			if _, ok := out.Headers[name]; !ok {
				out.Headers[name] = values
			}
		}
		if err := out.Check(); err != nil {
			return nil, &HTTPError{Code: http.StatusInternalServerError, Message: "response encoding failed", Err: err}
		}
		ev.SetResponse(out)
		return out, nil
	}

	for i, m := range chain {
		leaf := i == len(chain)-1
		h := m.Handler(method)
		if h == nil {
			if leaf {
				break
			}
			continue
		}

		res, err := h(ev)
		if err != nil {
			return nil, err
		}
		if leaf {
			return finish(res)
		}
		if res == nil {
			continue
		}
		if res.Redirect != "" || res.Status >= 300 {
			return finish(res)
		}
		for name, value := range res.Headers {
			if value != "" {
				inherited.Set(name, value)
			}
		}
	}

	if opts.Page && method.Safe() {
		return finish(nil)
	}
	return nil, &MethodNotAllowedError{Method: method, Allow: allowed(chain, opts.Page)}
}

// allowed lists the methods the leaf of chain serves.
func allowed(chain []*Module, page bool) []Method {
	var leaf *Module
	if len(chain) > 0 {
		leaf = chain[len(chain)-1]
	}
	var out []Method
	for _, m := range Methods {
		if leaf.Handler(m) != nil || (page && m.Safe()) {
			out = append(out, m)
		}
	}
	return out
}
