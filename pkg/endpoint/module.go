package endpoint

// Handler handles a request. Returning a nil response means the handler
// produced no response.
type Handler func(ev *RequestEvent) (*Response, error)

// Module is a set of request handlers, at most one per method, plus a
// catch-all OnRequest used when no method handler is declared.
type Module struct {
	OnGet     Handler
	OnPost    Handler
	OnPut     Handler
	OnPatch   Handler
	OnDelete  Handler
	OnHead    Handler
	OnOptions Handler
	OnRequest Handler
}

// Handler returns the handler serving method. HEAD falls back to OnGet, and
// every method falls back to OnRequest. Returns nil if nothing serves it.
func (m *Module) Handler(method Method) Handler {
	if m == nil {
		return nil
	}
	var h Handler
	switch method {
	case MethodGet:
		h = m.OnGet
	case MethodPost:
		h = m.OnPost
	case MethodPut:
		h = m.OnPut
	case MethodPatch:
		h = m.OnPatch
	case MethodDelete:
		h = m.OnDelete
	case MethodHead:
		h = m.OnHead
		if h == nil {
			h = m.OnGet
		}
	case MethodOptions:
		h = m.OnOptions
	}
	if h == nil {
		h = m.OnRequest
	}
	return h
}

// Methods returns the methods the module can serve, in Methods order.
func (m *Module) Methods() []Method {
	var out []Method
	for _, method := range Methods {
		if m.Handler(method) != nil {
			out = append(out, method)
		}
	}
	return out
}

// Empty reports whether the module declares no handler.
func (m *Module) Empty() bool {
	return m == nil || (m.OnGet == nil && m.OnPost == nil && m.OnPut == nil &&
		m.OnPatch == nil && m.OnDelete == nil && m.OnHead == nil &&
		m.OnOptions == nil && m.OnRequest == nil)
}
