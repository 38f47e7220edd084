package endpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vango-dev/city/pkg/httpstatus"
)

// DefaultContentType is used when a response does not set Content-Type.
const DefaultContentType = "application/json; charset=utf-8"

// Response is what an endpoint handler returns.
type Response struct {
	// Body is serialized according to the Content-Type header: JSON when the
	// type contains "json" (the default), as text otherwise.
	Body any

	// Headers are response headers. Empty values are treated as unset.
	Headers map[string]string

	// Status is the HTTP status code. Zero means 200, or 307 when Redirect
	// is set.
	Status int

	// Redirect, when set, becomes the Location header.
	Redirect string
}

// Normalized is a response with every field resolved.
// Headers is never nil and Status is never zero.
type Normalized struct {
	Body    any         `json:"body"`
	Headers http.Header `json:"headers"`
	Status  int         `json:"status"`
}

// Normalize resolves the defaults of a handler response. A nil response
// normalizes to an empty 200 response.
func Normalize(res *Response) *Normalized {
	out := &Normalized{
		Headers: make(http.Header),
		Status:  http.StatusOK,
	}
	if res == nil {
		out.Headers.Set("Content-Type", DefaultContentType)
		return out
	}

	for name, value := range res.Headers {
		if value == "" {
			continue
		}
		out.Headers.Set(name, value)
	}

	switch {
	case res.Status != 0:
		out.Status = res.Status
	case res.Redirect != "":
		out.Status = int(httpstatus.StatusTemporaryRedirect)
	}
	if res.Redirect != "" {
		out.Headers.Set("Location", res.Redirect)
	}
	if out.Headers.Get("Content-Type") == "" {
		out.Headers.Set("Content-Type", DefaultContentType)
	}
	out.Body = res.Body
	return out
}

// IsJSON reports whether the body is serialized as JSON.
func (n *Normalized) IsJSON() bool {
	return strings.Contains(strings.ToLower(n.Headers.Get("Content-Type")), "json")
}

// Encode serializes the body. Readers are not supported here; use WriteTo.
func (n *Normalized) Encode() ([]byte, error) {
	switch body := n.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return body, nil
	case json.RawMessage:
		return body, nil
	case io.Reader:
		return nil, fmt.Errorf("streaming body cannot be encoded in memory")
	}

	if n.IsJSON() {
		return json.Marshal(n.Body)
	}
	switch body := n.Body.(type) {
	case string:
		return []byte(body), nil
	case fmt.Stringer:
		return []byte(body.String()), nil
	default:
		return []byte(fmt.Sprint(body)), nil
	}
}

// Check reports whether the body can be encoded. Streaming bodies always pass.
func (n *Normalized) Check() error {
	if _, ok := n.Body.(io.Reader); ok {
		return nil
	}
	_, err := n.Encode()
	return err
}

// WriteTo writes headers, status and body to w. The body is omitted for
// HEAD requests and for statuses that forbid one. An encoding error is
// returned before anything is written to w.
func (n *Normalized) WriteTo(w http.ResponseWriter, method Method) error {
	var payload []byte
	reader, streaming := n.Body.(io.Reader)
	if !streaming {
		var err error
		payload, err = n.Encode()
		if err != nil {
			return err
		}
	}

	header := w.Header()
	for name, values := range n.Headers {
		header[name] = append([]string(nil), values...)
	}

	writeBody := method != MethodHead && httpstatus.BodyAllowed(n.Status)
	if !writeBody {
		header.Del("Content-Length")
	}
	w.WriteHeader(n.Status)
	if !writeBody {
		return nil
	}
	if streaming {
		_, err := io.Copy(w, reader)
		return err
	}
	_, err := w.Write(payload)
	return err
}
