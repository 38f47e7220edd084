// Package httpstatus enumerates the HTTP status codes an endpoint may return.
//
// The enumeration covers the IANA registered codes from 1xx through 5xx.
// Each code has an identifier (e.g. "Not_Found") and a display text
// (e.g. "Not Found"):
//
//	httpstatus.StatusNotFound.Name() // "Not_Found"
//	httpstatus.Text(404)             // "Not Found"
//	httpstatus.Lookup("Gone")        // httpstatus.StatusGone, true
package httpstatus

import (
	"strconv"
	"strings"
)

// Int returns the numeric status code.
func (s Status) Int() int {
	return int(s)
}

// Name returns the enumeration identifier, or "" for unknown codes.
func (s Status) Name() string {
	return names[s]
}

// String returns "404 Not Found" style text.
func (s Status) String() string {
	text := Text(int(s))
	if text == "" {
		return strconv.Itoa(int(s))
	}
	return strconv.Itoa(int(s)) + " " + text
}

// Text returns the display text for a status code, or "" if the code is
// not part of the enumeration.
func Text(code int) string {
	return strings.ReplaceAll(names[Status(code)], "_", " ")
}

// Known reports whether the code is part of the enumeration.
func Known(code int) bool {
	_, ok := names[Status(code)]
	return ok
}

// Lookup returns the status for an enumeration identifier.
// Matching is case-insensitive and accepts spaces in place of underscores.
func Lookup(name string) (Status, bool) {
	want := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	for status, n := range names {
		if strings.EqualFold(n, want) {
			return status, true
		}
	}
	return 0, false
}

// All returns every enumerated status in ascending order.
func All() []Status {
	out := make([]Status, 0, len(names))
	for code := 100; code < 600; code++ {
		if _, ok := names[Status(code)]; ok {
			out = append(out, Status(code))
		}
	}
	return out
}

// IsInformational reports whether code is 1xx.
func IsInformational(code int) bool { return code >= 100 && code < 200 }

// IsSuccess reports whether code is 2xx.
func IsSuccess(code int) bool { return code >= 200 && code < 300 }

// IsRedirect reports whether code is 3xx.
func IsRedirect(code int) bool { return code >= 300 && code < 400 }

// IsClientError reports whether code is 4xx.
func IsClientError(code int) bool { return code >= 400 && code < 500 }

// IsServerError reports whether code is 5xx.
func IsServerError(code int) bool { return code >= 500 && code < 600 }

// BodyAllowed reports whether a response with this status may carry a body.
func BodyAllowed(code int) bool {
	if IsInformational(code) {
		return false
	}
	return code != int(StatusNoContent) && code != int(StatusNotModified)
}
