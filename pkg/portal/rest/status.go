package rest

import (
	"fmt"
	"net/http"
)

// StatusCodeRange buckets portal responses by their status-code
// hundreds. The client layer acts on the bucket, not the exact code:
// 2xx settles, 4xx blames the request, 5xx blames the portal.
type StatusCodeRange int

const (
	StatusUnknown StatusCodeRange = iota
	Status1xx
	Status2xx
	Status3xx
	Status4xx
	Status5xx
)

// StatusCodeRangeOf buckets a portal response. Codes outside 100..599
// fall into StatusUnknown.
func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	hundreds := resp.StatusCode / 100
	if hundreds < 1 || 5 < hundreds {
		return StatusUnknown
	}
	return StatusCodeRange(hundreds)
}

// String is the fallback summary shown to the user when no
// operation-specific message is registered for the bucket.
func (sc StatusCodeRange) String() string {
	switch sc {
	case Status1xx:
		return "informational response from the portal"
	case Status2xx:
		return "success"
	case Status3xx:
		return "redirected by the portal"
	case Status4xx:
		return "request rejected by the portal"
	case Status5xx:
		return "portal-side error"
	default:
		return fmt.Sprintf("unexpected response status (range %d)", sc)
	}
}
