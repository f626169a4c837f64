package nav

import (
	"net/url"
)

// History is a browser-like location container.
//
// The current URL is the only navigation state there is; views are
// always derived from it via ActiveView, never stored on their own, so
// back/forward and deep links cannot drift from what is shown.
type History struct {
	stack []*url.URL
	pos   int
}

// NewHistory starts a history at the given location.
//
// A location that does not parse starts the history at the default view,
// like a browser landing on the portal root.
func NewHistory(location string) *History {
	u, err := url.Parse(location)
	if err != nil || u.Path == "" {
		u = PathFor(DefaultView)
	}
	return &History{stack: []*url.URL{u}, pos: 0}
}

// Current returns a copy of the current location.
func (h *History) Current() *url.URL {
	u := *h.stack[h.pos]
	return &u
}

// ActiveView derives the view for the current location.
func (h *History) ActiveView() ViewID {
	return ActiveView(h.stack[h.pos])
}

// Navigate pushes the canonical location of view, dropping any forward
// entries, exactly like a browser pushState. It writes the URL and
// nothing else; the view change is observable only through ActiveView.
func (h *History) Navigate(view ViewID, projectID ...int64) {
	h.push(PathFor(view, projectID...))
}

// Visit pushes an arbitrary location, e.g. a deep link a user pasted.
func (h *History) Visit(location string) {
	u, err := url.Parse(location)
	if err != nil {
		u = PathFor(DefaultView)
	}
	h.push(u)
}

func (h *History) push(u *url.URL) {
	h.stack = append(h.stack[:h.pos+1], u)
	h.pos = len(h.stack) - 1
}

// Back moves to the previous location. It reports false at the far end.
func (h *History) Back() bool {
	if h.pos <= 0 {
		return false
	}
	h.pos -= 1
	return true
}

// Forward moves to the next location. It reports false at the near end.
func (h *History) Forward() bool {
	if len(h.stack)-1 <= h.pos {
		return false
	}
	h.pos += 1
	return true
}
