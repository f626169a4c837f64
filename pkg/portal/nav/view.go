package nav

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// ViewID names one screen of the portal dashboard.
type ViewID string

const (
	ViewOverview      ViewID = "overview"
	ViewProjects      ViewID = "projects"
	ViewProjectDetail ViewID = "project-detail"
	ViewPeople        ViewID = "people"
	ViewSettings      ViewID = "settings"
)

// Views is the whitelist. ActiveView never returns anything outside it.
var Views = []ViewID{
	ViewOverview, ViewProjects, ViewProjectDetail, ViewPeople, ViewSettings,
}

// DefaultView is where every unrecognized URL lands.
const DefaultView = ViewOverview

// route patterns per view. A trailing "/#" stands for one numeric path
// segment. Matching picks the longest pattern that applies, so
// "/projects/#" beats "/projects" for "/projects/42" no matter in which
// order the table is iterated.
var routes = map[ViewID]string{
	ViewOverview:      "/dashboard",
	ViewProjects:      "/projects",
	ViewProjectDetail: "/projects/#",
	ViewPeople:        "/people",
	ViewSettings:      "/settings",
}

// ParseView checks a plain view name against the whitelist.
func ParseView(s string) (ViewID, bool) {
	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}
	return DefaultView, false
}

// ActiveView derives the dashboard view from a URL.
//
// It is total: every URL, including a malformed or foreign one, maps to
// exactly one whitelist member. The mapping reads only the URL, so it is
// stable across page reloads and process restarts.
//
// A "view" query parameter naming a whitelist member wins; otherwise the
// path is matched against the route table by longest pattern.
func ActiveView(u *url.URL) ViewID {
	if u == nil {
		return DefaultView
	}

	if q := u.Query().Get("view"); q != "" {
		if v, ok := ParseView(q); ok {
			return v
		}
	}

	p := path.Clean("/" + u.Path)

	best := DefaultView
	bestLen := -1
	for view, pattern := range routes {
		if matchRoute(p, pattern) && bestLen < len(pattern) {
			best = view
			bestLen = len(pattern)
		}
	}
	return best
}

// matchRoute reports whether p falls under pattern at a segment boundary.
func matchRoute(p string, pattern string) bool {
	if numeric, ok := strings.CutSuffix(pattern, "/#"); ok {
		rest, found := strings.CutPrefix(p, numeric+"/")
		if !found {
			return false
		}
		seg, _, _ := strings.Cut(rest, "/")
		_, err := strconv.ParseInt(seg, 10, 64)
		return err == nil
	}

	if p == pattern {
		return true
	}
	return strings.HasPrefix(p, pattern+"/")
}

// PathFor is the inverse of ActiveView for canonical locations:
// ActiveView(PathFor(v, ...)) == v for every whitelist member.
//
// ViewProjectDetail takes the project id as argument; without one it
// falls back to the projects list, which is the only honest location.
func PathFor(view ViewID, projectID ...int64) *url.URL {
	switch view {
	case ViewProjects:
		return &url.URL{Path: "/projects"}
	case ViewProjectDetail:
		if len(projectID) < 1 {
			return &url.URL{Path: "/projects"}
		}
		return &url.URL{Path: "/projects/" + strconv.FormatInt(projectID[0], 10)}
	case ViewPeople:
		return &url.URL{Path: "/people"}
	case ViewSettings:
		return &url.URL{Path: "/settings"}
	default:
		return &url.URL{Path: "/dashboard"}
	}
}
