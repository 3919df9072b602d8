package obs

import "strings"

// CanonicalPath collapses per-instance URL segments so metric labels stay
// low-cardinality (/v1/campaigns/<ulid> becomes /v1/campaigns/:id).
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "v1" && instanceResource(parts[1]) {
		return "/v1/" + parts[1] + "/:id"
	}
	// Action subroutes like /v1/donations/<ulid>/complete also carry the
	// instance id in the third segment.
	if len(parts) == 4 && parts[0] == "v1" && instanceResource(parts[1]) {
		return "/v1/" + parts[1] + "/:id/" + parts[3]
	}
	return path
}

func instanceResource(segment string) bool {
	switch segment {
	case "campaigns", "donations", "organizations", "profiles", "users":
		return true
	}
	return false
}
