package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt parses an integer query parameter and clamps it to [lo, hi].
// Missing or invalid values yield def.
func QueryInt(q url.Values, key string, def, lo, hi int) int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}
