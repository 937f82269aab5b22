package http

import (
	"net/url"
	"strconv"
	"strings"
)

// optionalQuery returns nil for a missing or blank query parameter.
func optionalQuery(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// intQuery returns 0 for a missing or malformed value so the filter's own
// defaults apply.
func intQuery(q url.Values, key string) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return n
}
