package shared

import (
	"net/http"
	"strconv"
)

// Page is a clamped limit/offset window parsed from query parameters.
type Page struct {
	Limit  int
	Offset int
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// ParsePagination reads limit/offset, falling back to defaultLimit and
// clamping to maxLimit. Malformed values fall back rather than error.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Page {
	limit := queryInt(r, "limit", defaultLimit)
	if limit == 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Page{
		Limit:  limit,
		Offset: queryInt(r, "offset", 0),
	}
}
