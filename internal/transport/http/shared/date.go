package shared

import "time"

// dateLayouts are tried in order; clients send either a full timestamp
// or a plain calendar day.
var dateLayouts = [...]string{time.RFC3339, "2006-01-02"}

// ParseDate parses an RFC3339 timestamp or a YYYY-MM-DD day. An empty
// value yields the zero time without error.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
