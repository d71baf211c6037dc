package shared

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"dienstplan/internal/domain/timeclock"
	"dienstplan/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

// Clock validates an optional HH:MM value.
func (v *Validator) Clock(field, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	if _, err := timeclock.ParseClock(raw); err != nil {
		v.Add(field, "must be a valid HH:MM time")
	}
}

// Month validates a month/year pair given as strings.
func (v *Validator) Month(monthField, monthRaw, yearField, yearRaw string) (int, int, bool) {
	month, err := strconv.Atoi(strings.TrimSpace(monthRaw))
	if err != nil || month < 1 || month > 12 {
		v.Add(monthField, "must be a month between 1 and 12")
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearRaw))
	if err != nil || year < 2000 || year > 2100 {
		v.Add(yearField, "must be a year between 2000 and 2100")
	}
	return month, year, !v.HasIssues()
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]ValidationIssue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": v.Issues()},
		requestID,
	)
	return true
}
