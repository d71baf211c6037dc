package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidatorMonth(t *testing.T) {
	cases := []struct {
		name      string
		monthRaw  string
		yearRaw   string
		wantOK    bool
		wantMonth int
		wantYear  int
	}{
		{name: "valid pair", monthRaw: "7", yearRaw: "2025", wantOK: true, wantMonth: 7, wantYear: 2025},
		{name: "month too large", monthRaw: "13", yearRaw: "2025", wantOK: false},
		{name: "month not a number", monthRaw: "july", yearRaw: "2025", wantOK: false},
		{name: "year out of range", monthRaw: "7", yearRaw: "1999", wantOK: false},
		{name: "both empty", monthRaw: "", yearRaw: "", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator()
			month, year, ok := v.Month("month", tc.monthRaw, "year", tc.yearRaw)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v (issues %v)", tc.wantOK, ok, v.Issues())
			}
			if tc.wantOK && (month != tc.wantMonth || year != tc.wantYear) {
				t.Fatalf("expected %d/%d, got %d/%d", tc.wantMonth, tc.wantYear, month, year)
			}
		})
	}
}

func TestValidatorClockAcceptsEndOfDay(t *testing.T) {
	v := NewValidator()
	v.Clock("plannedEnd", "24:00")
	if v.HasIssues() {
		t.Fatalf("expected 24:00 to be valid, got %v", v.Issues())
	}

	v.Clock("plannedEnd", "24:01")
	if !v.HasIssues() {
		t.Fatal("expected 24:01 to be rejected")
	}
}

func TestValidatorRejectWritesSortedFieldIssues(t *testing.T) {
	v := NewValidator()
	v.Add("year", "must be a year between 2000 and 2100")
	v.Add("month", "must be a month between 1 and 12")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected Reject to write a response")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Success || envelope.Error.Code != "validation_error" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if envelope.RequestID != "req-1" {
		t.Fatalf("expected request id echoed, got %q", envelope.RequestID)
	}
	if len(envelope.Error.Details.Fields) != 2 || envelope.Error.Details.Fields[0].Field != "month" {
		t.Fatalf("expected issues sorted by field, got %+v", envelope.Error.Details.Fields)
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2025-03-01"); err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if _, err := ParseDate("2025-03-01T08:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if _, err := ParseDate("01.03.2025"); err == nil {
		t.Fatal("expected unsupported format to fail")
	}
}
