package submissionshandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"dienstplan/internal/domain/auth"
	"dienstplan/internal/domain/submissions"
)

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Error.Code
}

func TestWriteSubmissionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: submissions.ErrSubmissionNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "recipient already signed", err: submissions.ErrRecipientAlreadySigned, wantStatus: http.StatusConflict, wantCode: "recipient_already_signed"},
		{name: "completed", err: submissions.ErrSubmissionCompleted, wantStatus: http.StatusConflict, wantCode: "submission_completed"},
		{name: "lost update", err: submissions.ErrStatusChanged, wantStatus: http.StatusConflict, wantCode: "status_changed"},
		{name: "month not submitted", err: submissions.ErrMonthNotSubmitted, wantStatus: http.StatusConflict, wantCode: "month_not_submitted"},
		{name: "no team", err: submissions.ErrNoTeam, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "expired token", err: auth.ErrSigningTokenExpired, wantStatus: http.StatusUnauthorized, wantCode: "token_expired"},
		{name: "invalid token", err: auth.ErrSigningTokenInvalid, wantStatus: http.StatusUnauthorized, wantCode: "token_invalid"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeSubmissionError(rec, tc.err, "req-1")
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, code)
			}
		})
	}
}

func TestWriteSubmissionErrorSerializationFailure(t *testing.T) {
	// A serializable transaction losing its race surfaces as SQLSTATE
	// 40001; the caller must see the retryable conflict, not a 500.
	err := fmt.Errorf("withdraw: %w", &pgconn.PgError{Code: "40001", Message: "could not serialize access"})

	rec := httptest.NewRecorder()
	writeSubmissionError(rec, err, "req-1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for serialization failure, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "status_changed" {
		t.Fatalf("expected status_changed, got %q", code)
	}
}
