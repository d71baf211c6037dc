package submissionshandler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dienstplan/internal/domain/auth"
	"dienstplan/internal/domain/submissions"
	"dienstplan/internal/platform/jobs"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
	"dienstplan/internal/transport/http/shared"
)

type Handler struct {
	Subs *submissions.Service
	Jobs *jobs.Service
}

func NewHandler(subs *submissions.Service, jobSvc *jobs.Service) *Handler {
	return &Handler{Subs: subs, Jobs: jobSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/submissions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/sign", h.handleSignAsEmployee)
		r.Post("/withdraw", h.handleWithdraw)
		r.Get("/team/{teamID}", h.handleGetForTeam)
		r.With(middleware.RequireManage).Post("/reminders/run", h.handleRunReminders)
		r.Get("/{submissionID}", h.handleGet)
		r.Get("/{submissionID}/signatures", h.handleSignatures)
	})
}

// RegisterPublicRoutes mounts the recipient signing endpoints. They are
// authenticated by the link token alone.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/sign/{token}", h.handleSignPage)
	r.Post("/sign/{token}", h.handleSignAsRecipient)
}

func writeSubmissionError(w http.ResponseWriter, err error, reqID string) {
	// A serialization failure means the submission changed under a
	// serializable transaction; surface it as the same retryable
	// conflict as a lost status update.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "40001" {
		api.Fail(w, http.StatusConflict, "status_changed", "the submission changed concurrently, please retry", reqID)
		return
	}

	switch {
	case errors.Is(err, submissions.ErrSubmissionNotFound), errors.Is(err, submissions.ErrSignatureNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, submissions.ErrRecipientAlreadySigned):
		api.Fail(w, http.StatusConflict, "recipient_already_signed", "the recipient has already signed this submission", reqID)
	case errors.Is(err, submissions.ErrSubmissionCompleted):
		api.Fail(w, http.StatusConflict, "submission_completed", "the submission is completed and immutable", reqID)
	case errors.Is(err, submissions.ErrStatusChanged):
		api.Fail(w, http.StatusConflict, "status_changed", "the submission changed concurrently, please retry", reqID)
	case errors.Is(err, submissions.ErrNotPendingRecipient):
		api.Fail(w, http.StatusConflict, "not_pending_recipient", "the submission is not awaiting the recipient", reqID)
	case errors.Is(err, submissions.ErrMonthNotSubmitted):
		api.Fail(w, http.StatusConflict, "month_not_submitted", "all shifts of the month must be submitted before signing", reqID)
	case errors.Is(err, submissions.ErrNoTeam):
		api.Fail(w, http.StatusBadRequest, "validation_error", "worker is not assigned to a team", reqID)
	case errors.Is(err, auth.ErrSigningTokenExpired):
		api.Fail(w, http.StatusUnauthorized, "token_expired", "the signing link has expired", reqID)
	case errors.Is(err, auth.ErrSigningTokenInvalid):
		api.Fail(w, http.StatusUnauthorized, "token_invalid", "the signing link is not valid", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

type periodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (h *Handler) decodePeriod(w http.ResponseWriter, r *http.Request, reqID string) (periodRequest, bool) {
	var payload periodRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return payload, false
	}
	v := shared.NewValidator()
	if payload.Month < 1 || payload.Month > 12 {
		v.Add("month", "must be a month between 1 and 12")
	}
	if payload.Year < 2000 || payload.Year > 2100 {
		v.Add("year", "must be a year between 2000 and 2100")
	}
	if v.Reject(w, reqID) {
		return payload, false
	}
	return payload, true
}

func (h *Handler) handleSignAsEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.WorkerID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "account is not linked to a worker", reqID)
		return
	}

	payload, ok := h.decodePeriod(w, r, reqID)
	if !ok {
		return
	}

	sub, err := h.Subs.SignAsEmployee(r.Context(), user.WorkerID, payload.Month, payload.Year)
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, sub, reqID)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.WorkerID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "account is not linked to a worker", reqID)
		return
	}

	payload, ok := h.decodePeriod(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Subs.Withdraw(r.Context(), user.WorkerID, payload.Month, payload.Year); err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": submissions.StatusPendingEmployees}, reqID)
}

func (h *Handler) handleGetForTeam(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	month, year, ok := v.Month("month", r.URL.Query().Get("month"), "year", r.URL.Query().Get("year"))
	if !ok {
		v.Reject(w, reqID)
		return
	}

	sub, err := h.Subs.GetForTeam(r.Context(), chi.URLParam(r, "teamID"), month, year)
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, sub, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sub, err := h.Subs.Get(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, sub, reqID)
}

func (h *Handler) handleSignatures(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	signatures, err := h.Subs.Signatures(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, signatures, reqID)
}

func (h *Handler) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	result, err := h.Jobs.RunNow(r.Context(), jobs.JobReminderSweep, func(ctx context.Context) (any, error) {
		return h.Subs.SendReminders(ctx, time.Now())
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "reminder sweep failed", reqID)
		return
	}
	api.Success(w, result, reqID)
}

// handleSignPage lets the recipient's browser preview what the link
// signs before posting.
func (h *Handler) handleSignPage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sub, err := h.Subs.PreviewByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, sub, reqID)
}

type recipientSignRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) handleSignAsRecipient(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload recipientSignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Signature) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "signature is required", reqID)
		return
	}
	blob, err := base64.StdEncoding.DecodeString(payload.Signature)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "signature must be base64 encoded", reqID)
		return
	}

	sub, err := h.Subs.SignAsRecipient(r.Context(), chi.URLParam(r, "token"), blob, clientIP(r))
	if err != nil {
		writeSubmissionError(w, err, reqID)
		return
	}
	api.Success(w, sub, reqID)
}

func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		if value := strings.TrimSpace(parts[0]); value != "" {
			return value
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
