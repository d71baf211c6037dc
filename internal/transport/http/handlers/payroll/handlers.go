package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dienstplan/internal/domain/payroll"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
	"dienstplan/internal/transport/http/shared"
)

type Handler struct {
	Payroll *payroll.Service
}

func NewHandler(svc *payroll.Service) *Handler {
	return &Handler{Payroll: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/summary", h.handleSummary)
		r.Route("/wage-config/{workerID}", func(r chi.Router) {
			r.Use(middleware.RequireManage)
			r.Get("/", h.handleGetWageConfig)
			r.Put("/", h.handlePutWageConfig)
		})
	})
	r.Route("/holidays", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListHolidays)
		r.With(middleware.RequireManage).Put("/", h.handlePutHoliday)
		r.With(middleware.RequireManage).Delete("/{day}", h.handleDeleteHoliday)
	})
}

func writePayrollError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, payroll.ErrWageConfigNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "no wage configuration for this worker", reqID)
	case errors.Is(err, payroll.ErrHolidayNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "holiday not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	manager := user.Role == "ADMIN" || user.Role == "TEAMLEAD"
	workerID := strings.TrimSpace(r.URL.Query().Get("workerId"))
	if workerID == "" && !manager {
		workerID = user.WorkerID
		if workerID == "" {
			api.Fail(w, http.StatusBadRequest, "validation_error", "workerId is required", reqID)
			return
		}
	}
	if workerID != "" && workerID != user.WorkerID && !manager {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another worker's payroll", reqID)
		return
	}

	v := shared.NewValidator()
	month, year, ok := v.Month("month", r.URL.Query().Get("month"), "year", r.URL.Query().Get("year"))
	if !ok {
		v.Reject(w, reqID)
		return
	}

	// Managers get the all-workers batch when no worker is named.
	if workerID == "" {
		batch, err := h.Payroll.ComputeAll(r.Context(), month, year)
		if err != nil {
			writePayrollError(w, err, reqID)
			return
		}
		api.Success(w, batch, reqID)
		return
	}

	summary, err := h.Payroll.ComputeMonth(r.Context(), workerID, month, year)
	if err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleGetWageConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	cfg, err := h.Payroll.GetWageConfig(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, cfg, reqID)
}

func (h *Handler) handlePutWageConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload payroll.WageConfig
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.WorkerID = chi.URLParam(r, "workerID")

	v := shared.NewValidator()
	if payload.HourlyWage < 0 {
		v.Add("hourlyWage", "must not be negative")
	}
	if payload.WeeklyHours < 0 {
		v.Add("weeklyHours", "must not be negative")
	}
	if payload.StackingCap < 0 {
		v.Add("stackingCap", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Payroll.SetWageConfig(r.Context(), payload); err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, payload, reqID)
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if err != nil || year < 2000 || year > 2100 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "year must be between 2000 and 2100", reqID)
		return
	}

	holidays, err := h.Payroll.ListHolidays(r.Context(), year)
	if err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, holidays, reqID)
}

type holidayRequest struct {
	Day  string `json:"day"`
	Name string `json:"name"`
}

func (h *Handler) handlePutHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	day, _ := v.Date("day", payload.Day)
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Payroll.SetHoliday(r.Context(), day, strings.TrimSpace(payload.Name)); err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, payroll.Holiday{Day: day, Name: strings.TrimSpace(payload.Name)}, reqID)
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	day, err := shared.ParseDate(chi.URLParam(r, "day"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", "day must be a valid date in YYYY-MM-DD format", reqID)
		return
	}

	if err := h.Payroll.RemoveHoliday(r.Context(), day); err != nil {
		writePayrollError(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}
