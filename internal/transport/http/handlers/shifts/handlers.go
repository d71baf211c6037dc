package shiftshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dienstplan/internal/domain/payroll"
	"dienstplan/internal/domain/shifts"
	"dienstplan/internal/domain/timeclock"
	"dienstplan/internal/domain/workers"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
	"dienstplan/internal/transport/http/shared"
)

type Handler struct {
	Shifts  *shifts.Service
	Workers *workers.Store
	Payroll *payroll.Service
}

func NewHandler(shiftSvc *shifts.Service, workerStore *workers.Store, payrollSvc *payroll.Service) *Handler {
	return &Handler{Shifts: shiftSvc, Workers: workerStore, Payroll: payrollSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListMonth)
		r.With(middleware.RequireManage).Post("/", h.handleCreate)
		r.Post("/submit-month", h.handleSubmitMonth)
		r.Route("/{shiftID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireManage).Put("/", h.handleUpdatePlan)
			r.With(middleware.RequireManage).Delete("/", h.handleDelete)
			r.Post("/confirm", h.handleConfirm)
			r.Post("/change", h.handleChange)
		})
	})
}

func writeShiftError(w http.ResponseWriter, err error, reqID string) {
	var remaining *shifts.PlannedRemainingError
	switch {
	case errors.Is(err, shifts.ErrShiftNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "shift not found", reqID)
	case errors.Is(err, shifts.ErrNotShiftOwner):
		api.Fail(w, http.StatusForbidden, "forbidden", "shift belongs to another worker", reqID)
	case errors.Is(err, shifts.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "shift status does not allow this transition", reqID)
	case errors.Is(err, shifts.ErrInvalidAbsence), errors.Is(err, shifts.ErrNegativeBreak), errors.Is(err, timeclock.ErrInvalidClock):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	case errors.As(err, &remaining):
		api.FailWithDetails(w, http.StatusConflict, "unprocessed_shifts",
			"planned shifts must be confirmed or changed before submitting",
			map[string]any{"remaining": remaining.Count}, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

// resolveWorkerID returns the worker the request acts for. Workers act
// for themselves; admins and team leads may pass ?workerId=.
func resolveWorkerID(r *http.Request, user middleware.UserContext) string {
	requested := r.URL.Query().Get("workerId")
	if requested != "" && requested != user.WorkerID {
		if !canManage(user) {
			return ""
		}
		return requested
	}
	return user.WorkerID
}

func canManage(user middleware.UserContext) bool {
	return user.Role == "ADMIN" || user.Role == "TEAMLEAD"
}

func (h *Handler) handleListMonth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	v := shared.NewValidator()
	month, year, ok := v.Month("month", r.URL.Query().Get("month"), "year", r.URL.Query().Get("year"))
	if !ok {
		v.Reject(w, reqID)
		return
	}

	workerID := resolveWorkerID(r, user)
	if workerID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot list another worker's shifts", reqID)
		return
	}

	list, err := h.Shifts.ListMonth(r.Context(), workerID, month, year)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	sh, err := h.Shifts.Get(r.Context(), chi.URLParam(r, "shiftID"))
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	if sh.WorkerID != user.WorkerID && !canManage(user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "shift belongs to another worker", reqID)
		return
	}
	api.Success(w, sh, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload shifts.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("workerId", payload.WorkerID, "is required")
	v.Date("date", payload.Date)
	v.Clock("plannedStart", payload.PlannedStart)
	v.Clock("plannedEnd", payload.PlannedEnd)
	if payload.BreakMinutes < 0 {
		v.Add("breakMinutes", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	sheetKey, err := h.Workers.TeamIDForWorker(r.Context(), payload.WorkerID)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	if sheetKey == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "worker is not assigned to a team", reqID)
		return
	}

	id, err := h.Shifts.Create(r.Context(), payload, sheetKey, user.UserID)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(payload.WorkerID)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload shifts.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Clock("plannedStart", payload.PlannedStart)
	v.Clock("plannedEnd", payload.PlannedEnd)
	if payload.BreakMinutes < 0 {
		v.Add("breakMinutes", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	ownerID, err := h.Shifts.UpdatePlan(r.Context(), shiftID, payload, user.UserID)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(ownerID)
	api.Success(w, map[string]string{"id": shiftID}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	sh, err := h.Shifts.Get(r.Context(), shiftID)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	if err := h.Shifts.Delete(r.Context(), shiftID, user.UserID); err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(sh.WorkerID)
	api.Success(w, map[string]string{"id": shiftID}, reqID)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	if err := h.Shifts.Confirm(r.Context(), user.WorkerID, shiftID); err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(user.WorkerID)
	api.Success(w, map[string]string{"id": shiftID, "status": shifts.StatusConfirmed}, reqID)
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload shifts.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Clock("actualStart", payload.ActualStart)
	v.Clock("actualEnd", payload.ActualEnd)
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Shifts.Change(r.Context(), user.WorkerID, shiftID, payload); err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(user.WorkerID)
	api.Success(w, map[string]string{"id": shiftID, "status": shifts.StatusChanged}, reqID)
}

type submitMonthRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (h *Handler) handleSubmitMonth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if user.WorkerID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "account is not linked to a worker", reqID)
		return
	}
	v := shared.NewValidator()
	if payload.Month < 1 || payload.Month > 12 {
		v.Add("month", "must be a month between 1 and 12")
	}
	if payload.Year < 2000 || payload.Year > 2100 {
		v.Add("year", "must be a year between 2000 and 2100")
	}
	if v.Reject(w, reqID) {
		return
	}

	count, err := h.Shifts.SubmitMonth(r.Context(), user.WorkerID, user.UserID, payload.Month, payload.Year)
	if err != nil {
		writeShiftError(w, err, reqID)
		return
	}
	h.Payroll.InvalidateWorker(user.WorkerID)
	api.Success(w, map[string]any{"submitted": count}, reqID)
}
