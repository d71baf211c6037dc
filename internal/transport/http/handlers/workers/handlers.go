package workershandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dienstplan/internal/domain/workers"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
	"dienstplan/internal/transport/http/shared"
)

type Handler struct {
	Workers *workers.Store
}

func NewHandler(store *workers.Store) *Handler {
	return &Handler{Workers: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(middleware.RequireManage).Post("/", h.handleCreate)
		r.Get("/{workerID}", h.handleGet)
		r.With(middleware.RequireManage).Put("/{workerID}", h.handleUpdate)
	})
	r.Route("/teams", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListTeams)
		r.With(middleware.RequireManage).Post("/", h.handleCreateTeam)
		r.Get("/{teamID}", h.handleGetTeam)
		r.With(middleware.RequireManage).Put("/{teamID}", h.handleUpdateTeam)
	})
}

func writeWorkerError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, workers.ErrWorkerNotFound), errors.Is(err, workers.ErrTeamNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	teamID := strings.TrimSpace(r.URL.Query().Get("teamId"))
	list, err := h.Workers.List(r.Context(), teamID)
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	worker, err := h.Workers.Get(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, worker, reqID)
}

func (h *Handler) validateWorker(w http.ResponseWriter, payload workers.Worker, reqID string) bool {
	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	return !v.Reject(w, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload workers.Worker
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if !h.validateWorker(w, payload, reqID) {
		return
	}

	id, err := h.Workers.Create(r.Context(), payload)
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload workers.Worker
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if !h.validateWorker(w, payload, reqID) {
		return
	}

	if err := h.Workers.Update(r.Context(), chi.URLParam(r, "workerID"), payload); err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, payload, reqID)
}

func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	teams, err := h.Workers.ListTeams(r.Context())
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, teams, reqID)
}

func (h *Handler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	team, err := h.Workers.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, team, reqID)
}

func (h *Handler) validateTeam(w http.ResponseWriter, payload workers.Team, reqID string) bool {
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("recipientName", payload.RecipientName, "recipient name is required")
	v.Required("recipientEmail", payload.RecipientEmail, "recipient email is required")
	return !v.Reject(w, reqID)
}

func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload workers.Team
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if !h.validateTeam(w, payload, reqID) {
		return
	}

	id, err := h.Workers.CreateTeam(r.Context(), payload)
	if err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload workers.Team
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if !h.validateTeam(w, payload, reqID) {
		return
	}

	if err := h.Workers.UpdateTeam(r.Context(), chi.URLParam(r, "teamID"), payload); err != nil {
		writeWorkerError(w, err, reqID)
		return
	}
	api.Success(w, payload, reqID)
}
