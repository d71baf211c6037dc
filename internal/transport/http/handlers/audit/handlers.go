package audithandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dienstplan/internal/domain/audit"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
	"dienstplan/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{Audit: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireManage)
		r.Get("/", h.handleList)
	})
}

type listResponse struct {
	Entries []audit.Entry `json:"entries"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	filter := audit.Filter{
		WorkerID: strings.TrimSpace(r.URL.Query().Get("workerId")),
		Action:   strings.TrimSpace(r.URL.Query().Get("action")),
	}
	page := shared.ParsePagination(r, 50, 200)

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
		return
	}
	entries, err := h.Audit.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	api.Success(w, listResponse{Entries: entries, Total: total, Limit: page.Limit, Offset: page.Offset}, reqID)
}
