package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dienstplan/internal/domain/auth"
	"dienstplan/internal/transport/http/api"
	"dienstplan/internal/transport/http/middleware"
)

const tokenTTL = 12 * time.Hour

type Handler struct {
	Store  *auth.Store
	Secret string
}

func NewHandler(store *auth.Store, secret string) *Handler {
	return &Handler{Store: store, Secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	WorkerID string `json:"workerId,omitempty"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	user, err := h.Store.UserByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", reqID)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:   user.ID,
		WorkerID: user.WorkerID,
		Role:     user.Role,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", reqID)
		return
	}

	api.Success(w, loginResponse{Token: token, Role: user.Role, WorkerID: user.WorkerID}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	api.Success(w, user, reqID)
}
