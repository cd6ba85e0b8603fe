package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/autorenta/api/internal/delivery/http/middleware"
	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/pkg/validate"
	"github.com/autorenta/api/internal/repository"
	"github.com/autorenta/api/internal/usecase/user"
	"github.com/google/uuid"
)

// UserService определяет операции управления пользователями, нужные handler'у
type UserService interface {
	List(ctx context.Context, caller domain.Caller, filter repository.UserFilter) ([]*domain.User, error)
	GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, caller domain.Caller, req *user.CreateRequest) (*domain.User, error)
	Update(ctx context.Context, caller domain.Caller, id uuid.UUID, req *user.UpdateRequest) (*domain.User, error)
	SetStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.UserStatus) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

// setStatusRequest - тело PATCH запроса статуса учетной записи
type setStatusRequest struct {
	Status domain.UserStatus `json:"status" validate:"required"`
}

// UserHandler обрабатывает административные запросы к пользователям
type UserHandler struct {
	userService UserService
	logger      logger.Logger
}

// NewUserHandler создает новый handler
func NewUserHandler(userService UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List возвращает пользователей по фильтру
// GET /api/v1/users?search=&role=&status=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.UserFilter
	filter.Search = r.URL.Query().Get("search")

	if raw := r.URL.Query().Get("role"); raw != "" {
		role := domain.UserRole(raw)
		filter.Role = &role
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.UserStatus(raw)
		filter.Status = &status
	}

	users, err := h.userService.List(r.Context(), middleware.GetCaller(r.Context()), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, users)
}

// GetByID возвращает пользователя
// GET /api/v1/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.userService.GetByID(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, u)
}

// Create создает пользователя с произвольной ролью
// POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userService.Create(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, u)
}

// Update обновляет профиль пользователя
// PUT /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req user.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userService.Update(r.Context(), middleware.GetCaller(r.Context()), id, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, u)
}

// SetStatus изменяет статус учетной записи
// PATCH /api/v1/users/{id}/status
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	u, err := h.userService.SetStatus(r.Context(), middleware.GetCaller(r.Context()), id, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, u)
}

// Delete удаляет пользователя
// DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
