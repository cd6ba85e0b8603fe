package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/autorenta/api/internal/delivery/http/middleware"
	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/pkg/validate"
	"github.com/autorenta/api/internal/usecase/vehicle"
	"github.com/google/uuid"
)

// VehicleService определяет операции каталога, нужные handler'у
type VehicleService interface {
	List(ctx context.Context) ([]*domain.Vehicle, error)
	ListAvailable(ctx context.Context) ([]*domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	Create(ctx context.Context, caller domain.Caller, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error)
	Update(ctx context.Context, caller domain.Caller, id uuid.UUID, req *vehicle.UpdateVehicleRequest) (*domain.Vehicle, error)
	SetAvailability(ctx context.Context, caller domain.Caller, id uuid.UUID, available bool) error
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, caller domain.Caller, req *vehicle.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, caller domain.Caller, id uuid.UUID, req *vehicle.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

// availabilityRequest - тело PATCH запроса доступности
type availabilityRequest struct {
	Available bool `json:"available"`
}

// VehicleHandler обрабатывает запросы каталога автомобилей и категорий
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler создает новый handler
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// ListAvailable возвращает доступные для бронирования автомобили
// GET /api/v1/vehicles
func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleService.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("Failed to list available vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, vehicles)
}

// ListAll возвращает весь парк, включая недоступные автомобили
// GET /api/v1/vehicles/all
func (h *VehicleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, vehicles)
}

// GetByID возвращает автомобиль по ID
// GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	v, err := h.vehicleService.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, v)
}

// Create добавляет автомобиль в парк
// POST /api/v1/vehicles
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicle.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.vehicleService.Create(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, v)
}

// Update обновляет данные автомобиля
// PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	var req vehicle.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.vehicleService.Update(r.Context(), middleware.GetCaller(r.Context()), id, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, v)
}

// SetAvailability переключает доступность автомобиля
// PATCH /api/v1/vehicles/{id}/availability
func (h *VehicleHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.vehicleService.SetAvailability(r.Context(), middleware.GetCaller(r.Context()), id, req.Available); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"available": req.Available,
	})
}

// Delete удаляет автомобиль
// DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.Delete(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}

// ListCategories возвращает все категории
// GET /api/v1/categories
func (h *VehicleHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.vehicleService.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, categories)
}

// GetCategoryByID возвращает категорию по ID
// GET /api/v1/categories/{id}
func (h *VehicleHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.vehicleService.GetCategoryByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, category)
}

// CreateCategory создает категорию
// POST /api/v1/categories
func (h *VehicleHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req vehicle.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.vehicleService.CreateCategory(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, category)
}

// UpdateCategory обновляет категорию
// PUT /api/v1/categories/{id}
func (h *VehicleHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req vehicle.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.vehicleService.UpdateCategory(r.Context(), middleware.GetCaller(r.Context()), id, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, category)
}

// DeleteCategory удаляет категорию
// DELETE /api/v1/categories/{id}
func (h *VehicleHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.vehicleService.DeleteCategory(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
