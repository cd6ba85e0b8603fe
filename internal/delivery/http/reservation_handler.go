package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/autorenta/api/internal/delivery/http/middleware"
	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/pkg/validate"
	"github.com/autorenta/api/internal/repository"
	"github.com/autorenta/api/internal/usecase/reservation"
	"github.com/google/uuid"
)

// ReservationService определяет операции бронирования, нужные handler'у
type ReservationService interface {
	Create(ctx context.Context, caller domain.Caller, req *reservation.CreateRequest) (*domain.Reservation, error)
	Approve(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error)
	Reject(ctx context.Context, caller domain.Caller, id uuid.UUID, reason string) (*domain.Reservation, error)
	Cancel(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error)
	ChangeStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.ReservationStatus) (*domain.Reservation, error)
	List(ctx context.Context, caller domain.Caller, filter repository.ReservationFilter) ([]*domain.Reservation, error)
	GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error)
	Stats(ctx context.Context, caller domain.Caller) (*reservation.Stats, error)
	Contract(ctx context.Context, caller domain.Caller, id uuid.UUID) ([]byte, error)
}

// rejectRequest - тело запроса на отклонение заявки
type rejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// changeStatusRequest - тело запроса смены статуса
type changeStatusRequest struct {
	Status domain.ReservationStatus `json:"status" validate:"required"`
}

// ReservationHandler обрабатывает запросы жизненного цикла бронирований
type ReservationHandler struct {
	reservationService ReservationService
	logger             logger.Logger
}

// NewReservationHandler создает новый handler
func NewReservationHandler(reservationService ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		logger:             logger,
	}
}

// Create создает бронирование
// POST /api/v1/reservations
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reservation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.reservationService.Create(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, res)
}

// List возвращает бронирования вызывающего либо все для администратора
// GET /api/v1/reservations?status=&user_id=
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.ReservationFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user_id filter")
			return
		}
		filter.UserID = &userID
	}

	reservations, err := h.reservationService.List(r.Context(), middleware.GetCaller(r.Context()), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, reservations)
}

// GetByID возвращает бронирование с деталями
// GET /api/v1/reservations/{id}
func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.GetByID(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, res)
}

// Approve подтверждает заявку
// POST /api/v1/reservations/{id}/approve
func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.Approve(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, res)
}

// Reject отклоняет заявку
// POST /api/v1/reservations/{id}/reject
func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	// Тело опционально: причина может отсутствовать
	var req rejectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	res, err := h.reservationService.Reject(r.Context(), middleware.GetCaller(r.Context()), id, req.Reason)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, res)
}

// Cancel отменяет собственную заявку клиента
// POST /api/v1/reservations/{id}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.Cancel(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, res)
}

// ChangeStatus переводит бронирование в указанный статус
// PATCH /api/v1/reservations/{id}/status
func (h *ReservationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	res, err := h.reservationService.ChangeStatus(r.Context(), middleware.GetCaller(r.Context()), id, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, res)
}

// Stats возвращает сводку по статусам
// GET /api/v1/reservations/stats
func (h *ReservationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reservationService.Stats(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}

// Contract отдает PDF договора аренды
// GET /api/v1/reservations/{id}/contract
func (h *ReservationHandler) Contract(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	data, err := h.reservationService.Contract(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="contract-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
