package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/pkg/pdf"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "reservations:stats"
	statsCacheTTL = 5 * time.Minute

	defaultRejectReason = "Reservation rejected by administrator"
)

// CreateRequest - запрос на создание бронирования
type CreateRequest struct {
	VehicleID      uuid.UUID            `json:"vehicle_id" validate:"required"`
	StartDate      time.Time            `json:"start_date" validate:"required"`
	EndDate        time.Time            `json:"end_date" validate:"required"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method" validate:"required"`
	PickupLocation string               `json:"pickup_location,omitempty"`
	ReturnLocation string               `json:"return_location,omitempty"`
	Notes          string               `json:"notes,omitempty"`
}

// Stats - сводка по статусам для панели администратора
type Stats struct {
	Total    int                              `json:"total"`
	ByStatus map[domain.ReservationStatus]int `json:"by_status"`
}

// Cache - минимальный интерфейс кэша, нужный сервису
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service содержит бизнес-логику жизненного цикла бронирований
type Service struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	paymentRepo     repository.PaymentRepository
	contracts       *pdf.ContractGenerator
	cache           Cache
	logger          logger.Logger
}

// NewService создает новый экземпляр ReservationService
func NewService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	paymentRepo repository.PaymentRepository,
	contracts *pdf.ContractGenerator,
	cache Cache,
	logger logger.Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		paymentRepo:     paymentRepo,
		contracts:       contracts,
		cache:           cache,
		logger:          logger,
	}
}

// Create создает бронирование вместе с платежом.
// Порядок проверок фиксирован: доступ, даты, автомобиль, пересечения.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req *CreateRequest) (*domain.Reservation, error) {
	if caller.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if !caller.IsCustomer() {
		return nil, domain.ErrForbidden
	}

	if req.PaymentMethod != domain.PaymentCash && req.PaymentMethod != domain.PaymentCard {
		return nil, domain.ErrInvalidPaymentMethod
	}

	// Вся арифметика дат идет по календарным дням
	start := domain.DateOnly(req.StartDate)
	end := domain.DateOnly(req.EndDate)
	today := domain.DateOnly(time.Now())

	if start.Before(today) {
		return nil, domain.ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	dayCount := domain.RentalDayCount(start, end)

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, domain.ErrVehicleUnavailable
	}

	// Блокируют только текущие аренды, ожидающие заявки не мешают
	overlapping, err := s.reservationRepo.FindOverlapping(ctx, vehicle.ID, domain.StatusInProgress, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlapping reservations: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, domain.ErrVehicleInUse
	}

	// Снимок цены на момент бронирования
	totalPrice := vehicle.PricePerDay * float64(dayCount)

	reservation := &domain.Reservation{
		VehicleID:      vehicle.ID,
		UserID:         caller.UserID,
		StartDate:      start,
		EndDate:        end,
		RentalDays:     dayCount,
		TotalPrice:     totalPrice,
		Deposit:        vehicle.DepositRequired,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Notes:          req.Notes,
		Status:         domain.StatusPending,
	}

	payment := &domain.Payment{
		UserID: caller.UserID,
		Amount: totalPrice + vehicle.DepositRequired,
		Method: req.PaymentMethod,
	}
	if req.PaymentMethod == domain.PaymentCard {
		payment.Status = domain.PaymentCompleted
		payment.Reference = newTransactionReference()
		payment.Description = "Card payment processed at booking"
	} else {
		payment.Status = domain.PaymentPending
		payment.Description = "Cash payment due at pickup"
	}

	if err := s.reservationRepo.CreateWithPayment(ctx, reservation, payment); err != nil {
		s.logger.Error("Failed to create reservation", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicle.ID,
			"user_id":    caller.UserID,
		})
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	reservation.Payments = []*domain.Payment{payment}

	s.logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID,
		"vehicle_id":     vehicle.ID,
		"user_id":        caller.UserID,
		"total_price":    totalPrice,
	})

	s.invalidateStats(ctx)

	return reservation, nil
}

// Approve подтверждает заявку. Только для администратора,
// только из статуса PENDING.
func (s *Service) Approve(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, caller, id, domain.StatusConfirmed, "")
}

// Reject отклоняет заявку с указанием причины
func (s *Service) Reject(ctx context.Context, caller domain.Caller, id uuid.UUID, reason string) (*domain.Reservation, error) {
	if reason == "" {
		reason = defaultRejectReason
	}
	return s.transition(ctx, caller, id, domain.StatusRejected, reason)
}

// ChangeStatus переводит бронирование в произвольный допустимый статус
func (s *Service) ChangeStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidState
	}
	return s.transition(ctx, caller, id, status, "")
}

func (s *Service) transition(ctx context.Context, caller domain.Caller, id uuid.UUID, next domain.ReservationStatus, note string) (*domain.Reservation, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := reservation.Transition(next); err != nil {
		return nil, err
	}

	if note != "" {
		reservation.Notes = appendNote(reservation.Notes, note)
	}

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.logger.Info("Reservation status changed", map[string]interface{}{
		"reservation_id": reservation.ID,
		"status":         next,
		"admin_id":       caller.UserID,
	})

	s.invalidateStats(ctx)

	return reservation, nil
}

// Cancel отменяет собственную заявку клиента.
// Разрешено только владельцу и только из статуса PENDING.
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error) {
	if caller.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	if reservation.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}

	if err := reservation.Transition(domain.StatusCancelled); err != nil {
		return nil, err
	}

	reservation.Notes = appendNote(reservation.Notes,
		fmt.Sprintf("Cancelled by customer at %s", time.Now().Format(time.RFC3339)))

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.logger.Info("Reservation cancelled", map[string]interface{}{
		"reservation_id": reservation.ID,
		"user_id":        caller.UserID,
	})

	s.invalidateStats(ctx)

	return reservation, nil
}

// List возвращает бронирования. Администратор видит все,
// клиент принудительно ограничен своими.
func (s *Service) List(ctx context.Context, caller domain.Caller, filter repository.ReservationFilter) ([]*domain.Reservation, error) {
	if caller.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if !caller.IsAdmin() {
		userID := caller.UserID
		filter.UserID = &userID
	}

	return s.reservationRepo.List(ctx, filter)
}

// GetByID возвращает бронирование с деталями. Владелец или администратор.
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Reservation, error) {
	if caller.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && reservation.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	payments, err := s.paymentRepo.GetByReservationID(ctx, id)
	if err != nil {
		return nil, err
	}
	reservation.Payments = payments

	return reservation, nil
}

// Stats возвращает сводку по статусам. Только для администратора,
// результат кэшируется.
func (s *Service) Stats(ctx context.Context, caller domain.Caller) (*Stats, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	cached, err := s.cache.Get(ctx, statsCacheKey)
	if err == nil {
		var stats Stats
		if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
			return &stats, nil
		}
	} else if err != redisv9.Nil {
		s.logger.Warn("Stats cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return s.computeStats(ctx)
}

// WarmStatsCache пересчитывает сводку и кладет ее в кэш.
// Вызывается планировщиком.
func (s *Service) WarmStatsCache(ctx context.Context) error {
	_, err := s.computeStats(ctx)
	return err
}

func (s *Service) computeStats(ctx context.Context) (*Stats, error) {
	counts, err := s.reservationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	stats := &Stats{ByStatus: counts}
	for _, count := range counts {
		stats.Total += count
	}

	if data, marshalErr := json.Marshal(stats); marshalErr == nil {
		_ = s.cache.Set(ctx, statsCacheKey, data, statsCacheTTL)
	}

	return stats, nil
}

// Contract возвращает PDF договора аренды.
// Доступен владельцу и администратору после подтверждения заявки.
func (s *Service) Contract(ctx context.Context, caller domain.Caller, id uuid.UUID) ([]byte, error) {
	reservation, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted:
	default:
		return nil, domain.ErrContractNotAvailable
	}

	data, err := s.contracts.Generate(reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract: %w", err)
	}

	return data, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	_ = s.cache.Del(ctx, statsCacheKey)
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}

func newTransactionReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "TXN-" + id[:12]
}
