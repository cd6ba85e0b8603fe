package repository

import (
	"context"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/google/uuid"
)

// UserFilter - фильтры выборки пользователей
type UserFilter struct {
	Search string // подстрока в имени, фамилии или email
	Role   *domain.UserRole
	Status *domain.UserStatus
}

// ReservationFilter - фильтры выборки бронирований
type ReservationFilter struct {
	Status *domain.ReservationStatus
	UserID *uuid.UUID
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает пользователей по фильтру вместе с числом их бронирований
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
}

// CategoryRepository определяет методы для работы с категориями
type CategoryRepository interface {
	// Create создает новую категорию
	Create(ctx context.Context, category *domain.Category) error

	// GetByID возвращает категорию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetByName возвращает категорию по имени
	GetByName(ctx context.Context, name string) (*domain.Category, error)

	// Update обновляет данные категории
	Update(ctx context.Context, category *domain.Category) error

	// Delete удаляет категорию
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает все категории вместе с числом автомобилей в каждой
	List(ctx context.Context) ([]*domain.Category, error)

	// CountVehicles возвращает число автомобилей, ссылающихся на категорию
	CountVehicles(ctx context.Context, categoryID uuid.UUID) (int, error)
}

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByPlate возвращает автомобиль по номерному знаку
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// Update обновляет данные автомобиля
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// SetAvailability переключает флаг доступности
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error

	// Delete удаляет автомобиль
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает все автомобили с категориями
	List(ctx context.Context) ([]*domain.Vehicle, error)

	// ListAvailable возвращает доступные для бронирования автомобили:
	// available = true и нет бронирования в статусе IN_PROGRESS
	ListAvailable(ctx context.Context) ([]*domain.Vehicle, error)
}

// ReservationRepository определяет методы для работы с бронированиями
type ReservationRepository interface {
	// CreateWithPayment создает бронирование и платеж в одной транзакции
	CreateWithPayment(ctx context.Context, reservation *domain.Reservation, payment *domain.Payment) error

	// GetByID возвращает бронирование по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// GetByIDWithDetails возвращает бронирование вместе с автомобилем,
	// категорией и пользователем; платежи загружает PaymentRepository
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// Update обновляет статус и заметки бронирования
	Update(ctx context.Context, reservation *domain.Reservation) error

	// FindOverlapping возвращает бронирования автомобиля в заданном статусе,
	// пересекающиеся с диапазоном дат (включительно с обеих сторон)
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, status domain.ReservationStatus, start, end time.Time) ([]*domain.Reservation, error)

	// List возвращает бронирования по фильтру вместе с автомобилем,
	// категорией и пользователем, новые первыми
	List(ctx context.Context, filter ReservationFilter) ([]*domain.Reservation, error)

	// CountByStatus возвращает число бронирований в каждом статусе
	CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int, error)

	// CountActiveByUser возвращает число бронирований пользователя
	// в статусах PENDING и IN_PROGRESS
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// CountActiveByVehicle возвращает число нетерминальных бронирований автомобиля
	CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int, error)
}

// PaymentRepository определяет методы для работы с платежами
type PaymentRepository interface {
	// GetByReservationID возвращает платежи по бронированию
	GetByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*domain.Payment, error)
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllUserTokens отзывает все токены пользователя
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
