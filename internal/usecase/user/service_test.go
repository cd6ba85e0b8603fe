package user

import (
	"context"
	"testing"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/hash"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockReservationRepository - мок репозитория бронирований
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateWithPayment(ctx context.Context, reservation *domain.Reservation, payment *domain.Payment) error {
	args := m.Called(ctx, reservation, payment)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, status domain.ReservationStatus, start, end time.Time) ([]*domain.Reservation, error) {
	args := m.Called(ctx, vehicleID, status, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, filter repository.ReservationFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReservationStatus]int), args.Error(1)
}

func (m *MockReservationRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int, error) {
	args := m.Called(ctx, vehicleID)
	return args.Int(0), args.Error(1)
}

var testAdmin = domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

func newTestService(userRepo *MockUserRepository, reservationRepo *MockReservationRepository) *Service {
	return NewService(userRepo, reservationRepo, logger.NewNoop())
}

func existingUser(id uuid.UUID) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        "customer@example.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Иван",
		LastName:     "Иванов",
		Role:         domain.RoleCustomer,
		Status:       domain.UserStatusActive,
	}
}

// TestService_Delete тестирует удаление пользователя
func TestService_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("удаление блокируется активными бронированиями", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(userRepo, reservationRepo)

		userRepo.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)
		reservationRepo.On("CountActiveByUser", mock.Anything, userID).Return(2, nil)

		err := svc.Delete(context.Background(), testAdmin, userID)
		assert.ErrorIs(t, err, domain.ErrUserHasActiveRents)
		userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("успешное удаление без бронирований", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(userRepo, reservationRepo)

		userRepo.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)
		reservationRepo.On("CountActiveByUser", mock.Anything, userID).Return(0, nil)
		userRepo.On("Delete", mock.Anything, userID).Return(nil)

		err := svc.Delete(context.Background(), testAdmin, userID)
		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("клиенту запрещено", func(t *testing.T) {
		svc := newTestService(new(MockUserRepository), new(MockReservationRepository))

		customer := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
		err := svc.Delete(context.Background(), customer, userID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

// TestService_Create тестирует создание пользователя администратором
func TestService_Create(t *testing.T) {
	t.Run("роль и статус по умолчанию, пароль хешируется", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		var created *domain.User
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*domain.User)
				created = &domain.User{PasswordHash: u.PasswordHash, Role: u.Role, Status: u.Status}
			}).
			Return(nil)

		user, err := svc.Create(context.Background(), testAdmin, &CreateRequest{
			Email:     "new@example.com",
			Password:  "password123",
			FirstName: "Петр",
			LastName:  "Петров",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, created.Role)
		assert.Equal(t, domain.UserStatusActive, created.Status)
		assert.True(t, hash.CheckPassword(created.PasswordHash, "password123"))
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("email уже занят", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(existingUser(uuid.New()), nil)

		_, err := svc.Create(context.Background(), testAdmin, &CreateRequest{
			Email:     "taken@example.com",
			Password:  "password123",
			FirstName: "Петр",
			LastName:  "Петров",
		})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// TestService_GetByID тестирует видимость профилей
func TestService_GetByID(t *testing.T) {
	userID := uuid.New()

	t.Run("клиент видит только себя", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		userRepo.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)

		self := domain.Caller{UserID: userID, Role: domain.RoleCustomer}
		user, err := svc.GetByID(context.Background(), self, userID)
		assert.NoError(t, err)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("чужой профиль недоступен клиенту", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		foreign := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
		_, err := svc.GetByID(context.Background(), foreign, userID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

// TestService_SetStatus тестирует изменение статуса учетной записи
func TestService_SetStatus(t *testing.T) {
	userID := uuid.New()

	t.Run("приостановка учетной записи", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		userRepo.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Status == domain.UserStatusSuspended
		})).Return(nil)

		user, err := svc.SetStatus(context.Background(), testAdmin, userID, domain.UserStatusSuspended)
		assert.NoError(t, err)
		assert.Equal(t, domain.UserStatusSuspended, user.Status)
	})

	t.Run("неизвестный статус отклоняется", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, new(MockReservationRepository))

		userRepo.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)

		_, err := svc.SetStatus(context.Background(), testAdmin, userID, domain.UserStatus("BROKEN"))
		assert.ErrorIs(t, err, domain.ErrInvalidUserStatus)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
