package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleRepository - мок репозитория автомобилей
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// MockCategoryRepository - мок репозитория категорий
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountVehicles(ctx context.Context, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
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

var (
	testAdmin    = domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}
	testCustomer = domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
)

func newTestService(vehicleRepo *MockVehicleRepository, categoryRepo *MockCategoryRepository, reservationRepo *MockReservationRepository) *Service {
	return NewService(vehicleRepo, categoryRepo, reservationRepo, logger.NewNoop())
}

func validCreateRequest(categoryID uuid.UUID) *CreateVehicleRequest {
	return &CreateVehicleRequest{
		CategoryID:     categoryID,
		Make:           "Toyota",
		Model:          "Corolla",
		Year:           2022,
		Plate:          "abc-123",
		PricePerDay:    450,
		Transmission:   domain.TransmissionAutomatic,
		FuelType:       domain.FuelGasoline,
		PassengerCount: 5,
		DoorCount:      4,
	}
}

// TestService_Create тестирует добавление автомобиля в парк
func TestService_Create(t *testing.T) {
	categoryID := uuid.New()

	t.Run("успешное добавление с нормализацией номера", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(vehicleRepo, categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByID", mock.Anything, categoryID).Return(&domain.Category{ID: categoryID, Name: "Sedan"}, nil)
		vehicleRepo.On("GetByPlate", mock.Anything, "ABC123").Return(nil, domain.ErrVehicleNotFound)
		vehicleRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		vehicle, err := svc.Create(context.Background(), testAdmin, validCreateRequest(categoryID))
		assert.NoError(t, err)
		assert.Equal(t, "ABC123", vehicle.Plate)
		assert.True(t, vehicle.Available)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("дубликат номерного знака", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(vehicleRepo, categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByID", mock.Anything, categoryID).Return(&domain.Category{ID: categoryID, Name: "Sedan"}, nil)
		vehicleRepo.On("GetByPlate", mock.Anything, "ABC123").Return(&domain.Vehicle{ID: uuid.New(), Plate: "ABC123"}, nil)

		_, err := svc.Create(context.Background(), testAdmin, validCreateRequest(categoryID))
		assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)
		vehicleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("несуществующая категория", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(vehicleRepo, categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByID", mock.Anything, categoryID).Return(nil, domain.ErrCategoryNotFound)

		_, err := svc.Create(context.Background(), testAdmin, validCreateRequest(categoryID))
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
		vehicleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("клиенту запрещено", func(t *testing.T) {
		svc := newTestService(new(MockVehicleRepository), new(MockCategoryRepository), new(MockReservationRepository))

		_, err := svc.Create(context.Background(), testCustomer, validCreateRequest(categoryID))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

// TestService_SetAvailability тестирует снятие автомобиля с линии
func TestService_SetAvailability(t *testing.T) {
	vehicleID := uuid.New()
	existing := &domain.Vehicle{ID: vehicleID, Plate: "ABC123", Available: true}

	t.Run("снятие блокируется активными бронированиями", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(vehicleRepo, new(MockCategoryRepository), reservationRepo)

		vehicleRepo.On("GetByID", mock.Anything, vehicleID).Return(existing, nil)
		reservationRepo.On("CountActiveByVehicle", mock.Anything, vehicleID).Return(2, nil)

		err := svc.SetAvailability(context.Background(), testAdmin, vehicleID, false)
		assert.ErrorIs(t, err, domain.ErrVehicleInUse)
		vehicleRepo.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("снятие без бронирований", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(vehicleRepo, new(MockCategoryRepository), reservationRepo)

		vehicleRepo.On("GetByID", mock.Anything, vehicleID).Return(existing, nil)
		reservationRepo.On("CountActiveByVehicle", mock.Anything, vehicleID).Return(0, nil)
		vehicleRepo.On("SetAvailability", mock.Anything, vehicleID, false).Return(nil)

		err := svc.SetAvailability(context.Background(), testAdmin, vehicleID, false)
		assert.NoError(t, err)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("возврат на линию не проверяет бронирования", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(vehicleRepo, new(MockCategoryRepository), reservationRepo)

		vehicleRepo.On("GetByID", mock.Anything, vehicleID).Return(existing, nil)
		vehicleRepo.On("SetAvailability", mock.Anything, vehicleID, true).Return(nil)

		err := svc.SetAvailability(context.Background(), testAdmin, vehicleID, true)
		assert.NoError(t, err)
		reservationRepo.AssertNotCalled(t, "CountActiveByVehicle", mock.Anything, mock.Anything)
	})
}

// TestService_Delete тестирует удаление автомобиля
func TestService_Delete(t *testing.T) {
	vehicleID := uuid.New()
	existing := &domain.Vehicle{ID: vehicleID, Plate: "ABC123"}

	t.Run("удаление блокируется незавершенными бронированиями", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(vehicleRepo, new(MockCategoryRepository), reservationRepo)

		vehicleRepo.On("GetByID", mock.Anything, vehicleID).Return(existing, nil)
		reservationRepo.On("CountActiveByVehicle", mock.Anything, vehicleID).Return(1, nil)

		err := svc.Delete(context.Background(), testAdmin, vehicleID)
		assert.ErrorIs(t, err, domain.ErrVehicleHasRents)
		vehicleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("успешное удаление", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		reservationRepo := new(MockReservationRepository)
		svc := newTestService(vehicleRepo, new(MockCategoryRepository), reservationRepo)

		vehicleRepo.On("GetByID", mock.Anything, vehicleID).Return(existing, nil)
		reservationRepo.On("CountActiveByVehicle", mock.Anything, vehicleID).Return(0, nil)
		vehicleRepo.On("Delete", mock.Anything, vehicleID).Return(nil)

		err := svc.Delete(context.Background(), testAdmin, vehicleID)
		assert.NoError(t, err)
		vehicleRepo.AssertExpectations(t)
	})
}

// TestService_CreateCategory тестирует уникальность имени категории
func TestService_CreateCategory(t *testing.T) {
	t.Run("занятое имя", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(new(MockVehicleRepository), categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByName", mock.Anything, "Sedan").Return(&domain.Category{ID: uuid.New(), Name: "Sedan"}, nil)

		_, err := svc.CreateCategory(context.Background(), testAdmin, &CategoryRequest{Name: "Sedan"})
		assert.ErrorIs(t, err, domain.ErrCategoryAlreadyExists)
		categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("успешное создание", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(new(MockVehicleRepository), categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByName", mock.Anything, "SUV").Return(nil, domain.ErrCategoryNotFound)
		categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)

		category, err := svc.CreateCategory(context.Background(), testAdmin, &CategoryRequest{Name: "SUV"})
		assert.NoError(t, err)
		assert.Equal(t, "SUV", category.Name)
		categoryRepo.AssertExpectations(t)
	})
}

// TestService_DeleteCategory тестирует удаление категории
func TestService_DeleteCategory(t *testing.T) {
	categoryID := uuid.New()
	existing := &domain.Category{ID: categoryID, Name: "Sedan"}

	t.Run("категория с автомобилями не удаляется", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(new(MockVehicleRepository), categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByID", mock.Anything, categoryID).Return(existing, nil)
		categoryRepo.On("CountVehicles", mock.Anything, categoryID).Return(3, nil)

		err := svc.DeleteCategory(context.Background(), testAdmin, categoryID)
		assert.ErrorIs(t, err, domain.ErrCategoryHasVehicles)
		categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("пустая категория удаляется", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		svc := newTestService(new(MockVehicleRepository), categoryRepo, new(MockReservationRepository))

		categoryRepo.On("GetByID", mock.Anything, categoryID).Return(existing, nil)
		categoryRepo.On("CountVehicles", mock.Anything, categoryID).Return(0, nil)
		categoryRepo.On("Delete", mock.Anything, categoryID).Return(nil)

		err := svc.DeleteCategory(context.Background(), testAdmin, categoryID)
		assert.NoError(t, err)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("клиенту запрещено", func(t *testing.T) {
		svc := newTestService(new(MockVehicleRepository), new(MockCategoryRepository), new(MockReservationRepository))

		err := svc.DeleteCategory(context.Background(), testCustomer, categoryID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
