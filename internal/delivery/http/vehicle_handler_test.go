package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleService - мок для vehicle service
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) List(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ListAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Create(ctx context.Context, caller domain.Caller, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Update(ctx context.Context, caller domain.Caller, id uuid.UUID, req *vehicle.UpdateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) SetAvailability(ctx context.Context, caller domain.Caller, id uuid.UUID, available bool) error {
	args := m.Called(ctx, caller, id, available)
	return args.Error(0)
}

func (m *MockVehicleService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockVehicleService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockVehicleService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockVehicleService) CreateCategory(ctx context.Context, caller domain.Caller, req *vehicle.CategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockVehicleService) UpdateCategory(ctx context.Context, caller domain.Caller, id uuid.UUID, req *vehicle.CategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockVehicleService) DeleteCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func newVehicleTestRouter(handler *VehicleHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/vehicles", handler.ListAvailable)
	r.Get("/vehicles/all", handler.ListAll)
	r.Get("/vehicles/{id}", handler.GetByID)
	r.Post("/vehicles", handler.Create)
	r.Patch("/vehicles/{id}/availability", handler.SetAvailability)
	r.Delete("/vehicles/{id}", handler.Delete)
	r.Get("/categories", handler.ListCategories)
	r.Post("/categories", handler.CreateCategory)
	r.Delete("/categories/{id}", handler.DeleteCategory)
	return r
}

// TestVehicleHandler_ListAvailable тестирует публичный каталог
func TestVehicleHandler_ListAvailable(t *testing.T) {
	mockService := new(MockVehicleService)
	mockService.On("ListAvailable", mock.Anything).Return([]*domain.Vehicle{
		createTestVehicle(uuid.New(), "ABC123"),
		createTestVehicle(uuid.New(), "XYZ789"),
	}, nil)

	handler := NewVehicleHandler(mockService, logger.NewNoop())
	router := newVehicleTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assertSuccessEnvelope(t, resp)
	assert.Len(t, resp["data"].([]interface{}), 2)
}

// TestVehicleHandler_Create тестирует добавление автомобиля
func TestVehicleHandler_Create(t *testing.T) {
	adminID := uuid.New()
	categoryID := uuid.New()

	tests := []struct {
		name           string
		requestBody    vehicle.CreateVehicleRequest
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name: "успешное добавление",
			requestBody: vehicle.CreateVehicleRequest{
				CategoryID:   categoryID,
				Make:         "Toyota",
				Model:        "Corolla",
				Year:         2022,
				Plate:        "ABC123",
				PricePerDay:  450,
				Transmission: domain.TransmissionAutomatic,
				FuelType:     domain.FuelGasoline,
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(createTestVehicle(uuid.New(), "ABC123"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "дубликат номерного знака",
			requestBody: vehicle.CreateVehicleRequest{
				CategoryID:   categoryID,
				Make:         "Toyota",
				Model:        "Corolla",
				Year:         2022,
				Plate:        "ABC123",
				PricePerDay:  450,
				Transmission: domain.TransmissionAutomatic,
				FuelType:     domain.FuelGasoline,
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, domain.ErrVehicleAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())
			router := newVehicleTestRouter(handler)

			var body bytes.Buffer
			assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/vehicles", &body)
			req = authenticateRequest(req, adminID, domain.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_Delete тестирует защиту от удаления занятого автомобиля
func TestVehicleHandler_Delete(t *testing.T) {
	adminID := uuid.New()
	vehicleID := uuid.New()

	t.Run("автомобиль с незавершенными бронированиями", func(t *testing.T) {
		mockService := new(MockVehicleService)
		mockService.On("Delete", mock.Anything, mock.Anything, vehicleID).
			Return(domain.ErrVehicleHasRents)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		router := newVehicleTestRouter(handler)

		req := httptest.NewRequest(http.MethodDelete, "/vehicles/"+vehicleID.String(), nil)
		req = authenticateRequest(req, adminID, domain.RoleAdmin)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("успешное удаление", func(t *testing.T) {
		mockService := new(MockVehicleService)
		mockService.On("Delete", mock.Anything, mock.Anything, vehicleID).Return(nil)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		router := newVehicleTestRouter(handler)

		req := httptest.NewRequest(http.MethodDelete, "/vehicles/"+vehicleID.String(), nil)
		req = authenticateRequest(req, adminID, domain.RoleAdmin)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// TestVehicleHandler_DeleteCategory тестирует защиту категории с автомобилями
func TestVehicleHandler_DeleteCategory(t *testing.T) {
	adminID := uuid.New()
	categoryID := uuid.New()

	mockService := new(MockVehicleService)
	mockService.On("DeleteCategory", mock.Anything, mock.Anything, categoryID).
		Return(domain.ErrCategoryHasVehicles)

	handler := NewVehicleHandler(mockService, logger.NewNoop())
	router := newVehicleTestRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/categories/"+categoryID.String(), nil)
	req = authenticateRequest(req, adminID, domain.RoleAdmin)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
