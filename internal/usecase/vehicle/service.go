package vehicle

import (
	"context"
	"fmt"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на добавление автомобиля в парк
type CreateVehicleRequest struct {
	CategoryID      uuid.UUID           `json:"category_id" validate:"required"`
	Make            string              `json:"make" validate:"required"`
	Model           string              `json:"model" validate:"required"`
	Year            int                 `json:"year" validate:"required,min=1950"`
	Plate           string              `json:"plate" validate:"required"`
	Color           string              `json:"color,omitempty"`
	PricePerDay     float64             `json:"price_per_day" validate:"required,gt=0"`
	PricePerWeek    *float64            `json:"price_per_week,omitempty"`
	PricePerMonth   *float64            `json:"price_per_month,omitempty"`
	DepositRequired float64             `json:"deposit_required" validate:"gte=0"`
	Transmission    domain.Transmission `json:"transmission" validate:"required"`
	FuelType        domain.FuelType     `json:"fuel_type" validate:"required"`
	PassengerCount  int                 `json:"passenger_count,omitempty"`
	DoorCount       int                 `json:"door_count,omitempty"`
	HasAC           bool                `json:"has_ac"`
	Mileage         int                 `json:"mileage,omitempty"`
	EngineNumber    string              `json:"engine_number,omitempty"`
	ChassisNumber   string              `json:"chassis_number,omitempty"`
	Description     string              `json:"description,omitempty"`
	ImageURL        string              `json:"image_url,omitempty"`
}

// UpdateVehicleRequest - запрос на обновление. Nil-поля не изменяются.
type UpdateVehicleRequest struct {
	CategoryID      *uuid.UUID           `json:"category_id,omitempty"`
	Make            *string              `json:"make,omitempty"`
	Model           *string              `json:"model,omitempty"`
	Year            *int                 `json:"year,omitempty"`
	Plate           *string              `json:"plate,omitempty"`
	Color           *string              `json:"color,omitempty"`
	PricePerDay     *float64             `json:"price_per_day,omitempty"`
	PricePerWeek    *float64             `json:"price_per_week,omitempty"`
	PricePerMonth   *float64             `json:"price_per_month,omitempty"`
	DepositRequired *float64             `json:"deposit_required,omitempty"`
	Transmission    *domain.Transmission `json:"transmission,omitempty"`
	FuelType        *domain.FuelType     `json:"fuel_type,omitempty"`
	PassengerCount  *int                 `json:"passenger_count,omitempty"`
	DoorCount       *int                 `json:"door_count,omitempty"`
	HasAC           *bool                `json:"has_ac,omitempty"`
	Mileage         *int                 `json:"mileage,omitempty"`
	EngineNumber    *string              `json:"engine_number,omitempty"`
	ChassisNumber   *string              `json:"chassis_number,omitempty"`
	Description     *string              `json:"description,omitempty"`
	ImageURL        *string              `json:"image_url,omitempty"`
}

// CategoryRequest - запрос на создание или обновление категории
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Service содержит бизнес-логику каталога автомобилей и категорий
type Service struct {
	vehicleRepo     repository.VehicleRepository
	categoryRepo    repository.CategoryRepository
	reservationRepo repository.ReservationRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(
	vehicleRepo repository.VehicleRepository,
	categoryRepo repository.CategoryRepository,
	reservationRepo repository.ReservationRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo:     vehicleRepo,
		categoryRepo:    categoryRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// List возвращает весь парк с категориями
func (s *Service) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}

// ListAvailable возвращает автомобили, доступные для бронирования
func (s *Service) ListAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.ListAvailable(ctx)
}

// GetByID возвращает автомобиль по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// Create добавляет автомобиль в парк. Только для администратора.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	plate := domain.NormalizePlate(req.Plate)

	existing, err := s.vehicleRepo.GetByPlate(ctx, plate)
	if err != nil && err != domain.ErrVehicleNotFound {
		return nil, fmt.Errorf("failed to check plate: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrVehicleAlreadyExists
	}

	vehicle := &domain.Vehicle{
		CategoryID:      req.CategoryID,
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		Plate:           plate,
		Color:           req.Color,
		PricePerDay:     req.PricePerDay,
		PricePerWeek:    req.PricePerWeek,
		PricePerMonth:   req.PricePerMonth,
		DepositRequired: req.DepositRequired,
		Transmission:    req.Transmission,
		FuelType:        req.FuelType,
		PassengerCount:  req.PassengerCount,
		DoorCount:       req.DoorCount,
		HasAC:           req.HasAC,
		Mileage:         req.Mileage,
		EngineNumber:    req.EngineNumber,
		ChassisNumber:   req.ChassisNumber,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Available:       true,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"plate":      vehicle.Plate,
	})

	return vehicle, nil
}

// Update обновляет данные автомобиля. Только для администратора.
func (s *Service) Update(ctx context.Context, caller domain.Caller, id uuid.UUID, req *UpdateVehicleRequest) (*domain.Vehicle, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		vehicle.CategoryID = *req.CategoryID
	}
	if req.Plate != nil {
		plate := domain.NormalizePlate(*req.Plate)
		if plate != vehicle.Plate {
			existing, plateErr := s.vehicleRepo.GetByPlate(ctx, plate)
			if plateErr != nil && plateErr != domain.ErrVehicleNotFound {
				return nil, fmt.Errorf("failed to check plate: %w", plateErr)
			}
			if existing != nil {
				return nil, domain.ErrVehicleAlreadyExists
			}
			vehicle.Plate = plate
		}
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.PricePerDay != nil {
		vehicle.PricePerDay = *req.PricePerDay
	}
	if req.PricePerWeek != nil {
		vehicle.PricePerWeek = req.PricePerWeek
	}
	if req.PricePerMonth != nil {
		vehicle.PricePerMonth = req.PricePerMonth
	}
	if req.DepositRequired != nil {
		vehicle.DepositRequired = *req.DepositRequired
	}
	if req.Transmission != nil {
		vehicle.Transmission = *req.Transmission
	}
	if req.FuelType != nil {
		vehicle.FuelType = *req.FuelType
	}
	if req.PassengerCount != nil {
		vehicle.PassengerCount = *req.PassengerCount
	}
	if req.DoorCount != nil {
		vehicle.DoorCount = *req.DoorCount
	}
	if req.HasAC != nil {
		vehicle.HasAC = *req.HasAC
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.EngineNumber != nil {
		vehicle.EngineNumber = *req.EngineNumber
	}
	if req.ChassisNumber != nil {
		vehicle.ChassisNumber = *req.ChassisNumber
	}
	if req.Description != nil {
		vehicle.Description = *req.Description
	}
	if req.ImageURL != nil {
		vehicle.ImageURL = *req.ImageURL
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.logger.Info("Vehicle updated", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// SetAvailability переключает доступность автомобиля. Только для администратора.
// Снять с линии автомобиль с текущей арендой нельзя.
func (s *Service) SetAvailability(ctx context.Context, caller domain.Caller, id uuid.UUID, available bool) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if !available {
		overlapping, err := s.reservationRepo.CountActiveByVehicle(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count active reservations: %w", err)
		}
		if overlapping > 0 {
			return domain.ErrVehicleInUse
		}
	}

	if err := s.vehicleRepo.SetAvailability(ctx, id, available); err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}

	s.logger.Info("Vehicle availability changed", map[string]interface{}{
		"vehicle_id": id,
		"available":  available,
	})

	return nil
}

// Delete удаляет автомобиль. Запрещено при наличии незавершенных бронирований.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		return err
	}

	activeCount, err := s.reservationRepo.CountActiveByVehicle(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count active reservations: %w", err)
	}
	if activeCount > 0 {
		return domain.ErrVehicleHasRents
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.logger.Info("Vehicle deleted", map[string]interface{}{
		"vehicle_id": id,
	})

	return nil
}

// ListCategories возвращает все категории с числом автомобилей
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategoryByID возвращает категорию по ID
func (s *Service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// CreateCategory создает категорию. Только для администратора.
func (s *Service) CreateCategory(ctx context.Context, caller domain.Caller, req *CategoryRequest) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	existing, err := s.categoryRepo.GetByName(ctx, req.Name)
	if err != nil && err != domain.ErrCategoryNotFound {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrCategoryAlreadyExists
	}

	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	return category, nil
}

// UpdateCategory обновляет категорию. Только для администратора.
func (s *Service) UpdateCategory(ctx context.Context, caller domain.Caller, id uuid.UUID, req *CategoryRequest) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		existing, nameErr := s.categoryRepo.GetByName(ctx, req.Name)
		if nameErr != nil && nameErr != domain.ErrCategoryNotFound {
			return nil, fmt.Errorf("failed to check category name: %w", nameErr)
		}
		if existing != nil {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory удаляет категорию. Запрещено, пока на нее ссылаются автомобили.
func (s *Service) DeleteCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountVehicles(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count vehicles: %w", err)
	}
	if count > 0 {
		return domain.ErrCategoryHasVehicles
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})

	return nil
}
