package user

import (
	"context"
	"fmt"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/hash"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
)

// CreateRequest - запрос на создание пользователя администратором
type CreateRequest struct {
	Email         string            `json:"email" validate:"required,email"`
	Password      string            `json:"password" validate:"required,min=8"`
	FirstName     string            `json:"first_name" validate:"required"`
	LastName      string            `json:"last_name" validate:"required"`
	Phone         string            `json:"phone,omitempty"`
	Address       string            `json:"address,omitempty"`
	City          string            `json:"city,omitempty"`
	LicenseNumber string            `json:"license_number,omitempty"`
	Role          domain.UserRole   `json:"role,omitempty"`
	Status        domain.UserStatus `json:"status,omitempty"`
}

// UpdateRequest - запрос на обновление профиля.
// Nil-поля не изменяются.
type UpdateRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Password      *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// Service содержит бизнес-логику управления пользователями
type Service struct {
	userRepo        repository.UserRepository
	reservationRepo repository.ReservationRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр UserService
func NewService(
	userRepo repository.UserRepository,
	reservationRepo repository.ReservationRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// List возвращает пользователей по фильтру. Только для администратора.
func (s *Service) List(ctx context.Context, caller domain.Caller, filter repository.UserFilter) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return users, nil
}

// GetByID возвращает пользователя. Клиент видит только себя.
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return user, nil
}

// Create создает пользователя с произвольной ролью. Только для администратора.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req *CreateRequest) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  passwordHash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		LicenseNumber: req.LicenseNumber,
		Role:          req.Role,
		Status:        req.Status,
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	user.PasswordHash = ""

	return user, nil
}

// Update обновляет профиль. Клиент редактирует только себя.
func (s *Service) Update(ctx context.Context, caller domain.Caller, id uuid.UUID, req *UpdateRequest) (*domain.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.LicenseNumber != nil {
		user.LicenseNumber = *req.LicenseNumber
	}
	if req.Password != nil {
		passwordHash, hashErr := hash.HashPassword(*req.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.PasswordHash = passwordHash
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", map[string]interface{}{
		"user_id": user.ID,
	})

	user.PasswordHash = ""

	return user, nil
}

// SetStatus изменяет статус учетной записи. Только для администратора.
func (s *Service) SetStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.UserStatus) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	s.logger.Info("User status changed", map[string]interface{}{
		"user_id": user.ID,
		"status":  status,
	})

	user.PasswordHash = ""

	return user, nil
}

// Delete удаляет пользователя. Запрещено при наличии
// активных бронирований (PENDING или IN_PROGRESS).
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	activeCount, err := s.reservationRepo.CountActiveByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count active reservations: %w", err)
	}
	if activeCount > 0 {
		return domain.ErrUserHasActiveRents
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})

	return nil
}
