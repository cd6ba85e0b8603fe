package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER" // Клиент, арендует автомобили
	RoleAdmin    UserRole = "ADMIN"    // Администратор автопарка
)

// UserStatus представляет статус учетной записи
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User - центральная сущность системы
// Клиент создает бронирования, администратор управляет автопарком и заявками
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Никогда не возвращаем в JSON
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	City          string     `json:"city,omitempty"`
	LicenseNumber string     `json:"license_number,omitempty"`
	Role          UserRole   `json:"role"`
	Status        UserStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	ReservationCount int `json:"reservation_count,omitempty"`
}

// FullName возвращает полное имя пользователя
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthenticate проверяет, может ли пользователь войти в систему
// Вход разрешен только для статуса ACTIVE
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusActive
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.FirstName == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return ErrInvalidRole
	}
	if u.Status != UserStatusActive && u.Status != UserStatusInactive && u.Status != UserStatusSuspended {
		return ErrInvalidUserStatus
	}
	return nil
}

// Caller - идентичность вызывающего, разрешенная на границе запроса
// Передается явно в каждую операцию use case вместо глобального состояния сессии
type Caller struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsZero проверяет, что идентичность не установлена (неаутентифицированный вызов)
func (c Caller) IsZero() bool {
	return c.UserID == uuid.Nil
}

// IsAdmin проверяет роль администратора
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsCustomer проверяет роль клиента
func (c Caller) IsCustomer() bool {
	return c.Role == RoleCustomer
}
