package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/autorenta/api/internal/delivery/http/middleware"
	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/jwt"
	"github.com/google/uuid"
)

// authenticateRequest добавляет claims пользователя в контекст запроса,
// имитируя прохождение auth middleware
func authenticateRequest(r *http.Request, userID uuid.UUID, role domain.UserRole) *http.Request {
	claims := &jwt.Claims{
		UserID: userID,
		Email:  "test@example.com",
		Role:   role,
	}
	ctx := context.WithValue(r.Context(), middleware.UserClaimsKey, claims)
	return r.WithContext(ctx)
}

// createTestUser создает тестового пользователя
func createTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Phone:     "+1 555 0100",
		Role:      role,
		Status:    domain.UserStatusActive,
	}
}

// createTestVehicle создает тестовый автомобиль
func createTestVehicle(id uuid.UUID, plate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:              id,
		Make:            "Toyota",
		Model:           "Corolla",
		Year:            2022,
		Plate:           plate,
		PricePerDay:     450,
		DepositRequired: 500,
		Available:       true,
	}
}

// assertSuccessEnvelope проверяет конверт успешного ответа API
func assertSuccessEnvelope(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// assertErrorEnvelope проверяет конверт ошибочного ответа API
func assertErrorEnvelope(t *testing.T, response map[string]interface{}) {
	t.Helper()
	if _, ok := response["error"].(string); !ok {
		t.Errorf("Expected error message, got %v", response)
	}
}
