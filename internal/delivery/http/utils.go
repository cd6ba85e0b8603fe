package http

import (
	"encoding/json"
	"net/http"

	"github.com/autorenta/api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{
		"error": message,
	})
}

// respondSuccess отправляет стандартный конверт успешного ответа
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// parseIDParam извлекает UUID параметр {id} из пути
func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// statusForError отображает доменные ошибки на HTTP статусы.
// Неизвестные ошибки считаются внутренними.
func statusForError(err error) int {
	switch err {
	case domain.ErrUnauthorized, domain.ErrInvalidCredentials,
		domain.ErrTokenExpired, domain.ErrInvalidToken:
		return http.StatusUnauthorized
	case domain.ErrForbidden, domain.ErrUserInactive:
		return http.StatusForbidden
	case domain.ErrUserNotFound, domain.ErrCategoryNotFound,
		domain.ErrVehicleNotFound, domain.ErrReservationNotFound,
		domain.ErrPaymentNotFound:
		return http.StatusNotFound
	case domain.ErrUserAlreadyExists, domain.ErrCategoryAlreadyExists,
		domain.ErrVehicleAlreadyExists:
		return http.StatusConflict
	case domain.ErrInvalidState, domain.ErrVehicleInUse,
		domain.ErrVehicleUnavailable, domain.ErrUserHasActiveRents,
		domain.ErrVehicleHasRents, domain.ErrCategoryHasVehicles,
		domain.ErrContractNotAvailable:
		return http.StatusConflict
	case domain.ErrInvalidDateRange, domain.ErrInvalidPaymentMethod,
		domain.ErrInvalidEmail, domain.ErrInvalidUserData, domain.ErrInvalidRole,
		domain.ErrInvalidUserStatus, domain.ErrInvalidCategoryData,
		domain.ErrInvalidPlate, domain.ErrInvalidVehicleData,
		domain.ErrInvalidReservationData, domain.ErrBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError отвечает статусом и текстом доменной ошибки
func respondDomainError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondError(w, code, message)
}
