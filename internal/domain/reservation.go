package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus представляет статус бронирования
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "PENDING"     // Заявка создана, ждет решения администратора
	StatusConfirmed  ReservationStatus = "CONFIRMED"   // Заявка одобрена администратором
	StatusInProgress ReservationStatus = "IN_PROGRESS" // Автомобиль выдан клиенту
	StatusCompleted  ReservationStatus = "COMPLETED"   // Автомобиль возвращен
	StatusCancelled  ReservationStatus = "CANCELLED"   // Отменено клиентом или администратором
	StatusRejected   ReservationStatus = "REJECTED"    // Отклонено администратором
)

// validTransitions - закрытая таблица переходов статусов
// Любой переход вне таблицы запрещен, принудительная установка статуса
// администратором проходит через ту же проверку
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:    {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusRejected:   {},
}

// IsValid проверяет, что статус входит в закрытое множество
func (s ReservationStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal проверяет, что из статуса нет исходящих переходов
func (s ReservationStatus) IsTerminal() bool {
	return s.IsValid() && len(validTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода в статус next
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation - бронирование автомобиля на диапазон дат
// Цена фиксируется на момент создания заявки и далее не пересчитывается
type Reservation struct {
	ID                uuid.UUID         `json:"id"`
	VehicleID         uuid.UUID         `json:"vehicle_id"`
	UserID            uuid.UUID         `json:"user_id"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	RentalDays        int               `json:"rental_days"`
	TotalPrice        float64           `json:"total_price"`
	Deposit           float64           `json:"deposit"`
	ExtraCharge       float64           `json:"extra_charge,omitempty"`
	ExtraChargeReason string            `json:"extra_charge_reason,omitempty"`
	PickupLocation    string            `json:"pickup_location,omitempty"`
	ReturnLocation    string            `json:"return_location,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Status            ReservationStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Vehicle  *Vehicle   `json:"vehicle,omitempty"`
	User     *User      `json:"user,omitempty"`
	Payments []*Payment `json:"payments,omitempty"`
}

// Transition переводит бронирование в статус next
// Возвращает ErrInvalidState для недопустимого перехода
func (r *Reservation) Transition(next ReservationStatus) error {
	if !next.IsValid() {
		return ErrInvalidState
	}
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidState
	}
	r.Status = next
	r.UpdatedAt = time.Now()
	return nil
}

// Validate проверяет корректность данных бронирования
func (r *Reservation) Validate() error {
	if r.VehicleID == uuid.Nil || r.UserID == uuid.Nil {
		return ErrInvalidReservationData
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrInvalidDateRange
	}
	if r.RentalDays < 1 {
		return ErrInvalidDateRange
	}
	if !r.Status.IsValid() {
		return ErrInvalidReservationData
	}
	return nil
}

// DateOnly отбрасывает время, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RentalDayCount возвращает количество дней аренды включительно
// Один и тот же день начала и конца считается одним днем
func RentalDayCount(start, end time.Time) int {
	start = DateOnly(start)
	end = DateOnly(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// DateRangesOverlap проверяет пересечение двух диапазонов дат (включительно)
// Диапазоны пересекаются, если делят хотя бы один календарный день
func DateRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(aEnd).Before(DateOnly(bStart))
}
