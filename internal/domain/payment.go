package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod представляет способ оплаты
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH" // Оплата наличными при получении автомобиля
	PaymentCard PaymentMethod = "CARD" // Оплата картой (симулируется)
)

// PaymentStatus представляет статус платежа
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Payment - платеж по бронированию
// Создается ровно один раз вместе с бронированием, сумма = стоимость аренды + депозит
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	ReservationID uuid.UUID     `json:"reservation_id"`
	UserID        uuid.UUID     `json:"user_id"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	Reference     string        `json:"reference,omitempty"` // Заполняется только для CARD
	Description   string        `json:"description,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Validate проверяет корректность данных платежа
func (p *Payment) Validate() error {
	if p.ReservationID == uuid.Nil || p.UserID == uuid.Nil {
		return ErrInvalidReservationData
	}
	if p.Method != PaymentCash && p.Method != PaymentCard {
		return ErrInvalidPaymentMethod
	}
	if p.Amount < 0 {
		return ErrInvalidReservationData
	}
	return nil
}
