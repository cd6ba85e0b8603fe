package postgres

import (
	"context"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, reservation_id, user_id, amount, method, status, reference, description, created_at, updated_at
		FROM payments
		WHERE reservation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment := &domain.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.ReservationID,
			&payment.UserID,
			&payment.Amount,
			&payment.Method,
			&payment.Status,
			&payment.Reference,
			&payment.Description,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}
