package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `
	r.id, r.vehicle_id, r.user_id, r.start_date, r.end_date, r.rental_days,
	r.total_price, r.deposit, r.extra_charge, r.extra_charge_reason,
	r.pickup_location, r.return_location, r.notes, r.status, r.created_at, r.updated_at`

// CreateWithPayment создает бронирование и платеж в одной транзакции.
// Частичная запись (бронь без платежа) невозможна.
func (r *reservationRepository) CreateWithPayment(ctx context.Context, reservation *domain.Reservation, payment *domain.Payment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	reservation.ID = uuid.New()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (id, vehicle_id, user_id, start_date, end_date, rental_days,
			total_price, deposit, extra_charge, extra_charge_reason,
			pickup_location, return_location, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		reservation.ID,
		reservation.VehicleID,
		reservation.UserID,
		reservation.StartDate,
		reservation.EndDate,
		reservation.RentalDays,
		reservation.TotalPrice,
		reservation.Deposit,
		reservation.ExtraCharge,
		reservation.ExtraChargeReason,
		reservation.PickupLocation,
		reservation.ReturnLocation,
		reservation.Notes,
		reservation.Status,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	payment.ID = uuid.New()
	payment.ReservationID = reservation.ID
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, reservation_id, user_id, amount, method, status, reference, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		payment.ID,
		payment.ReservationID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.Reference,
		payment.Description,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.id = $1
	`

	reservation, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
		       v.id, v.category_id, v.make, v.model, v.year, v.plate, v.color,
		       v.price_per_day, v.price_per_week, v.price_per_month, v.deposit_required,
		       v.transmission, v.fuel_type, v.passenger_count, v.door_count, v.has_ac,
		       v.mileage, v.engine_number, v.chassis_number, v.description, v.image_url,
		       v.available, v.created_at, v.updated_at,
		       c.id, c.name, c.description, c.created_at, c.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.license_number, u.role, u.status
		FROM reservations r
		JOIN vehicles v ON v.id = r.vehicle_id
		JOIN categories c ON c.id = v.category_id
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`

	reservation, err := scanReservationWithDetails(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, notes = $3, extra_charge = $4, extra_charge_reason = $5, updated_at = $6
		WHERE id = $1
	`

	reservation.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.Status,
		reservation.Notes,
		reservation.ExtraCharge,
		reservation.ExtraChargeReason,
		reservation.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	return nil
}

// FindOverlapping - ключевой запрос проверки доступности.
// Пересечение диапазонов включительно: existing.start <= end AND existing.end >= start
func (r *reservationRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, status domain.ReservationStatus, start, end time.Time) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.vehicle_id = $1
		  AND r.status = $2
		  AND r.start_date <= $4
		  AND r.end_date >= $3
		ORDER BY r.start_date ASC
	`

	rows, err := r.db.Query(ctx, query, vehicleID, status, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) List(ctx context.Context, filter repository.ReservationFilter) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
		       v.id, v.category_id, v.make, v.model, v.year, v.plate, v.color,
		       v.price_per_day, v.price_per_week, v.price_per_month, v.deposit_required,
		       v.transmission, v.fuel_type, v.passenger_count, v.door_count, v.has_ac,
		       v.mileage, v.engine_number, v.chassis_number, v.description, v.image_url,
		       v.available, v.created_at, v.updated_at,
		       c.id, c.name, c.description, c.created_at, c.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.license_number, u.role, u.status
		FROM reservations r
		JOIN vehicles v ON v.id = r.vehicle_id
		JOIN categories c ON c.id = v.category_id
		JOIN users u ON u.id = r.user_id
		WHERE ($1::text IS NULL OR r.status = $1)
		  AND ($2::uuid IS NULL OR r.user_id = $2)
		ORDER BY r.created_at DESC
	`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.db.Query(ctx, query, status, filter.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation, err := scanReservationWithDetails(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM reservations
		GROUP BY status
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ReservationStatus]int)
	for rows.Next() {
		var status domain.ReservationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *reservationRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE user_id = $1 AND status IN ('PENDING', 'IN_PROGRESS')
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reservationRepository) CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE vehicle_id = $1 AND status IN ('PENDING', 'CONFIRMED', 'IN_PROGRESS')
	`

	var count int
	if err := r.db.QueryRow(ctx, query, vehicleID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	reservation := &domain.Reservation{}
	err := row.Scan(
		&reservation.ID,
		&reservation.VehicleID,
		&reservation.UserID,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.RentalDays,
		&reservation.TotalPrice,
		&reservation.Deposit,
		&reservation.ExtraCharge,
		&reservation.ExtraChargeReason,
		&reservation.PickupLocation,
		&reservation.ReturnLocation,
		&reservation.Notes,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func scanReservationWithDetails(row pgx.Row) (*domain.Reservation, error) {
	reservation := &domain.Reservation{
		Vehicle: &domain.Vehicle{Category: &domain.Category{}},
		User:    &domain.User{},
	}
	v := reservation.Vehicle
	u := reservation.User
	err := row.Scan(
		&reservation.ID,
		&reservation.VehicleID,
		&reservation.UserID,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.RentalDays,
		&reservation.TotalPrice,
		&reservation.Deposit,
		&reservation.ExtraCharge,
		&reservation.ExtraChargeReason,
		&reservation.PickupLocation,
		&reservation.ReturnLocation,
		&reservation.Notes,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
		&v.ID,
		&v.CategoryID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Plate,
		&v.Color,
		&v.PricePerDay,
		&v.PricePerWeek,
		&v.PricePerMonth,
		&v.DepositRequired,
		&v.Transmission,
		&v.FuelType,
		&v.PassengerCount,
		&v.DoorCount,
		&v.HasAC,
		&v.Mileage,
		&v.EngineNumber,
		&v.ChassisNumber,
		&v.Description,
		&v.ImageURL,
		&v.Available,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Category.ID,
		&v.Category.Name,
		&v.Category.Description,
		&v.Category.CreatedAt,
		&v.Category.UpdatedAt,
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.LicenseNumber,
		&u.Role,
		&u.Status,
	)
	if err != nil {
		return nil, err
	}
	return reservation, nil
}
