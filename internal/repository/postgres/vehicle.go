package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `
	v.id, v.category_id, v.make, v.model, v.year, v.plate, v.color,
	v.price_per_day, v.price_per_week, v.price_per_month, v.deposit_required,
	v.transmission, v.fuel_type, v.passenger_count, v.door_count, v.has_ac,
	v.mileage, v.engine_number, v.chassis_number, v.description, v.image_url,
	v.available, v.created_at, v.updated_at,
	c.id, c.name, c.description, c.created_at, c.updated_at`

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, category_id, make, model, year, plate, color,
			price_per_day, price_per_week, price_per_month, deposit_required,
			transmission, fuel_type, passenger_count, door_count, has_ac,
			mileage, engine_number, chassis_number, description, image_url,
			available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	// Нормализуем номер перед сохранением
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.CategoryID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Plate,
		vehicle.Color,
		vehicle.PricePerDay,
		vehicle.PricePerWeek,
		vehicle.PricePerMonth,
		vehicle.DepositRequired,
		vehicle.Transmission,
		vehicle.FuelType,
		vehicle.PassengerCount,
		vehicle.DoorCount,
		vehicle.HasAC,
		vehicle.Mileage,
		vehicle.EngineNumber,
		vehicle.ChassisNumber,
		vehicle.Description,
		vehicle.ImageURL,
		vehicle.Available,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN categories c ON c.id = v.category_id
		WHERE v.id = $1
	`

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN categories c ON c.id = v.category_id
		WHERE v.plate = $1
	`

	// Нормализуем номер перед поиском
	normalized := domain.NormalizePlate(plate)

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, normalized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET category_id = $2, make = $3, model = $4, year = $5, plate = $6, color = $7,
		    price_per_day = $8, price_per_week = $9, price_per_month = $10, deposit_required = $11,
		    transmission = $12, fuel_type = $13, passenger_count = $14, door_count = $15, has_ac = $16,
		    mileage = $17, engine_number = $18, chassis_number = $19, description = $20, image_url = $21,
		    available = $22, updated_at = $23
		WHERE id = $1
	`

	vehicle.UpdatedAt = time.Now()
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.CategoryID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Plate,
		vehicle.Color,
		vehicle.PricePerDay,
		vehicle.PricePerWeek,
		vehicle.PricePerMonth,
		vehicle.DepositRequired,
		vehicle.Transmission,
		vehicle.FuelType,
		vehicle.PassengerCount,
		vehicle.DoorCount,
		vehicle.HasAC,
		vehicle.Mileage,
		vehicle.EngineNumber,
		vehicle.ChassisNumber,
		vehicle.Description,
		vehicle.ImageURL,
		vehicle.Available,
		vehicle.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `
		UPDATE vehicles
		SET available = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, available, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN categories c ON c.id = v.category_id
		ORDER BY v.make ASC, v.model ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (r *vehicleRepository) ListAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	// Автомобиль бронируем, если он помечен доступным и прямо сейчас
	// не находится на руках у клиента (нет брони IN_PROGRESS).
	// PENDING и CONFIRMED заявки автомобиль не блокируют.
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN categories c ON c.id = v.category_id
		WHERE v.available = true
		  AND v.id NOT IN (
			SELECT vehicle_id FROM reservations WHERE status = 'IN_PROGRESS'
		  )
		ORDER BY v.make ASC, v.model ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// scanVehicle читает автомобиль вместе с категорией из строки результата
func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{Category: &domain.Category{}}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.CategoryID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Plate,
		&vehicle.Color,
		&vehicle.PricePerDay,
		&vehicle.PricePerWeek,
		&vehicle.PricePerMonth,
		&vehicle.DepositRequired,
		&vehicle.Transmission,
		&vehicle.FuelType,
		&vehicle.PassengerCount,
		&vehicle.DoorCount,
		&vehicle.HasAC,
		&vehicle.Mileage,
		&vehicle.EngineNumber,
		&vehicle.ChassisNumber,
		&vehicle.Description,
		&vehicle.ImageURL,
		&vehicle.Available,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
		&vehicle.Category.ID,
		&vehicle.Category.Name,
		&vehicle.Category.Description,
		&vehicle.Category.CreatedAt,
		&vehicle.Category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func scanVehicles(rows pgx.Rows) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}
