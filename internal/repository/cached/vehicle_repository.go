package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/autorenta/api/internal/pkg/redis"
	"github.com/autorenta/api/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	vehicleCachePrefix  = "vehicles:"
	vehicleCatalogKey   = vehicleCachePrefix + "catalog"
	vehicleAvailableKey = vehicleCachePrefix + "available"
	vehicleCacheTTL     = 5 * time.Minute
)

// VehicleRepository добавляет кэширование к vehicle repository.
// Кэшируются только списки каталога: это самые частые запросы
// публичной части. Любая запись инвалидирует оба списка.
type VehicleRepository struct {
	repo  repository.VehicleRepository
	cache *redis.Client
}

// NewVehicleRepository создает новый кэшируемый vehicle repository
func NewVehicleRepository(repo repository.VehicleRepository, cache *redis.Client) *VehicleRepository {
	return &VehicleRepository{
		repo:  repo,
		cache: cache,
	}
}

// List возвращает все автомобили (с кэшированием)
func (r *VehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.listCached(ctx, vehicleCatalogKey, r.repo.List)
}

// ListAvailable возвращает доступные автомобили (с кэшированием)
func (r *VehicleRepository) ListAvailable(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.listCached(ctx, vehicleAvailableKey, r.repo.ListAvailable)
}

func (r *VehicleRepository) listCached(ctx context.Context, cacheKey string, load func(context.Context) ([]*domain.Vehicle, error)) ([]*domain.Vehicle, error) {
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var vehicles []*domain.Vehicle
		if unmarshalErr := json.Unmarshal([]byte(cached), &vehicles); unmarshalErr == nil {
			return vehicles, nil
		}
		// Битое значение в кэше, перечитываем из БД
	} else if err != redisv9.Nil {
		// Ошибка кэша не должна валить запрос, продолжаем с БД
	}

	vehicles, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(vehicles); marshalErr == nil {
		_ = r.cache.Set(ctx, cacheKey, data, vehicleCacheTTL)
	}

	return vehicles, nil
}

// GetByID не кэшируется: карточка всегда читается свежей
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return r.repo.GetByID(ctx, id)
}

// GetByPlate не кэшируется: используется только при создании и редактировании
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.repo.GetByPlate(ctx, plate)
}

// Create создает автомобиль и инвалидирует списки
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.repo.Create(ctx, vehicle); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Update обновляет автомобиль и инвалидирует списки
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.repo.Update(ctx, vehicle); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// SetAvailability переключает доступность и инвалидирует списки
func (r *VehicleRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := r.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Delete удаляет автомобиль и инвалидирует списки
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *VehicleRepository) invalidate(ctx context.Context) {
	// Ошибки инвалидации не критичны: TTL пять минут
	_ = r.cache.DelByPattern(ctx, vehicleCachePrefix+"*")
}
