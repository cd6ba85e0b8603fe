package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category - категория автомобилей (седан, внедорожник и т.д.)
// Удаление категории запрещено, пока на нее ссылается хотя бы один автомобиль
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	VehicleCount int `json:"vehicle_count,omitempty"`
}

// Validate проверяет корректность данных категории
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidCategoryData
	}
	return nil
}
