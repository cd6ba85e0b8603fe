package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transmission представляет тип коробки передач
type Transmission string

const (
	TransmissionManual    Transmission = "MANUAL"
	TransmissionAutomatic Transmission = "AUTOMATIC"
)

// FuelType представляет тип топлива
type FuelType string

const (
	FuelGasoline FuelType = "GASOLINE"
	FuelDiesel   FuelType = "DIESEL"
	FuelElectric FuelType = "ELECTRIC"
	FuelHybrid   FuelType = "HYBRID"
)

// Vehicle - автомобиль автопарка
// Цена за день фиксируется в бронировании на момент создания заявки
type Vehicle struct {
	ID              uuid.UUID    `json:"id"`
	CategoryID      uuid.UUID    `json:"category_id"`
	Make            string       `json:"make"`
	Model           string       `json:"model"`
	Year            int          `json:"year"`
	Plate           string       `json:"plate"` // Номерной знак (уникальный)
	Color           string       `json:"color,omitempty"`
	PricePerDay     float64      `json:"price_per_day"`
	PricePerWeek    *float64     `json:"price_per_week,omitempty"`
	PricePerMonth   *float64     `json:"price_per_month,omitempty"`
	DepositRequired float64      `json:"deposit_required"`
	Transmission    Transmission `json:"transmission"`
	FuelType        FuelType     `json:"fuel_type"`
	PassengerCount  int          `json:"passenger_count"`
	DoorCount       int          `json:"door_count"`
	HasAC           bool         `json:"has_ac"`
	Mileage         int          `json:"mileage"`
	EngineNumber    string       `json:"engine_number,omitempty"`
	ChassisNumber   string       `json:"chassis_number,omitempty"`
	Description     string       `json:"description,omitempty"`
	ImageURL        string       `json:"image_url,omitempty"`
	Available       bool         `json:"available"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Category *Category `json:"category,omitempty"`
}

// NormalizePlate нормализует номерной знак (убирает пробелы и дефисы, приводит к верхнему регистру)
func NormalizePlate(plate string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
	normalized = strings.ReplaceAll(normalized, "-", "")
	return normalized
}

// Validate проверяет корректность данных автомобиля
func (v *Vehicle) Validate() error {
	if v.CategoryID == uuid.Nil {
		return ErrInvalidVehicleData
	}
	if v.Make == "" || v.Model == "" {
		return ErrInvalidVehicleData
	}
	if v.Year < 1950 || v.Year > time.Now().Year()+1 {
		return ErrInvalidVehicleData
	}
	if v.Plate == "" {
		return ErrInvalidPlate
	}
	// Нормализуем номер
	v.Plate = NormalizePlate(v.Plate)
	if len(v.Plate) < 4 || len(v.Plate) > 20 {
		return ErrInvalidPlate
	}
	if v.PricePerDay <= 0 || v.DepositRequired < 0 {
		return ErrInvalidVehicleData
	}
	if v.Transmission != TransmissionManual && v.Transmission != TransmissionAutomatic {
		return ErrInvalidVehicleData
	}
	switch v.FuelType {
	case FuelGasoline, FuelDiesel, FuelElectric, FuelHybrid:
	default:
		return ErrInvalidVehicleData
	}
	if v.PassengerCount < 1 || v.DoorCount < 1 {
		return ErrInvalidVehicleData
	}
	return nil
}
