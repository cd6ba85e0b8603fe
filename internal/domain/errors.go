package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrInvalidUserStatus  = errors.New("invalid user status")
	ErrUserInactive       = errors.New("user is not active")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserHasActiveRents = errors.New("user has active reservations")
)

// Category errors
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrInvalidCategoryData   = errors.New("invalid category data")
	ErrCategoryHasVehicles   = errors.New("category has associated vehicles")
)

// Vehicle errors
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle already exists")
	ErrInvalidPlate         = errors.New("invalid license plate")
	ErrInvalidVehicleData   = errors.New("invalid vehicle data")
	ErrVehicleUnavailable   = errors.New("vehicle is not available")
	ErrVehicleInUse         = errors.New("vehicle is in use for the requested dates")
	ErrVehicleHasRents      = errors.New("vehicle has active reservations")
)

// Reservation errors
var (
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrInvalidReservationData = errors.New("invalid reservation data")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrInvalidState           = errors.New("invalid reservation state transition")
	ErrContractNotAvailable   = errors.New("contract is not available for this reservation state")
)

// Payment errors
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
