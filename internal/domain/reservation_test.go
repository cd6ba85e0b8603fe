package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestReservationStatus_CanTransitionTo проверяет таблицу переходов статусов
func TestReservationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{"подтверждение заявки", StatusPending, StatusConfirmed, true},
		{"отклонение заявки", StatusPending, StatusRejected, true},
		{"отмена заявки", StatusPending, StatusCancelled, true},
		{"выдача автомобиля", StatusConfirmed, StatusInProgress, true},
		{"отмена подтвержденной", StatusConfirmed, StatusCancelled, true},
		{"возврат автомобиля", StatusInProgress, StatusCompleted, true},
		{"прерывание аренды", StatusInProgress, StatusCancelled, true},

		{"заявка сразу в аренду", StatusPending, StatusInProgress, false},
		{"заявка сразу завершена", StatusPending, StatusCompleted, false},
		{"подтвержденная отклонена", StatusConfirmed, StatusRejected, false},
		{"откат аренды", StatusInProgress, StatusPending, false},
		{"из завершенной", StatusCompleted, StatusInProgress, false},
		{"из отмененной", StatusCancelled, StatusPending, false},
		{"из отклоненной", StatusRejected, StatusConfirmed, false},
		{"переход в себя", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// TestReservation_Transition проверяет применение перехода к бронированию
func TestReservation_Transition(t *testing.T) {
	r := &Reservation{Status: StatusPending}

	err := r.Transition(StatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, r.Status)

	// Недопустимый переход не меняет статус
	err = r.Transition(StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StatusConfirmed, r.Status)

	err = r.Transition(StatusInProgress)
	assert.NoError(t, err)

	err = r.Transition(StatusCompleted)
	assert.NoError(t, err)
	assert.True(t, r.Status.IsTerminal())

	err = r.Transition(StatusInProgress)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReservationStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, ReservationStatus("UNKNOWN").IsValid())
	assert.False(t, ReservationStatus("").IsValid())
}

// TestRentalDayCount проверяет включительный подсчет дней аренды
func TestRentalDayCount(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		days  int
	}{
		{"один день", date(2024, 6, 1), date(2024, 6, 1), 1},
		{"выходные", date(2024, 6, 1), date(2024, 6, 2), 2},
		{"пять дней", date(2024, 6, 1), date(2024, 6, 5), 5},
		{"через границу месяца", date(2024, 6, 29), date(2024, 7, 2), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, RentalDayCount(tt.start, tt.end))
		})
	}
}

// TestDateRangesOverlap проверяет включительное пересечение диапазонов
func TestDateRangesOverlap(t *testing.T) {
	date := func(d int) time.Time {
		return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		aStart   int
		aEnd     int
		bStart   int
		bEnd     int
		overlaps bool
	}{
		{"вложенный диапазон", 1, 10, 3, 5, true},
		{"пересечение хвоста", 1, 10, 8, 15, true},
		{"пересечение начала", 5, 10, 1, 6, true},
		{"совпадение границ", 1, 10, 10, 12, true},
		{"идентичные диапазоны", 1, 10, 1, 10, true},
		{"встык после", 1, 10, 11, 15, false},
		{"встык до", 11, 15, 1, 10, false},
		{"далеко друг от друга", 1, 5, 20, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateRangesOverlap(date(tt.aStart), date(tt.aEnd), date(tt.bStart), date(tt.bEnd))
			assert.Equal(t, tt.overlaps, got)
		})
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 6, 15, 18, 45, 30, 123, time.UTC)
	got := DateOnly(ts)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizePlate("abc 123"))
	assert.Equal(t, "ABC123", NormalizePlate("ABC-123"))
	assert.Equal(t, "ABC123", NormalizePlate("  abc-1 23 "))
}
