package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flightCols = []string{"flight_no", "from_city", "to_city", "departure_time", "landing_time", "gate_no",
	"reg_no", "model", "capacity", "base_price_cents"}

func TestSearchFilter_Kind(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter SearchFilter
		want   FilterKind
	}{
		{"empty", SearchFilter{}, FilterNone},
		{"blank route", SearchFilter{FromCity: "  "}, FilterNone},
		{"date", SearchFilter{DayStart: day, DayEnd: day.AddDate(0, 0, 1)}, FilterDate},
		{"from only", SearchFilter{FromCity: "Oslo"}, FilterRoute},
		{"route and date", SearchFilter{FromCity: "Oslo", ToCity: "Rome", DayStart: day, DayEnd: day.AddDate(0, 0, 1)}, FilterRouteDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Kind())
		})
	}
}

func TestFlightRepository_Search_Date(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	dep := day.Add(9 * time.Hour)

	mock.ExpectQuery(`departure_time >= \$2 AND f.departure_time < \$3 ORDER BY f.departure_time ASC, f.flight_no ASC`).
		WithArgs(now, day, day.AddDate(0, 0, 1)).
		WillReturnRows(pgxmock.NewRows(flightCols).
			AddRow("SK100", "Oslo", "Rome", dep, dep.Add(3*time.Hour), "G1", "LN-ABC", "A320", 180, int64(120000)))

	repo := &PGFlightRepository{db: mock, now: func() time.Time { return now }}
	flights, err := repo.Search(context.Background(), SearchFilter{DayStart: day, DayEnd: day.AddDate(0, 0, 1)})

	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "SK100", flights[0].FlightNo)
	assert.Equal(t, 180, flights[0].Airplane.Capacity)
	assert.Equal(t, int64(120000), flights[0].BasePriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_Search_RouteTrimmed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`lower\(f.from_city\) = lower\(\$2\)`).
		WithArgs(now, "Oslo", "").
		WillReturnRows(pgxmock.NewRows(flightCols))

	repo := &PGFlightRepository{db: mock, now: func() time.Time { return now }}
	flights, err := repo.Search(context.Background(), SearchFilter{FromCity: " Oslo "})

	assert.NoError(t, err)
	assert.Empty(t, flights)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_Search_RouteAndDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`lower\(f.to_city\) = lower\(\$5\)`).
		WithArgs(now, day, day.AddDate(0, 0, 1), "Oslo", "Rome").
		WillReturnRows(pgxmock.NewRows(flightCols))

	repo := &PGFlightRepository{db: mock, now: func() time.Time { return now }}
	_, err = repo.Search(context.Background(), SearchFilter{FromCity: "Oslo", ToCity: "Rome", DayStart: day, DayEnd: day.AddDate(0, 0, 1)})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_GetByNumber_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WHERE f.flight_no = \$1`).WithArgs("XX1").WillReturnError(pgx.ErrNoRows)

	repo := NewFlightRepository(mock)
	f, err := repo.GetByNumber(context.Background(), "XX1")

	assert.Nil(t, f)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepository_GetByNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dep := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE f.flight_no = \$1`).WithArgs("SK100").
		WillReturnRows(pgxmock.NewRows(flightCols).
			AddRow("SK100", "Oslo", "Rome", dep, dep.Add(3*time.Hour), "G1", "LN-ABC", "A320", 180, int64(0)))

	repo := NewFlightRepository(mock)
	f, err := repo.GetByNumber(context.Background(), "SK100")

	require.NoError(t, err)
	assert.Equal(t, "Rome", f.ToCity)
	assert.Equal(t, "LN-ABC", f.Airplane.RegNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
