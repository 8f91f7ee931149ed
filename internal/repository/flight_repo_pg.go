package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FilterKind says which optional search filters are present. Each kind maps
// to one fixed statement; no SQL is assembled at runtime.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterDate
	FilterRoute
	FilterRouteDate
)

// SearchFilter narrows the upcoming-flights query. DayStart/DayEnd bound the
// departure day as a half-open interval.
type SearchFilter struct {
	FromCity string
	ToCity   string
	DayStart time.Time
	DayEnd   time.Time
}

func (f SearchFilter) Kind() FilterKind {
	hasRoute := strings.TrimSpace(f.FromCity) != "" || strings.TrimSpace(f.ToCity) != ""
	hasDate := !f.DayStart.IsZero()
	switch {
	case hasRoute && hasDate:
		return FilterRouteDate
	case hasDate:
		return FilterDate
	case hasRoute:
		return FilterRoute
	default:
		return FilterNone
	}
}

const (
	flightColumns = `SELECT f.flight_no, f.from_city, f.to_city, f.departure_time, f.landing_time, f.gate_no,
		a.reg_no, a.model, a.capacity, f.base_price_cents
		FROM flights f
		JOIN airplanes a ON a.reg_no = f.reg_no`
	upcoming     = ` WHERE f.departure_time >= $1`
	searchOrder  = ` ORDER BY f.departure_time ASC, f.flight_no ASC`
	dateClause   = ` AND f.departure_time >= $2 AND f.departure_time < $3`
	routeClause2 = ` AND ($2 = '' OR lower(f.from_city) = lower($2)) AND ($3 = '' OR lower(f.to_city) = lower($3))`
	routeClause4 = ` AND ($4 = '' OR lower(f.from_city) = lower($4)) AND ($5 = '' OR lower(f.to_city) = lower($5))`
)

var searchStatements = map[FilterKind]string{
	FilterNone:      flightColumns + upcoming + searchOrder,
	FilterDate:      flightColumns + upcoming + dateClause + searchOrder,
	FilterRoute:     flightColumns + upcoming + routeClause2 + searchOrder,
	FilterRouteDate: flightColumns + upcoming + dateClause + routeClause4 + searchOrder,
}

type FlightRepository interface {
	Search(ctx context.Context, filter SearchFilter) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db  DB
	now func() time.Time
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db, now: time.Now}
}

func (r *PGFlightRepository) Search(ctx context.Context, filter SearchFilter) ([]domain.Flight, error) {
	kind := filter.Kind()
	args := []any{r.now()}
	switch kind {
	case FilterDate:
		args = append(args, filter.DayStart, filter.DayEnd)
	case FilterRoute:
		args = append(args, strings.TrimSpace(filter.FromCity), strings.TrimSpace(filter.ToCity))
	case FilterRouteDate:
		args = append(args, filter.DayStart, filter.DayEnd, strings.TrimSpace(filter.FromCity), strings.TrimSpace(filter.ToCity))
	}

	rows, err := r.db.Query(ctx, searchStatements[kind], args...)
	if err != nil {
		return nil, translate("search flights", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, translate("scan flight", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("search flights", err)
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, flightColumns+` WHERE f.flight_no = $1`, flightNo)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "flight"}
		}
		return nil, translate("get flight", err)
	}
	return &f, nil
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.FlightNo, &f.FromCity, &f.ToCity, &f.DepartureTime, &f.LandingTime, &f.Gate,
		&f.Airplane.RegNo, &f.Airplane.Model, &f.Airplane.Capacity, &f.BasePriceCents)
	return f, err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
