package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
)

const (
	insertPassengerSQL = `INSERT INTO passengers (ssn, email, first_name, last_name, gender, date_of_birth, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ssn) DO NOTHING`
	insertBookingSQL = `INSERT INTO bookings (id, flight_no, passenger_ssn, booked_at, seat_no, price_cents, baggage_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertEconomySQL  = `INSERT INTO economy_class (booking_id) VALUES ($1)`
	insertBusinessSQL = `INSERT INTO business_class (booking_id) VALUES ($1)`

	updateBookingSQL = `UPDATE bookings
		SET seat_no = COALESCE($1, seat_no),
			price_cents = COALESCE($2, price_cents),
			baggage_count = COALESCE($3, baggage_count)
		WHERE flight_no = $4 AND passenger_ssn = $5 AND booked_at = $6`

	byNaturalKey      = `SELECT id FROM bookings WHERE flight_no = $1 AND passenger_ssn = $2 AND booked_at = $3`
	deleteEconomySQL  = `DELETE FROM economy_class WHERE booking_id IN (` + byNaturalKey + `)`
	deleteBusinessSQL = `DELETE FROM business_class WHERE booking_id IN (` + byNaturalKey + `)`
	deleteBookingSQL  = `DELETE FROM bookings WHERE flight_no = $1 AND passenger_ssn = $2 AND booked_at = $3`
	occupiedSeatsSQL  = `SELECT seat_no FROM bookings WHERE flight_no = $1 ORDER BY seat_no`

	tripsByPassengerSQL = `SELECT b.id::text, b.flight_no, b.passenger_ssn, b.booked_at, b.seat_no, b.price_cents, b.baggage_count,
			CASE WHEN bc.booking_id IS NOT NULL THEN 'business' ELSE 'economy' END,
			f.departure_time, f.landing_time, f.gate_no, f.from_city, f.to_city, a.model
		FROM bookings b
		JOIN flights f ON f.flight_no = b.flight_no
		JOIN airplanes a ON a.reg_no = f.reg_no
		LEFT JOIN business_class bc ON bc.booking_id = b.id
		WHERE b.passenger_ssn = $1
		ORDER BY b.booked_at DESC`
)

type BookingRepository interface {
	// Create writes the passenger (when absent), the booking and its fare
	// class row in one transaction.
	Create(ctx context.Context, passenger domain.Passenger, booking *domain.Booking) error
	Update(ctx context.Context, key domain.BookingKey, patch domain.BookingPatch) error
	// Delete reports whether a booking row was removed.
	Delete(ctx context.Context, key domain.BookingKey) (bool, error)
	ListByPassenger(ctx context.Context, ssn string) ([]domain.Trip, error)
	OccupiedSeats(ctx context.Context, flightNo string) ([]string, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, p domain.Passenger, b *domain.Booking) (err error) {
	subtypeSQL, err := fareClassInsert(b.FareClass)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translate("begin booking", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, insertPassengerSQL,
		p.SSN, p.Email, p.FirstName, p.LastName, p.Gender, p.DateOfBirth, p.Phone); err != nil {
		return translate("insert passenger", err)
	}

	if _, err = tx.Exec(ctx, insertBookingSQL,
		b.ID, b.FlightNo, b.PassengerSSN, b.BookedAt, b.SeatNo, b.PriceCents, b.BaggageCount); err != nil {
		return translate("insert booking", err)
	}

	if _, err = tx.Exec(ctx, subtypeSQL, b.ID); err != nil {
		return translate("insert fare class", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return translate("commit booking", err)
	}
	return nil
}

func (r *PGBookingRepository) Update(ctx context.Context, key domain.BookingKey, patch domain.BookingPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	tag, err := r.db.Exec(ctx, updateBookingSQL,
		patch.SeatNo, patch.PriceCents, patch.BaggageCount,
		key.FlightNo, key.PassengerSSN, key.BookedAt)
	if err != nil {
		return translate("update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, key domain.BookingKey) (removed bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, translate("begin delete", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	args := []any{key.FlightNo, key.PassengerSSN, key.BookedAt}
	if _, err = tx.Exec(ctx, deleteEconomySQL, args...); err != nil {
		return false, translate("delete economy class", err)
	}
	if _, err = tx.Exec(ctx, deleteBusinessSQL, args...); err != nil {
		return false, translate("delete business class", err)
	}
	tag, err := tx.Exec(ctx, deleteBookingSQL, args...)
	if err != nil {
		return false, translate("delete booking", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, translate("commit delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGBookingRepository) ListByPassenger(ctx context.Context, ssn string) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, tripsByPassengerSQL, ssn)
	if err != nil {
		return nil, translate("list trips", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var t domain.Trip
		var fareClass string
		if err := rows.Scan(&t.Booking.ID, &t.Booking.FlightNo, &t.Booking.PassengerSSN, &t.Booking.BookedAt,
			&t.Booking.SeatNo, &t.Booking.PriceCents, &t.Booking.BaggageCount, &fareClass,
			&t.DepartureTime, &t.LandingTime, &t.Gate, &t.FromCity, &t.ToCity, &t.AirplaneModel); err != nil {
			return nil, translate("scan trip", err)
		}
		t.Booking.FareClass = domain.FareClass(fareClass)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list trips", err)
	}
	return trips, nil
}

func (r *PGBookingRepository) OccupiedSeats(ctx context.Context, flightNo string) ([]string, error) {
	rows, err := r.db.Query(ctx, occupiedSeatsSQL, flightNo)
	if err != nil {
		return nil, translate("occupied seats", err)
	}
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, translate("scan seat", err)
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("occupied seats", err)
	}
	return seats, nil
}

func fareClassInsert(fc domain.FareClass) (string, error) {
	switch fc {
	case domain.FareClassEconomy:
		return insertEconomySQL, nil
	case domain.FareClassBusiness:
		return insertBusinessSQL, nil
	default:
		return "", domain.ValidationError{Field: "fare_class", Msg: "must be economy or business"}
	}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
