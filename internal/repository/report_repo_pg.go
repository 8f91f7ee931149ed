package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
)

const (
	topFlightsSQL = `SELECT f.flight_no, COUNT(*) AS pax_count, MIN(b.booked_at), MAX(b.booked_at)
		FROM bookings b
		JOIN flights f ON b.flight_no = f.flight_no
		GROUP BY f.flight_no
		ORDER BY pax_count DESC, f.flight_no`
	capacityOverAvgSQL = `SELECT f.flight_no, a.model, a.capacity
		FROM flights f
		JOIN airplanes a ON f.reg_no = a.reg_no
		WHERE a.capacity > (SELECT AVG(capacity) FROM airplanes)
		ORDER BY a.capacity DESC, f.flight_no`
	bagsByGateSQL = `SELECT f.gate_no, COALESCE(SUM(b.baggage_count), 0) AS total_bags
		FROM bookings b
		JOIN flights f ON b.flight_no = f.flight_no
		GROUP BY f.gate_no
		ORDER BY total_bags DESC, f.gate_no`
)

type ReportRepository interface {
	TopFlights(ctx context.Context) ([]domain.FlightLoad, error)
	CapacityOverAverage(ctx context.Context) ([]domain.LargeAircraftFlight, error)
	BagsByGate(ctx context.Context) ([]domain.GateBaggage, error)
}

type PGReportRepository struct {
	db DB
}

func NewReportRepository(db DB) ReportRepository {
	return &PGReportRepository{db: db}
}

func (r *PGReportRepository) TopFlights(ctx context.Context) ([]domain.FlightLoad, error) {
	rows, err := r.db.Query(ctx, topFlightsSQL)
	if err != nil {
		return nil, translate("top flights report", err)
	}
	defer rows.Close()

	out := make([]domain.FlightLoad, 0)
	for rows.Next() {
		var l domain.FlightLoad
		if err := rows.Scan(&l.FlightNo, &l.Passengers, &l.FirstBooking, &l.LastBooking); err != nil {
			return nil, translate("scan flight load", err)
		}
		out = append(out, l)
	}
	return out, translate("top flights report", rows.Err())
}

func (r *PGReportRepository) CapacityOverAverage(ctx context.Context) ([]domain.LargeAircraftFlight, error) {
	rows, err := r.db.Query(ctx, capacityOverAvgSQL)
	if err != nil {
		return nil, translate("capacity report", err)
	}
	defer rows.Close()

	out := make([]domain.LargeAircraftFlight, 0)
	for rows.Next() {
		var f domain.LargeAircraftFlight
		if err := rows.Scan(&f.FlightNo, &f.Model, &f.Capacity); err != nil {
			return nil, translate("scan capacity row", err)
		}
		out = append(out, f)
	}
	return out, translate("capacity report", rows.Err())
}

func (r *PGReportRepository) BagsByGate(ctx context.Context) ([]domain.GateBaggage, error) {
	rows, err := r.db.Query(ctx, bagsByGateSQL)
	if err != nil {
		return nil, translate("baggage report", err)
	}
	defer rows.Close()

	out := make([]domain.GateBaggage, 0)
	for rows.Next() {
		var g domain.GateBaggage
		if err := rows.Scan(&g.Gate, &g.TotalBags); err != nil {
			return nil, translate("scan gate row", err)
		}
		out = append(out, g)
	}
	return out, translate("baggage report", rows.Err())
}

var _ ReportRepository = (*PGReportRepository)(nil)
