package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PassengerRepository interface {
	Create(ctx context.Context, p domain.Passenger) error
	// FindByCredentials looks a passenger up by email and national id. The
	// national id doubles as the login secret; it is not a real credential.
	FindByCredentials(ctx context.Context, email, ssn string) (*domain.Passenger, error)
}

type PGPassengerRepository struct {
	db DB
}

func NewPassengerRepository(db DB) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) Create(ctx context.Context, p domain.Passenger) error {
	_, err := r.db.Exec(ctx, `INSERT INTO passengers (ssn, email, first_name, last_name, gender, date_of_birth, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.SSN, p.Email, p.FirstName, p.LastName, p.Gender, p.DateOfBirth, p.Phone)
	return translate("insert passenger", err)
}

func (r *PGPassengerRepository) FindByCredentials(ctx context.Context, email, ssn string) (*domain.Passenger, error) {
	var p domain.Passenger
	err := r.db.QueryRow(ctx, `SELECT ssn, first_name, last_name, email, phone, gender, date_of_birth
		FROM passengers WHERE lower(email) = lower($1) AND ssn = $2`, strings.TrimSpace(email), strings.TrimSpace(ssn)).
		Scan(&p.SSN, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Gender, &p.DateOfBirth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "passenger"}
		}
		return nil, translate("find passenger", err)
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
