package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// Open creates a bounded pool and checks the server answers within the
// acquire timeout.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.ConnConfig.ConnectTimeout = cfg.AcquireTimeout()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout())
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var uniqueConflicts = map[string]domain.ConflictError{
	"bookings_flight_seat_key": {Resource: "seat", Msg: "already booked on this flight"},
	"bookings_natural_key":     {Resource: "booking", Msg: "an identical booking was submitted at the same instant"},
	"passengers_pkey":          {Resource: "passenger", Msg: "national id already registered"},
	"passengers_email_key":     {Resource: "passenger", Msg: "email already registered"},
}

// translate maps driver errors onto the domain error taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			conflict, ok := uniqueConflicts[pgErr.ConstraintName]
			if !ok {
				conflict = domain.ConflictError{Resource: "record", Msg: "duplicate key"}
			}
			conflict.Err = err
			return conflict
		case foreignKeyViolation:
			return domain.ConflictError{Resource: "booking", Msg: "referenced flight or passenger does not exist", Err: err}
		}
	}

	if isUnavailable(err) {
		return domain.UnavailableError{Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}
