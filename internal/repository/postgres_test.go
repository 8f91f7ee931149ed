package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))

	err := translate("op", &pgconn.PgError{Code: "23505", ConstraintName: "passengers_pkey"})
	var conflict domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "passenger", conflict.Resource)

	err = translate("op", &pgconn.PgError{Code: "23505", ConstraintName: "something_else"})
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "record", conflict.Resource)

	err = translate("op", &pgconn.PgError{Code: "23503"})
	assert.True(t, domain.IsConflict(err))

	err = translate("search flights", fmt.Errorf("acquire: %w", context.DeadlineExceeded))
	assert.True(t, domain.IsUnavailable(err))

	plain := errors.New("syntax error")
	err = translate("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, domain.IsUnavailable(err))
	assert.Equal(t, "op: syntax error", err.Error())
}

func TestMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS airplanes").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
