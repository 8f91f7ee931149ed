package repository

import (
	"context"
	_ "embed"
)

//go:embed migrations/001_schema.sql
var schemaSQL string

// Migrate creates the schema when missing. Statements are idempotent.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return translate("migrate schema", err)
	}
	return nil
}
