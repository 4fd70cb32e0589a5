package tenants

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gpatracker/internal/dbx"
	"github.com/dmitrijs2005/gpatracker/internal/server/tenancy"
)

// PostgresRepository registers tenant stores in the tenants table. Records of
// every tenant share class_records, keyed by the tenant column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Provision(ctx context.Context, name string) error {
	if err := tenancy.Validate(name); err != nil {
		return err
	}

	query := `
		INSERT INTO tenants (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
