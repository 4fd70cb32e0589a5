package classrecords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/dbx"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
)

// PostgresRepository implements Repository over the shared class_records table.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, tenant string) ([]*models.ClassRecord, error) {
	query := `
		SELECT id, department, class_id, grade, credits, created_at, updated_at
		FROM class_records
		WHERE tenant = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to select class records: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ClassRecord, 0)
	for rows.Next() {
		var item models.ClassRecord
		if err := rows.Scan(
			&item.ID, &item.Department, &item.ClassID, &item.Grade, &item.Credits,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error) {
	query := `
		INSERT INTO class_records (tenant, department, class_id, grade, credits)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, department, class_id, grade, credits, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query,
		tenant, rec.Department, rec.ClassID, rec.Grade, rec.Credits)
	stored, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error) {
	query := `
		UPDATE class_records
		SET department = $1, class_id = $2, grade = $3, credits = $4, updated_at = now()
		WHERE id = $5 AND tenant = $6
		RETURNING id, department, class_id, grade, credits, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query,
		rec.Department, rec.ClassID, rec.Grade, rec.Credits, rec.ID, tenant)
	stored, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

// scanRecord reads the row as the database stored it, so NUMERIC rounding of
// grade is visible to the caller.
func scanRecord(row *sql.Row) (*models.ClassRecord, error) {
	var item models.ClassRecord
	if err := row.Scan(
		&item.ID, &item.Department, &item.ClassID, &item.Grade, &item.Credits,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tenant string, id int64) error {
	query := `
		DELETE FROM class_records
		WHERE id = $1 AND tenant = $2
	`
	if _, err := r.db.ExecContext(ctx, query, id, tenant); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Totals(ctx context.Context, tenant string) (float64, int64, error) {
	query := `
		SELECT COALESCE(SUM(grade * credits), 0)::float8, COALESCE(SUM(credits), 0)::bigint
		FROM class_records
		WHERE tenant = $1
	`
	var points float64
	var credits int64
	if err := r.db.QueryRowContext(ctx, query, tenant).Scan(&points, &credits); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return points, credits, nil
}
