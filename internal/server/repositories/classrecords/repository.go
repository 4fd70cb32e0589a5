// Package classrecords stores class records. Every operation is scoped to a
// tenant, and a record is only ever visible through the tenant that owns it.
package classrecords

import (
	"context"

	"github.com/dmitrijs2005/gpatracker/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, tenant string) ([]*models.ClassRecord, error)
	Create(ctx context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error)

	// Update replaces the mutable fields of the tenant's record id and returns
	// common.ErrorNotFound when the tenant owns no such record.
	Update(ctx context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error)

	// Delete removes the tenant's record id; it is a no-op for foreign ids.
	Delete(ctx context.Context, tenant string, id int64) error

	// Totals returns Σ(grade×credits) and Σcredits over the tenant's records.
	Totals(ctx context.Context, tenant string) (points float64, credits int64, err error)
}
