package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gpatracker/internal/dbx"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/classrecords"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tenants(db dbx.DBTX) tenants.Repository
	ClassRecords(db dbx.DBTX) classrecords.Repository
}
