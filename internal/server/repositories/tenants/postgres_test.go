package tenants

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provisionQ = `(?s)INSERT\s+INTO\s+tenants\s*\(name\)\s*VALUES\s*\(\$1\)\s*ON\s+CONFLICT\s*\(name\)\s*DO\s+NOTHING`

func TestProvision_IsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(provisionQ).WithArgs("user_alice_data").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(provisionQ).WithArgs("user_alice_data").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Provision(context.Background(), "user_alice_data"))
	require.NoError(t, repo.Provision(context.Background(), "user_alice_data"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvision_RejectsUnsafeName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewPostgresRepository(db).Provision(context.Background(), "users; DROP TABLE users")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement may run for a rejected name")
}

func TestProvision_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(provisionQ).WillReturnError(errors.New("boom"))

	err = NewPostgresRepository(db).Provision(context.Background(), "user_bob_data")
	assert.ErrorContains(t, err, "db error: boom")
}
