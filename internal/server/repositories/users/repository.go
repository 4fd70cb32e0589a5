// Package users declares and implements the identity store: the registry of
// accounts with their credentials and tenant names.
package users

import (
	"context"

	"github.com/dmitrijs2005/gpatracker/internal/server/models"
)

// Repository is the identity store contract. Lookups return
// common.ErrorNotFound when no row matches; Create returns
// common.ErrDuplicateUser when a unique constraint rejects the row.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByLoginOrEmail(ctx context.Context, userName, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
