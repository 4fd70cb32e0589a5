// Package tenants provisions tenant stores.
package tenants

import "context"

// Repository ensures a tenant store exists. Provision must be idempotent and
// must never touch the data of an existing store.
type Repository interface {
	Provision(ctx context.Context, name string) error
}
