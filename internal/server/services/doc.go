// Package services holds the server's business logic: accounts and the
// tenant-scoped class record store.
package services
