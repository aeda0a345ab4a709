// Package localstate persists small client-local values across sessions,
// such as the last-used email address. It is the terminal analogue of the
// original client's browser local storage: a sqlite-backed key/value table.
package localstate

import "context"

// Keys used by the application.
const (
	KeyEmail = "email"
)

// Repository is a string key/value store.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
