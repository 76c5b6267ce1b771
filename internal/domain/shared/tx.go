package shared

import "context"

// TransactionManager runs a unit of work atomically. Repositories invoked
// with the context passed to fn share one database transaction; fn returning
// an error rolls everything back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
