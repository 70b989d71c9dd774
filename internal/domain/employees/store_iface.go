package employees

import "context"

type Store interface {
	// ValidID reports whether id has the store's identifier format.
	ValidID(id string) bool
	List(ctx context.Context, filter Filter) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, emp Employee) (string, error)
	Update(ctx context.Context, id string, change Change) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
