package users

import "context"

type Store interface {
	// FindByEmail returns ErrNotFound when no user has the address.
	FindByEmail(ctx context.Context, email string) (User, error)
	// Create returns ErrConflict when the email is already registered.
	Create(ctx context.Context, user User) (string, error)
	List(ctx context.Context) ([]User, error)
	Ping(ctx context.Context) error
}
