package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrConflict           = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)
