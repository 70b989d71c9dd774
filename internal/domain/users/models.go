package users

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Token    string
	Username string
	Email    string
}
