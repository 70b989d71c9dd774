package employees

import (
	"strings"
	"time"
)

type Employee struct {
	ID             string    `json:"employee_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Position       string    `json:"position"`
	Salary         float64   `json:"salary"`
	DateOfJoining  time.Time `json:"date_of_joining"`
	Department     string    `json:"department"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Filter terms are case-insensitive substrings; empty terms match everything.
type Filter struct {
	Department string
	Position   string
}

// Fields is a complete, typed employee payload.
type Fields struct {
	FirstName     string
	LastName      string
	Email         string
	Position      string
	Salary        float64
	DateOfJoining time.Time
	Department    string
}

// Patch carries only the fields being changed.
type Patch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Position      *string
	Salary        *float64
	DateOfJoining *time.Time
	Department    *string
}

// Change is what a store applies on update.
type Change struct {
	Patch          Patch
	ProfilePicture *string
	UpdatedAt      time.Time
}

// Form is the raw text of a create or update request. Nil means "not supplied".
type Form struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Position      *string
	Salary        *string
	DateOfJoining *string
	Department    *string
}

// Matches applies the filter semantics in memory.
func (f Filter) Matches(emp Employee) bool {
	return containsFold(emp.Department, f.Department) && containsFold(emp.Position, f.Position)
}

func containsFold(value, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}
