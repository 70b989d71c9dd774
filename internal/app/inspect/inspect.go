package inspect

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"empdir/internal/domain/employees"
	"empdir/internal/domain/users"
)

type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

type EmployeeLister interface {
	List(ctx context.Context, filter employees.Filter) ([]employees.Employee, error)
}

const hashPreview = 20

// Dump prints every user and employee in a human-readable report.
func Dump(ctx context.Context, w io.Writer, userStore UserLister, employeeStore EmployeeLister) error {
	userList, err := userStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	employeeList, err := employeeStore.List(ctx, employees.Filter{})
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}

	p := &printer{w: w}
	p.line("========================================")
	p.line("   EMPLOYEE DIRECTORY DATABASE")
	p.line("========================================")
	p.line("")
	p.line("USERS")
	p.line("-----")
	p.line("Total users: %d", len(userList))
	p.line("")
	for i, user := range userList {
		p.line("User #%d:", i+1)
		p.line("  ID: %s", user.ID)
		p.line("  Username: %s", user.Username)
		p.line("  Email: %s", user.Email)
		p.line("  Password: %s (hashed)", TruncateHash(user.PasswordHash))
		p.line("  Created: %s", formatTime(user.CreatedAt))
		p.line("")
	}

	p.line("EMPLOYEES")
	p.line("---------")
	p.line("Total employees: %d", len(employeeList))
	p.line("")
	for i, emp := range employeeList {
		picture := "None"
		if emp.ProfilePicture != nil && *emp.ProfilePicture != "" {
			picture = *emp.ProfilePicture
		}
		p.line("Employee #%d:", i+1)
		p.line("  ID: %s", emp.ID)
		p.line("  Name: %s", emp.FullName())
		p.line("  Email: %s", emp.Email)
		p.line("  Position: %s", emp.Position)
		p.line("  Department: %s", emp.Department)
		p.line("  Salary: %s", employees.FormatSalary(emp.Salary))
		p.line("  Date of joining: %s", emp.DateOfJoining.Format("2006-01-02"))
		p.line("  Profile picture: %s", picture)
		p.line("  Created: %s", formatTime(emp.CreatedAt))
		p.line("  Updated: %s", formatTime(emp.UpdatedAt))
		p.line("")
	}
	p.line("========================================")
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func TruncateHash(hash string) string {
	if len(hash) <= hashPreview {
		return hash
	}
	return hash[:hashPreview] + "..."
}

// MaskURI hides the password of a connection string.
func MaskURI(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, ok := parsed.User.Password(); !ok {
		return raw
	}
	parsed.User = url.UserPassword(parsed.User.Username(), "****")
	return strings.Replace(parsed.String(), "%2A%2A%2A%2A", "****", 1)
}
