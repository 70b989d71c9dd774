package employees

import (
	"math"
	"strconv"
	"strings"
	"time"

	"empdir/internal/platform/email"
)

const (
	msgFirstName  = "First name is required"
	msgLastName   = "Last name is required"
	msgEmail      = "Valid email is required"
	msgPosition   = "Position is required"
	msgSalary     = "Salary must be a positive number"
	msgDate       = "Valid date is required"
	msgDepartment = "Department is required"
)

type validator struct {
	issues []Issue
}

func (v *validator) add(field, reason string) {
	v.issues = append(v.issues, Issue{Field: field, Reason: reason})
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

func (v *validator) text(field, value, reason string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, reason)
	}
	return value
}

func (v *validator) email(value string) string {
	value = email.Normalize(value)
	if !email.Valid(value) {
		v.add("email", msgEmail)
	}
	return value
}

func (v *validator) salary(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		v.add("salary", msgSalary)
	}
	return value
}

func (v *validator) salaryText(raw string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		v.add("salary", msgSalary)
		return 0
	}
	return v.salary(parsed)
}

func (v *validator) date(value time.Time) time.Time {
	if value.IsZero() {
		v.add("date_of_joining", msgDate)
		return value
	}
	return CalendarDate(value)
}

func (v *validator) dateText(raw string) time.Time {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.add("date_of_joining", msgDate)
		return time.Time{}
	}
	return parsed
}

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns midnight UTC of that day.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return CalendarDate(parsed), nil
	}
	return time.Parse("2006-01-02", value)
}

// CalendarDate drops the time of day, keeping the UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate normalizes f in place and reports every problem.
func (f *Fields) Validate() error {
	var v validator
	f.FirstName = v.text("first_name", f.FirstName, msgFirstName)
	f.LastName = v.text("last_name", f.LastName, msgLastName)
	f.Email = v.email(f.Email)
	f.Position = v.text("position", f.Position, msgPosition)
	v.salary(f.Salary)
	f.DateOfJoining = v.date(f.DateOfJoining)
	f.Department = v.text("department", f.Department, msgDepartment)
	return v.err()
}

// Validate normalizes supplied fields in place; absent fields are not checked.
func (p *Patch) Validate() error {
	var v validator
	p.FirstName = optionalText(&v, "first_name", p.FirstName, msgFirstName)
	p.LastName = optionalText(&v, "last_name", p.LastName, msgLastName)
	if p.Email != nil {
		addr := v.email(*p.Email)
		p.Email = &addr
	}
	p.Position = optionalText(&v, "position", p.Position, msgPosition)
	if p.Salary != nil {
		v.salary(*p.Salary)
	}
	if p.DateOfJoining != nil {
		date := v.date(*p.DateOfJoining)
		p.DateOfJoining = &date
	}
	p.Department = optionalText(&v, "department", p.Department, msgDepartment)
	return v.err()
}

func optionalText(v *validator, field string, value *string, reason string) *string {
	if value == nil {
		return nil
	}
	trimmed := v.text(field, *value, reason)
	return &trimmed
}

// Fields parses a create request. Missing and malformed values are both issues.
func (f Form) Fields() (Fields, error) {
	var v validator
	fields := Fields{
		FirstName:     v.text("first_name", deref(f.FirstName), msgFirstName),
		LastName:      v.text("last_name", deref(f.LastName), msgLastName),
		Email:         v.email(deref(f.Email)),
		Position:      v.text("position", deref(f.Position), msgPosition),
		Salary:        v.salaryText(deref(f.Salary)),
		DateOfJoining: v.dateText(deref(f.DateOfJoining)),
		Department:    v.text("department", deref(f.Department), msgDepartment),
	}
	return fields, v.err()
}

// Patch parses an update request, checking only the values that were sent.
func (f Form) Patch() (Patch, error) {
	var v validator
	var patch Patch
	patch.FirstName = optionalText(&v, "first_name", f.FirstName, msgFirstName)
	patch.LastName = optionalText(&v, "last_name", f.LastName, msgLastName)
	if f.Email != nil {
		addr := v.email(*f.Email)
		patch.Email = &addr
	}
	patch.Position = optionalText(&v, "position", f.Position, msgPosition)
	if f.Salary != nil {
		salary := v.salaryText(*f.Salary)
		patch.Salary = &salary
	}
	if f.DateOfJoining != nil {
		date := v.dateText(*f.DateOfJoining)
		patch.DateOfJoining = &date
	}
	patch.Department = optionalText(&v, "department", f.Department, msgDepartment)
	return patch, v.err()
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
