// Package directory holds the client-side state of the employee list: the
// fetched collection, the three filter texts, and form validation that runs
// before anything is sent to the server.
package directory

import (
	"regexp"
	"strconv"
	"strings"

	"empdir/internal/domain/employees"
)

const MaxImageBytes = 5 * 1024 * 1024

// View recomputes its visible rows from the full collection whenever the
// collection or a filter changes.
type View struct {
	all        []employees.Employee
	visible    []employees.Employee
	search     string
	department string
	position   string
}

func (v *View) SetEmployees(list []employees.Employee) {
	v.all = append([]employees.Employee(nil), list...)
	v.refresh()
}

func (v *View) SetSearch(term string) {
	v.search = strings.TrimSpace(term)
	v.refresh()
}

func (v *View) SetDepartment(term string) {
	v.department = strings.TrimSpace(term)
	v.refresh()
}

func (v *View) SetPosition(term string) {
	v.position = strings.TrimSpace(term)
	v.refresh()
}

func (v *View) ClearFilters() {
	v.search, v.department, v.position = "", "", ""
	v.refresh()
}

// Filters returns the current search, department and position texts.
func (v *View) Filters() (string, string, string) {
	return v.search, v.department, v.position
}

func (v *View) Visible() []employees.Employee {
	return v.visible
}

func (v *View) Total() int {
	return len(v.all)
}

// Find looks an employee up by id or by 1-based row number of the visible list.
func (v *View) Find(ref string) (employees.Employee, bool) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(v.visible) {
		return v.visible[n-1], true
	}
	for _, emp := range v.all {
		if emp.ID == ref {
			return emp, true
		}
	}
	return employees.Employee{}, false
}

func (v *View) refresh() {
	filter := employees.Filter{Department: v.department, Position: v.position}
	out := make([]employees.Employee, 0, len(v.all))
	for _, emp := range v.all {
		if matchesSearch(emp, v.search) && filter.Matches(emp) {
			out = append(out, emp)
		}
	}
	v.visible = out
}

// matchesSearch looks at names and email only.
func matchesSearch(emp employees.Employee, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{emp.FirstName, emp.LastName, emp.Email} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

// FormInput is the text a user typed into the add or edit form.
type FormInput struct {
	FirstName     string
	LastName      string
	Email         string
	Position      string
	Department    string
	Salary        string
	DateOfJoining string
}

// FieldErrors maps JSON field names to a message shown next to the field.
type FieldErrors map[string]string

// Validate mirrors the server's required-field rules so mistakes surface
// before a request is made.
func (f FormInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["first_name"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["last_name"] = "Last name is required"
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs["email"] = "Email is required"
	case !looseEmail.MatchString(email):
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(f.Position) == "" {
		errs["position"] = "Position is required"
	}
	if strings.TrimSpace(f.Department) == "" {
		errs["department"] = "Department is required"
	}
	switch salary := strings.TrimSpace(f.Salary); {
	case salary == "":
		errs["salary"] = "Salary is required"
	default:
		if n, err := strconv.ParseFloat(salary, 64); err != nil || n <= 0 {
			errs["salary"] = "Salary must be a positive number"
		}
	}
	switch date := strings.TrimSpace(f.DateOfJoining); {
	case date == "":
		errs["date_of_joining"] = "Date of joining is required"
	default:
		if _, err := employees.ParseDate(date); err != nil {
			errs["date_of_joining"] = "Valid date is required"
		}
	}
	return errs
}

// Values returns the trimmed form keyed by JSON field name.
func (f FormInput) Values() map[string]string {
	return map[string]string{
		"first_name":      strings.TrimSpace(f.FirstName),
		"last_name":       strings.TrimSpace(f.LastName),
		"email":           strings.TrimSpace(f.Email),
		"position":        strings.TrimSpace(f.Position),
		"department":      strings.TrimSpace(f.Department),
		"salary":          strings.TrimSpace(f.Salary),
		"date_of_joining": strings.TrimSpace(f.DateOfJoining),
	}
}

// FormFromEmployee pre-fills the edit form.
func FormFromEmployee(emp employees.Employee) FormInput {
	return FormInput{
		FirstName:     emp.FirstName,
		LastName:      emp.LastName,
		Email:         emp.Email,
		Position:      emp.Position,
		Department:    emp.Department,
		Salary:        strconv.FormatFloat(emp.Salary, 'f', -1, 64),
		DateOfJoining: emp.DateOfJoining.Format("2006-01-02"),
	}
}

// Changed returns only the values that differ from before.
func Changed(before, after FormInput) map[string]string {
	old := before.Values()
	out := map[string]string{}
	for key, value := range after.Values() {
		if old[key] != value {
			out[key] = value
		}
	}
	return out
}

// ValidateImage returns the message to show for a rejected profile picture,
// or "" when the file is acceptable.
func ValidateImage(contentType string, size int64) string {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "Please select an image file"
	}
	if size > MaxImageBytes {
		return "File size must be less than 5MB"
	}
	return ""
}
