package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"empdir/internal/client/api"
	"empdir/internal/client/directory"
	"empdir/internal/client/session"
	"empdir/internal/domain/employees"
)

func (a *App) cmdSignup(ctx context.Context, _ string) error {
	username, err := a.readLine("Username: ")
	if err != nil {
		return err
	}
	email, err := a.readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := a.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if username == "" || email == "" || password == "" {
		fmt.Fprintln(a.out, "Username, email and password are required.")
		return nil
	}
	if _, err := a.api.Signup(ctx, username, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User created successfully. You can now log in.")
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ string) error {
	email, err := a.readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := a.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	sess := session.Session{Token: result.Token, Username: result.Username, Email: result.Email}
	if err := a.sessions.Set(ctx, sess); err != nil {
		return err
	}
	a.api.SetToken(result.Token)
	a.user = &sess
	fmt.Fprintf(a.out, "Welcome, %s.\n", result.Username)

	if err := a.refresh(ctx); err != nil {
		return err
	}
	a.printTable()
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ string) error {
	a.forget(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, _ string) error {
	profile, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\n", profile.Username, profile.Email)
	return nil
}

func (a *App) cmdList(context.Context, string) error {
	a.printTable()
	return nil
}

func (a *App) cmdRefresh(ctx context.Context, _ string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	a.printTable()
	return nil
}

func (a *App) cmdSearch(_ context.Context, arg string) error {
	a.view.SetSearch(arg)
	a.printTable()
	return nil
}

func (a *App) cmdDepartment(_ context.Context, arg string) error {
	a.view.SetDepartment(arg)
	a.printTable()
	return nil
}

func (a *App) cmdPosition(_ context.Context, arg string) error {
	a.view.SetPosition(arg)
	a.printTable()
	return nil
}

func (a *App) cmdClear(context.Context, string) error {
	a.view.ClearFilters()
	a.printTable()
	return nil
}

func (a *App) lookup(arg string) (employees.Employee, bool) {
	if arg == "" {
		fmt.Fprintln(a.out, "Which employee? Give a row number or an id.")
		return employees.Employee{}, false
	}
	emp, ok := a.view.Find(arg)
	if !ok {
		fmt.Fprintf(a.out, "No employee %q in the current list.\n", arg)
	}
	return emp, ok
}

func (a *App) cmdView(ctx context.Context, arg string) error {
	emp, ok := a.lookup(arg)
	if !ok {
		return nil
	}
	fresh, err := a.api.GetEmployee(ctx, emp.ID)
	if err != nil {
		return err
	}
	a.printEmployee(fresh)
	return nil
}

func (a *App) cmdAdd(ctx context.Context, _ string) error {
	form, err := a.readForm(directory.FormInput{}, false)
	if err != nil {
		return err
	}
	image, err := a.readImage()
	if err != nil {
		return err
	}
	if invalid(a.out, form.Validate(), image) {
		return nil
	}

	if _, err := a.api.CreateEmployee(ctx, form.Values(), image.upload()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Employee created successfully.")
	return a.cmdRefresh(ctx, "")
}

func (a *App) cmdEdit(ctx context.Context, arg string) error {
	emp, ok := a.lookup(arg)
	if !ok {
		return nil
	}
	before := directory.FormFromEmployee(emp)
	after, err := a.readForm(before, true)
	if err != nil {
		return err
	}
	image, err := a.readImage()
	if err != nil {
		return err
	}
	if invalid(a.out, after.Validate(), image) {
		return nil
	}

	changes := directory.Changed(before, after)
	if len(changes) == 0 && image == nil {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}
	if err := a.api.UpdateEmployee(ctx, emp.ID, changes, image.upload()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Employee details updated successfully.")
	return a.cmdRefresh(ctx, "")
}

func (a *App) cmdDelete(ctx context.Context, arg string) error {
	emp, ok := a.lookup(arg)
	if !ok {
		return nil
	}
	yes, err := a.confirm(fmt.Sprintf("Delete %s? This cannot be undone.", emp.FullName()))
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.api.DeleteEmployee(ctx, emp.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Employee deleted successfully.")
	return a.cmdRefresh(ctx, "")
}

func (a *App) cmdRoster(ctx context.Context, arg string) error {
	path := arg
	if path == "" {
		path = "roster.pdf"
	}
	_, department, position := a.view.Filters()
	pdf, err := a.api.Roster(ctx, employees.Filter{Department: department, Position: position})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	fmt.Fprintf(a.out, "Roster saved to %s.\n", path)
	return nil
}

// readForm prompts for every field. With keep set, blank answers keep the
// value already in the form.
func (a *App) readForm(form directory.FormInput, keep bool) (directory.FormInput, error) {
	fields := []struct {
		label string
		value *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Email", &form.Email},
		{"Position", &form.Position},
		{"Department", &form.Department},
		{"Salary", &form.Salary},
		{"Date of joining (YYYY-MM-DD)", &form.DateOfJoining},
	}
	for _, field := range fields {
		var (
			value string
			err   error
		)
		if keep {
			value, err = a.readWithDefault(field.label, *field.value)
		} else {
			value, err = a.readLine(field.label + ": ")
		}
		if err != nil {
			return form, err
		}
		*field.value = value
	}
	return form, nil
}

type pickedImage struct {
	name        string
	contentType string
	data        []byte
	problem     string
}

func (p *pickedImage) upload() *api.Image {
	if p == nil {
		return nil
	}
	return &api.Image{Filename: p.name, ContentType: p.contentType, Content: bytes.NewReader(p.data)}
}

// readImage asks for an optional picture. The file is inspected locally so a
// non-image never reaches the network.
func (a *App) readImage() (*pickedImage, error) {
	path, err := a.readLine("Profile picture path (blank for none): ")
	if err != nil || path == "" {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return &pickedImage{problem: fmt.Sprintf("Cannot read %s", path)}, nil
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	picked := &pickedImage{name: filepath.Base(path)}
	if problem := directory.ValidateImage(contentTypeOr(contentType, "image/"), info.Size()); problem != "" {
		picked.problem = problem
		return picked, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	picked.contentType = contentType
	picked.data = data
	picked.problem = directory.ValidateImage(contentType, int64(len(data)))
	return picked, nil
}

func contentTypeOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// invalid prints field errors in form order and reports whether there were any.
func invalid(out io.Writer, errs directory.FieldErrors, image *pickedImage) bool {
	if image != nil && image.problem != "" {
		errs["profile_picture"] = image.problem
	}
	if len(errs) == 0 {
		return false
	}
	order := map[string]int{
		"first_name": 0, "last_name": 1, "email": 2, "position": 3,
		"department": 4, "salary": 5, "date_of_joining": 6, "profile_picture": 7,
	}
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	for _, key := range keys {
		fmt.Fprintf(out, "  %s: %s\n", key, errs[key])
	}
	return true
}
