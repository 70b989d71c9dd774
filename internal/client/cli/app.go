// Package cli is the interactive terminal front end of the employee directory.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"empdir/internal/client/api"
	"empdir/internal/client/directory"
	"empdir/internal/client/session"
	"empdir/internal/domain/employees"
)

type API interface {
	SetToken(token string)
	Signup(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Me(ctx context.Context) (api.Profile, error)
	ListEmployees(ctx context.Context, filter employees.Filter) ([]employees.Employee, error)
	GetEmployee(ctx context.Context, id string) (employees.Employee, error)
	CreateEmployee(ctx context.Context, fields map[string]string, image *api.Image) (string, error)
	UpdateEmployee(ctx context.Context, id string, fields map[string]string, image *api.Image) error
	DeleteEmployee(ctx context.Context, id string) error
	Roster(ctx context.Context, filter employees.Filter) ([]byte, error)
	AssetURL(path string) string
}

type Sessions interface {
	Set(ctx context.Context, sess session.Session) error
	Current(ctx context.Context) (session.Session, bool, error)
	Clear(ctx context.Context) error
}

type App struct {
	api      API
	sessions Sessions
	in       *bufio.Reader
	out      io.Writer
	view     directory.View
	user     *session.Session

	// ReadPassword reads a secret without echo where possible.
	ReadPassword func(prompt string) (string, error)
}

func New(client API, sessions Sessions, in io.Reader, out io.Writer) *App {
	a := &App{api: client, sessions: sessions, in: bufio.NewReader(in), out: out}
	a.ReadPassword = a.terminalPassword
	return a
}

type command struct {
	usage  string
	help   string
	authed bool
	run    func(a *App, ctx context.Context, arg string) error
}

var commands = map[string]command{
	"signup":  {usage: "signup", help: "create an account", run: (*App).cmdSignup},
	"login":   {usage: "login", help: "sign in", run: (*App).cmdLogin},
	"logout":  {usage: "logout", help: "sign out and forget the saved session", authed: true, run: (*App).cmdLogout},
	"whoami":  {usage: "whoami", help: "show the signed-in user", authed: true, run: (*App).cmdWhoami},
	"list":    {usage: "list", help: "show employees matching the current filters", authed: true, run: (*App).cmdList},
	"refresh": {usage: "refresh", help: "re-fetch employees from the server", authed: true, run: (*App).cmdRefresh},
	"search":  {usage: "search <text>", help: "filter by name or email", authed: true, run: (*App).cmdSearch},
	"dept":    {usage: "dept <text>", help: "filter by department", authed: true, run: (*App).cmdDepartment},
	"pos":     {usage: "pos <text>", help: "filter by position", authed: true, run: (*App).cmdPosition},
	"clear":   {usage: "clear", help: "reset all filters", authed: true, run: (*App).cmdClear},
	"view":    {usage: "view <# or id>", help: "show one employee", authed: true, run: (*App).cmdView},
	"add":     {usage: "add", help: "add an employee", authed: true, run: (*App).cmdAdd},
	"edit":    {usage: "edit <# or id>", help: "edit an employee", authed: true, run: (*App).cmdEdit},
	"delete":  {usage: "delete <# or id>", help: "delete an employee", authed: true, run: (*App).cmdDelete},
	"roster":  {usage: "roster [file]", help: "download a PDF roster for the current department/position filters", authed: true, run: (*App).cmdRoster},
}

var commandOrder = []string{
	"signup", "login", "logout", "whoami", "list", "refresh", "search", "dept", "pos",
	"clear", "view", "add", "edit", "delete", "roster",
}

// Run restores a saved session and then reads commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Employee Directory. Type 'help' for commands.")

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := a.readLine(a.prompt())
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		name, arg, _ := strings.Cut(line, " ")
		name = strings.ToLower(name)
		arg = strings.TrimSpace(arg)

		switch name {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			a.printHelp()
			continue
		}

		cmd, ok := commands[name]
		if !ok {
			fmt.Fprintf(a.out, "Unknown command %q. Type 'help' for commands.\n", name)
			continue
		}
		if cmd.authed && a.user == nil {
			fmt.Fprintln(a.out, "Please log in first.")
			continue
		}
		if err := cmd.run(a, ctx, arg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			a.report(ctx, err)
		}
	}
}

func (a *App) prompt() string {
	if a.user == nil {
		return "> "
	}
	return a.user.Username + "> "
}

func (a *App) printHelp() {
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(a.out, "  %-18s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(a.out, "  %-18s %s\n", "help", "show this list")
	fmt.Fprintf(a.out, "  %-18s %s\n", "exit", "quit")
}

// report shows server messages verbatim and drops the session on 401.
func (a *App) report(ctx context.Context, err error) {
	if api.IsUnauthorized(err) {
		a.forget(ctx)
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintln(a.out, "Error:", apiErr.Message)
		return
	}
	fmt.Fprintln(a.out, "Error:", err)
}

func (a *App) restore(ctx context.Context) error {
	sess, ok, err := a.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	a.api.SetToken(sess.Token)
	if _, err := a.api.Me(ctx); err != nil {
		if api.IsUnauthorized(err) {
			a.forget(ctx)
			fmt.Fprintln(a.out, "Saved session has expired. Please log in again.")
			return nil
		}
		fmt.Fprintln(a.out, "Could not verify saved session:", err)
	}
	a.user = &sess
	fmt.Fprintf(a.out, "Welcome back, %s.\n", sess.Username)
	if err := a.refresh(ctx); err != nil {
		a.report(ctx, err)
	}
	return nil
}

func (a *App) forget(ctx context.Context) {
	a.user = nil
	a.api.SetToken("")
	a.view.SetEmployees(nil)
	a.view.ClearFilters()
	if err := a.sessions.Clear(ctx); err != nil {
		fmt.Fprintln(a.out, "Error: could not clear saved session:", err)
	}
}

// refresh re-fetches the whole collection; every successful change calls it.
func (a *App) refresh(ctx context.Context) error {
	list, err := a.api.ListEmployees(ctx, employees.Filter{})
	if err != nil {
		return err
	}
	a.view.SetEmployees(list)
	return nil
}
