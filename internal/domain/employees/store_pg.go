package employees

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const employeeColumns = `id::text, first_name, last_name, email, position, salary::float8,
           date_of_joining, department, profile_picture, created_at, updated_at`

type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Position, &emp.Salary,
		&emp.DateOfJoining, &emp.Department, &emp.ProfilePicture, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (s *PGStore) List(ctx context.Context, filter Filter) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []any{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += " AND strpos(lower(department), lower($" + strconv.Itoa(len(args)) + ")) > 0"
	}
	if filter.Position != "" {
		args = append(args, filter.Position)
		query += " AND strpos(lower(position), lower($" + strconv.Itoa(len(args)) + ")) > 0"
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, id string) (Employee, error) {
	if !s.ValidID(id) {
		return Employee{}, ErrNotFound
	}
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func (s *PGStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return exists, nil
}

func (s *PGStore) Insert(ctx context.Context, emp Employee) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, first_name, last_name, email, position, salary, date_of_joining,
                           department, profile_picture, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
  `, id, emp.FirstName, emp.LastName, emp.Email, emp.Position, emp.Salary, emp.DateOfJoining,
		emp.Department, emp.ProfilePicture, emp.CreatedAt, emp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("insert employee: %w", err)
	}
	return id, nil
}

func (s *PGStore) Update(ctx context.Context, id string, change Change) error {
	if !s.ValidID(id) {
		return ErrNotFound
	}

	sets := []string{"updated_at = $1"}
	args := []any{change.UpdatedAt}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	patch := change.Patch
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}
	if patch.DateOfJoining != nil {
		add("date_of_joining", *patch.DateOfJoining)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if change.ProfilePicture != nil {
		add("profile_picture", *change.ProfilePicture)
	}

	args = append(args, id)
	tag, err := s.DB.Exec(ctx,
		"UPDATE employees SET "+strings.Join(sets, ", ")+" WHERE id = $"+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if !s.ValidID(id) {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}
