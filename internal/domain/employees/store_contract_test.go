package employees

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"
)

// storeBehaviour runs the same checks against every Store implementation.
// Records are tagged per run so shared databases do not leak rows between runs.
func storeBehaviour(t *testing.T, store Store, unknownID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tag := strconv.FormatInt(time.Now().UnixNano(), 36)
	created := time.Now().UTC().Truncate(time.Millisecond)
	joined := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	var inserted []string
	t.Cleanup(func() {
		for _, id := range inserted {
			_ = store.Delete(context.Background(), id)
		}
	})
	insert := func(name, department, position string) string {
		t.Helper()
		id, err := store.Insert(ctx, Employee{
			FirstName: name, LastName: "Tester", Email: name + "-" + tag + "@example.com",
			Position: position, Salary: 1000, DateOfJoining: joined, Department: department,
			CreatedAt: created, UpdatedAt: created,
		})
		if err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
		if !store.ValidID(id) {
			t.Fatalf("store returned id %q it does not accept", id)
		}
		inserted = append(inserted, id)
		return id
	}
	ids := func(list []Employee) []string {
		out := make([]string, 0, len(list))
		for _, emp := range list {
			out = append(out, emp.ID)
		}
		sort.Strings(out)
		return out
	}
	sorted := func(values ...string) []string {
		sort.Strings(values)
		return values
	}
	equal := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	team := "team-" + tag
	ada := insert("ada", "Engineering", team)
	grace := insert("grace", "ENG-Ops", team)
	don := insert("don", "Marketing", team)

	got, err := store.Get(ctx, ada)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FirstName != "ada" || got.Email != "ada-"+tag+"@example.com" || got.Salary != 1000 ||
		got.Department != "Engineering" || !got.DateOfJoining.Equal(joined) || !got.CreatedAt.Equal(created) {
		t.Fatalf("record differs from input: %+v", got)
	}
	if got.ProfilePicture != nil {
		t.Fatalf("expected null profile picture, got %q", *got.ProfilePicture)
	}

	list, err := store.List(ctx, Filter{Department: "eng", Position: team})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := sorted(ada, grace); !equal(ids(list), want) {
		t.Fatalf("department filter: got %v, want %v", ids(list), want)
	}

	literal := insert("lit", "Dept-"+tag, "C++ (lead)")
	insert("cc", "Dept-"+tag, "cc lead")
	list, err = store.List(ctx, Filter{Department: "dept-" + tag, Position: "c++ (lead)"})
	if err != nil {
		t.Fatalf("list literal: %v", err)
	}
	if !equal(ids(list), []string{literal}) {
		t.Fatalf("filter terms must match literally, got %v", ids(list))
	}

	exists, err := store.EmailExists(ctx, "grace-"+tag+"@example.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist: %v %v", exists, err)
	}
	if _, err := store.Insert(ctx, Employee{
		FirstName: "dup", LastName: "Tester", Email: "grace-" + tag + "@example.com", Position: team,
		Salary: 1, DateOfJoining: joined, Department: "Engineering", CreatedAt: created, UpdatedAt: created,
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate insert, got %v", err)
	}

	position := "Principal " + team
	picture := "/uploads/ada.png"
	updated := created.Add(time.Hour)
	if err := store.Update(ctx, ada, Change{Patch: Patch{Position: &position}, ProfilePicture: &picture, UpdatedAt: updated}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = store.Get(ctx, ada)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Position != position || got.ProfilePicture == nil || *got.ProfilePicture != picture ||
		!got.UpdatedAt.Equal(updated) || got.FirstName != "ada" {
		t.Fatalf("unexpected record after update: %+v", got)
	}

	taken := "grace-" + tag + "@example.com"
	if err := store.Update(ctx, don, Change{Patch: Patch{Email: &taken}, UpdatedAt: updated}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate update, got %v", err)
	}
	if err := store.Update(ctx, unknownID, Change{Patch: Patch{Position: &position}, UpdatedAt: updated}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating unknown id, got %v", err)
	}

	if err := store.Delete(ctx, don); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, don); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, don); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := store.Delete(ctx, unknownID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting unknown id, got %v", err)
	}
}
