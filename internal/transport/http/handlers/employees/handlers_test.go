package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"empdir/internal/domain/employees"
	"empdir/internal/platform/uploads"
)

type testEnv struct {
	router    http.Handler
	uploadDir string
}

func newEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	svc := employees.NewService(employees.NewMemoryStore(), uploads.NewStore(dir, 5*1024*1024))
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return testEnv{router: r, uploadDir: dir}
}

func (e testEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="profile_picture"; filename="`+file.name+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(file.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func employeeFields(email, department string) map[string]string {
	return map[string]string{
		"first_name":      "Ada",
		"last_name":       "Lovelace",
		"email":           email,
		"position":        "Engineer",
		"salary":          "120000",
		"date_of_joining": "2023-04-01",
		"department":      department,
	}
}

func create(t *testing.T, env testEnv, email, department string) string {
	t.Helper()
	rec, body := env.do(t, multipartRequest(t, http.MethodPost, "/employees", employeeFields(email, department), nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %v", rec.Code, body)
	}
	id, _ := body["employee_id"].(string)
	if id == "" {
		t.Fatalf("create: missing employee_id in %v", body)
	}
	return id
}

func TestCreateWithImageThenGet(t *testing.T) {
	env := newEnv(t)
	req := multipartRequest(t, http.MethodPost, "/employees", employeeFields("ada@example.com", "Engineering"),
		&upload{name: "ada.png", contentType: "image/png", data: []byte("\x89PNG fake")})

	rec, body := env.do(t, req)
	if rec.Code != http.StatusCreated || body["message"] != "Employee created successfully." {
		t.Fatalf("unexpected create response: %d %v", rec.Code, body)
	}
	id := body["employee_id"].(string)

	rec, body = env.do(t, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if body["employee_id"] != id || body["first_name"] != "Ada" || body["salary"] != float64(120000) {
		t.Fatalf("unexpected employee: %v", body)
	}
	picture, _ := body["profile_picture"].(string)
	if !strings.HasPrefix(picture, "/uploads/") {
		t.Fatalf("expected stored picture path, got %v", body["profile_picture"])
	}
	if _, err := os.Stat(filepath.Join(env.uploadDir, strings.TrimPrefix(picture, "/uploads/"))); err != nil {
		t.Fatalf("expected uploaded file on disk: %v", err)
	}
}

func TestCreateRejectsNonImage(t *testing.T) {
	env := newEnv(t)
	req := multipartRequest(t, http.MethodPost, "/employees", employeeFields("ada@example.com", "Engineering"),
		&upload{name: "cv.pdf", contentType: "application/pdf", data: []byte("%PDF")})

	rec, body := env.do(t, req)
	if rec.Code != http.StatusBadRequest || body["message"] != "Please select an image file" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
	rec, body = env.do(t, httptest.NewRequest(http.MethodGet, "/employees", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("expected nothing persisted, got %s", rec.Body.String())
	}
	entries, _ := os.ReadDir(env.uploadDir)
	if len(entries) != 0 {
		t.Fatalf("expected no stored files, got %d", len(entries))
	}
}

func TestCreateValidation(t *testing.T) {
	env := newEnv(t)
	rec, body := env.do(t, jsonRequest(http.MethodPost, "/employees", `{"last_name":"L","email":"x@y.z","position":"P","salary":10,"date_of_joining":"2024-01-01","department":"D"}`))
	if rec.Code != http.StatusBadRequest || body["message"] != "First name is required" || body["code"] != "validation_error" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
	fields, _ := body["fields"].([]any)
	if len(fields) != 1 {
		t.Fatalf("expected one field issue, got %v", body["fields"])
	}

	rec, body = env.do(t, jsonRequest(http.MethodPost, "/employees", `{"first_name":"A","last_name":"L","email":"x@y.z","position":"P","salary":"abc","date_of_joining":"2024-01-01","department":"D"}`))
	if rec.Code != http.StatusBadRequest || body["message"] != "Salary must be a positive number" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, jsonRequest(http.MethodPost, "/employees", `{"first_name":`))
	if rec.Code != http.StatusBadRequest || body["code"] != "invalid_payload" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	env := newEnv(t)
	create(t, env, "dup@example.com", "Engineering")

	rec, body := env.do(t, multipartRequest(t, http.MethodPost, "/employees", employeeFields("dup@example.com", "Sales"), nil))
	if rec.Code != http.StatusBadRequest || body["message"] != "Employee with this email already exists" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
}

func TestGetValidatesID(t *testing.T) {
	env := newEnv(t)

	rec, body := env.do(t, httptest.NewRequest(http.MethodGet, "/employees/not-an-id", nil))
	if rec.Code != http.StatusBadRequest || body["message"] != "Valid employee ID is required" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}

	rec, body = env.do(t, httptest.NewRequest(http.MethodGet, "/employees/2b9d3c4e-5f60-4a1b-8c2d-3e4f5a6b7c8d", nil))
	if rec.Code != http.StatusNotFound || body["message"] != "Employee not found" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
}

func TestUpdate(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "up@example.com", "Engineering")

	rec, body := env.do(t, jsonRequest(http.MethodPut, "/employees/"+id, `{"salary":-5}`))
	if rec.Code != http.StatusBadRequest || body["message"] != "Salary must be a positive number" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
	_, body = env.do(t, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
	if body["salary"] != float64(120000) {
		t.Fatalf("expected salary unchanged, got %v", body["salary"])
	}

	req := multipartRequest(t, http.MethodPut, "/employees/"+id, map[string]string{"position": "Lead"}, nil)
	rec, body = env.do(t, req)
	if rec.Code != http.StatusOK || body["message"] != "Employee details updated successfully." {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
	_, body = env.do(t, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
	if body["position"] != "Lead" || body["first_name"] != "Ada" {
		t.Fatalf("expected partial update, got %v", body)
	}

	rec, _ = env.do(t, jsonRequest(http.MethodPut, "/employees/7c0e1f2a-3b4c-4d5e-8f60-718293a4b5c6", `{"position":"X"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestDeleteThenGet(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "del@example.com", "Engineering")

	rec, _ := env.do(t, httptest.NewRequest(http.MethodDelete, "/employees?eid="+id, nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 204, got %d %q", rec.Code, rec.Body.String())
	}
	rec, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	rec, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/employees?eid="+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	rec, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/employees", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without eid, got %d", rec.Code)
	}
}

func TestListFilters(t *testing.T) {
	env := newEnv(t)
	create(t, env, "a@example.com", "Engineering")
	create(t, env, "b@example.com", "ENG-Ops")
	create(t, env, "c@example.com", "Marketing")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees?department=eng", nil))
	var list []employees.Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	for _, emp := range list {
		if emp.Department == "Marketing" {
			t.Fatal("unexpected Marketing match")
		}
	}
}

func TestRoster(t *testing.T) {
	env := newEnv(t)
	create(t, env, "a@example.com", "Engineering")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/roster.pdf", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF body")
	}
}

type brokenService struct {
	Service
}

func (brokenService) List(context.Context, employees.Filter) ([]employees.Employee, error) {
	return nil, errors.New("connection reset")
}

func TestStoreFailureIsGeneric(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(brokenService{}).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") || !strings.Contains(rec.Body.String(), "Server error") {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}
