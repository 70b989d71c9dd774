package employeehandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"empdir/internal/domain/employees"
	"empdir/internal/platform/uploads"
	"empdir/internal/transport/http/api"
	"empdir/internal/transport/http/middleware"
	"empdir/internal/transport/http/shared"
)

const (
	multipartMemory = 1 << 20
	imageField      = "profile_picture"
)

type Service interface {
	ValidID(id string) bool
	List(ctx context.Context, filter employees.Filter) ([]employees.Employee, error)
	Get(ctx context.Context, id string) (employees.Employee, error)
	Create(ctx context.Context, fields employees.Fields, image *uploads.File) (string, error)
	Update(ctx context.Context, id string, patch employees.Patch, image *uploads.File) error
	Delete(ctx context.Context, id string) error
	Roster(ctx context.Context, filter employees.Filter) ([]byte, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Delete("/", h.handleDelete)
		r.Get("/roster.pdf", h.handleRoster)
		r.Get("/{eid}", h.handleGet)
		r.Put("/{eid}", h.handleUpdate)
	})
}

type createResponse struct {
	Message    string `json:"message"`
	EmployeeID string `json:"employee_id"`
}

func filterFromQuery(r *http.Request) employees.Filter {
	query := r.URL.Query()
	return employees.Filter{
		Department: strings.TrimSpace(query.Get("department")),
		Position:   strings.TrimSpace(query.Get("position")),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, list)
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Service.Roster(r.Context(), filterFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employee-roster.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r, chi.URLParam(r, "eid"))
	if !ok {
		return
	}
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, emp)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, image, cleanup, err := readForm(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanup()

	fields, err := form.Fields()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.Service.Create(r.Context(), fields, image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Created(w, createResponse{Message: "Employee created successfully.", EmployeeID: id})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r, chi.URLParam(r, "eid"))
	if !ok {
		return
	}

	form, image, cleanup, err := readForm(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanup()

	patch, err := form.Patch()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Service.Update(r.Context(), id, patch, image); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, api.Message{Message: "Employee details updated successfully."})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r, r.URL.Query().Get("eid"))
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request, raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if !h.Service.ValidID(id) {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "eid", Reason: "Valid employee ID is required"},
		})
		return "", false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var verr *employees.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		issues := make([]shared.ValidationIssue, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, requestID, issues)
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", uploads.ErrTooLarge.Error(), requestID)
	case errors.Is(err, errBadPayload):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	case errors.Is(err, employees.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", employees.ErrNotFound.Error(), requestID)
	case errors.Is(err, employees.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", employees.ErrConflict.Error(), requestID)
	default:
		slog.Error("employee request failed", "err", err, "method", r.Method, "path", r.URL.Path, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "server_error", "Server error", requestID)
	}
}

var errBadPayload = errors.New("invalid request payload")

// readForm accepts multipart, urlencoded or JSON bodies. Only multipart carries an image.
func readForm(r *http.Request) (employees.Form, *uploads.File, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return employees.Form{}, nil, noop, err
			}
			return employees.Form{}, nil, noop, errBadPayload
		}
		form, err := formFromJSON(raw)
		return form, nil, noop, err
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return employees.Form{}, nil, noop, err
			}
			return employees.Form{}, nil, noop, errBadPayload
		}
		cleanup := func() { _ = r.MultipartForm.RemoveAll() }
		image, err := imageFromForm(r.MultipartForm)
		if err != nil {
			cleanup()
			return employees.Form{}, nil, noop, err
		}
		if image != nil {
			closer := image.Content.(multipart.File)
			cleanup = func() {
				_ = closer.Close()
				_ = r.MultipartForm.RemoveAll()
			}
		}
		return formFromValues(r.MultipartForm.Value), image, cleanup, nil
	default:
		if err := r.ParseForm(); err != nil {
			return employees.Form{}, nil, noop, errBadPayload
		}
		return formFromValues(r.PostForm), nil, noop, nil
	}
}

func imageFromForm(form *multipart.Form) (*uploads.File, error) {
	headers := form.File[imageField]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	return &uploads.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, nil
}

func formFromValues(values map[string][]string) employees.Form {
	get := func(key string) *string {
		list, ok := values[key]
		if !ok || len(list) == 0 {
			return nil
		}
		value := list[0]
		return &value
	}
	return employees.Form{
		FirstName:     get("first_name"),
		LastName:      get("last_name"),
		Email:         get("email"),
		Position:      get("position"),
		Salary:        get("salary"),
		DateOfJoining: get("date_of_joining"),
		Department:    get("department"),
	}
}

func formFromJSON(raw map[string]any) (employees.Form, error) {
	values := make(map[string][]string, len(raw))
	for key, value := range raw {
		switch typed := value.(type) {
		case nil:
		case string:
			values[key] = []string{typed}
		case float64:
			values[key] = []string{strconv.FormatFloat(typed, 'f', -1, 64)}
		case bool:
			values[key] = []string{strconv.FormatBool(typed)}
		default:
			return employees.Form{}, errBadPayload
		}
	}
	return formFromValues(values), nil
}
