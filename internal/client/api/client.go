// Package api is a typed HTTP client for the employee directory REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"empdir/internal/domain/employees"
)

// Error is a non-2xx response. Message is the server's message, suitable for
// showing to the user as is.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []FieldIssue
}

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token sent with every request; "" sends none.
func (c *Client) SetToken(token string) {
	c.token = token
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Image is a profile picture to upload.
type Image struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/user/signup", body, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.doJSON(ctx, http.MethodGet, "/user/me", nil, &out)
	return out, err
}

func (c *Client) ListEmployees(ctx context.Context, filter employees.Filter) ([]employees.Employee, error) {
	query := url.Values{}
	if filter.Department != "" {
		query.Set("department", filter.Department)
	}
	if filter.Position != "" {
		query.Set("position", filter.Position)
	}
	path := "/emp/employees"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out []employees.Employee
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (employees.Employee, error) {
	var out employees.Employee
	err := c.doJSON(ctx, http.MethodGet, "/emp/employees/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateEmployee posts fields (keyed by their JSON names) as a multipart form.
func (c *Client) CreateEmployee(ctx context.Context, fields map[string]string, image *Image) (string, error) {
	var out struct {
		EmployeeID string `json:"employee_id"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/emp/employees", fields, image, &out); err != nil {
		return "", err
	}
	return out.EmployeeID, nil
}

// UpdateEmployee sends only the fields present in the map.
func (c *Client) UpdateEmployee(ctx context.Context, id string, fields map[string]string, image *Image) error {
	return c.doMultipart(ctx, http.MethodPut, "/emp/employees/"+url.PathEscape(id), fields, image, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/emp/employees?eid="+url.QueryEscape(id), nil, nil)
}

// Roster downloads the PDF roster for the filter.
func (c *Client) Roster(ctx context.Context, filter employees.Filter) ([]byte, error) {
	query := url.Values{}
	if filter.Department != "" {
		query.Set("department", filter.Department)
	}
	if filter.Position != "" {
		query.Set("position", filter.Position)
	}
	path := "/emp/employees/roster.pdf"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, image *Image, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_picture"; filename=%q`, image.Filename))
		header.Set("Content-Type", image.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return fmt.Errorf("copy image: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body struct {
		Message string       `json:"message"`
		Code    string       `json:"code"`
		Fields  []FieldIssue `json:"fields"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Fields = body.Fields
	}
	return apiErr
}

// AssetURL turns a server-relative path such as a profile picture into an
// absolute URL on the API host.
func (c *Client) AssetURL(path string) string {
	base, err := url.Parse(c.baseURL)
	if err != nil || path == "" {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return base.ResolveReference(ref).String()
}
