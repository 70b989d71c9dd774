package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"empdir/internal/domain/users"
	"empdir/internal/transport/http/api"
	"empdir/internal/transport/http/middleware"
	"empdir/internal/transport/http/shared"
)

type Service interface {
	Signup(ctx context.Context, input users.SignupInput) (string, error)
	Login(ctx context.Context, email, password string) (users.LoginResult, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", h.HandleSignup)
		r.Post("/login", h.HandleLogin)
		r.With(middleware.RequireUser).Get("/me", h.HandleMe)
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload signupRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "Username is required")
	v.Email("email", payload.Email, "Valid email is required")
	v.Required("password", payload.Password, "Password is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.Signup(r.Context(), users.SignupInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, users.ErrConflict) {
			api.Fail(w, http.StatusBadRequest, "conflict", users.ErrConflict.Error(), requestID)
			return
		}
		slog.Error("signup failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "server_error", "Server error", requestID)
		return
	}

	api.Created(w, signupResponse{Message: "User created successfully.", UserID: id})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "Email is required")
	v.Required("password", payload.Password, "Password is required")
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			api.Fail(w, http.StatusBadRequest, "invalid_credentials", users.ErrInvalidCredentials.Error(), requestID)
			return
		}
		slog.Error("login failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "server_error", "Server error", requestID)
		return
	}

	api.Success(w, loginResponse{
		Message:  "Login successful.",
		Token:    result.Token,
		Username: result.Username,
		Email:    result.Email,
	})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{
		"userId":   user.UserID,
		"username": user.Username,
		"email":    user.Email,
	})
}
