package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/internal/services"
	"github.com/rentfleet/apiserver/types"
)

const (
	registerFailed = "Registration failed"
	loginFailed    = "Login failed"
	loginSucceeded = "User logged in"
)

// AuthHandler provides the registration and login endpoints.
// Login establishes identity for the single request only; no token is issued.
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService) {
	handler := NewAuthHandler(userService)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, registerFailed, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, registerFailed, err)
		return
	}

	user, err := h.userService.Register(r.Context(), types.User{
		Username: req.Username,
		Role:     req.Role,
		Email:    req.Email,
	}, req.Password)
	if err != nil {
		writeError(w, r, registerFailed, err)
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
	})
}

// Login verifies credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, loginFailed, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, loginFailed, err)
		return
	}

	if _, err := h.userService.Login(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, r, loginFailed, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Msg: loginSucceeded})
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Role      string `json:"role" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	CPassword string `json:"cpassword" validate:"required,eqfield=Password"`
}

// Validate trims the text fields, then checks presence before the password
// confirmation.
func (req *RegisterRequest) Validate() error {
	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.TrimSpace(req.Role)
	req.Email = strings.TrimSpace(req.Email)

	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	missing, invalid := fieldErrors(err)
	if len(missing) > 0 {
		return errs.Validation("missing required fields", missing...)
	}
	if len(invalid) > 0 {
		return errs.Validation("passwords do not match", "cpassword")
	}
	return errs.Internal("register.validate", err)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	req.Username = strings.TrimSpace(req.Username)

	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	missing, _ := fieldErrors(err)
	if len(missing) > 0 {
		return errs.Validation("missing credentials", missing...)
	}
	return errs.Internal("login.validate", err)
}

type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Msg string `json:"msg"`
}
