package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/riadaman/sanctrum-rest-api/internal/token"
	"github.com/riadaman/sanctrum-rest-api/pkg/response"
)

const maxBodyBytes = 1 << 20

// Handler exposes HTTP endpoints for user operations (register / login / profile / logout).
type Handler struct {
	svc      *Service
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, validate: newValidator(), logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	response.Write(w, h.register(r))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	response.Write(w, h.login(r))
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	response.Write(w, h.profile(r))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	response.Write(w, h.logout(r))
}

func (h *Handler) register(r *http.Request) response.Result {
	var req RegisterRequest
	if res, ok := h.decode(r, &req); !ok {
		return res
	}
	u, err := h.svc.Register(r.Context(), RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return response.ErrorWithData("Validation failed", FieldErrors{"password": "The password may not be greater than 72 bytes."}, http.StatusUnprocessableEntity)
		}
		if errors.Is(err, ErrRegistrationFailed) {
			h.logger.Infow("registration rejected", "err", err)
			return response.Error("User registration failed", http.StatusBadRequest)
		}
		h.logger.Errorw("User registration failed", "err", err)
		return response.Error("User registration failed", http.StatusInternalServerError)
	}
	return response.Success(u, "User registered successfully", http.StatusCreated)
}

func (h *Handler) login(r *http.Request) response.Result {
	var req LoginRequest
	if res, ok := h.decode(r, &req); !ok {
		return res
	}
	out, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return response.Error("Invalid credentials", http.StatusUnauthorized)
		}
		h.logger.Errorw("User login failed", "err", err)
		return response.Error("User login failed", http.StatusInternalServerError)
	}
	return response.Success(out, "User logged in successfully", http.StatusOK)
}

func (h *Handler) profile(r *http.Request) response.Result {
	id, ok := token.IdentityFromContext(r.Context())
	if !ok {
		return response.Error("Unauthenticated", http.StatusUnauthorized)
	}
	u, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.Error("Unauthenticated", http.StatusUnauthorized)
		}
		h.logger.Errorw("profile lookup failed", "err", err, "user_id", id.UserID)
		return response.Error("Internal server error", http.StatusInternalServerError)
	}
	return response.Success(u, "User profile", http.StatusOK)
}

func (h *Handler) logout(r *http.Request) response.Result {
	id, ok := token.IdentityFromContext(r.Context())
	if !ok {
		return response.Error("Unauthenticated", http.StatusUnauthorized)
	}
	if err := h.svc.Logout(r.Context(), id); err != nil {
		h.logger.Errorw("User logout failed", "err", err, "user_id", id.UserID)
		return response.Error("User logout failed", http.StatusInternalServerError)
	}
	return response.Success(nil, "User logged out successfully", http.StatusOK)
}

// decode reads a JSON body into dst and validates it. On failure the
// returned Result is the response to send.
func (h *Handler) decode(r *http.Request, dst any) (response.Result, bool) {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.logger.Debugw("invalid payload", "err", err, "path", r.URL.Path)
		return response.Error("Invalid payload", http.StatusBadRequest), false
	}
	fields, err := validate(h.validate, dst)
	if err != nil {
		if errors.Is(err, ErrValidationFailed) {
			return response.ErrorWithData("Validation failed", fields, http.StatusUnprocessableEntity), false
		}
		h.logger.Errorw("validator failed", "err", err)
		return response.Error("Internal server error", http.StatusInternalServerError), false
	}
	return response.Result{}, true
}
