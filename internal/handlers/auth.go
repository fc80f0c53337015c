package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/busdepo/marketplace-api/internal/auth"
	"github.com/busdepo/marketplace-api/internal/db"
	"github.com/busdepo/marketplace-api/internal/models"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService *auth.Service
	users       db.UserCollection
	validate    *validator.Validate
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService *auth.Service, users db.UserCollection) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		validate:    validator.New(),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Full name, mobile and a password of at least 8 characters are required")
		return
	}

	if _, err := h.users.FindUserByMobile(r.Context(), req.Mobile); err == nil {
		respondError(w, http.StatusConflict, "Mobile number already registered")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		respondServerError(w, "failed to check existing user", err)
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		respondServerError(w, "failed to hash password", err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  req.FullName,
		Mobile:    req.Mobile,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.users.InsertUser(r.Context(), user); err != nil {
		// unique mobile index catches the race the pre-check cannot
		if errors.Is(err, db.ErrDuplicate) {
			respondError(w, http.StatusConflict, "Mobile number already registered")
			return
		}
		respondServerError(w, "failed to insert user", err)
		return
	}

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		respondServerError(w, "failed to generate token", err)
		return
	}

	if err := h.users.UpdateToken(r.Context(), user.ID.Hex(), token); err != nil {
		respondServerError(w, "failed to store token", err)
		return
	}

	respondData(w, http.StatusCreated, models.LoginResponse{Token: token, User: user})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Mobile and password are required")
		return
	}

	user, err := h.users.FindUserByMobile(r.Context(), req.Mobile)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondServerError(w, "failed to fetch user", err)
		return
	}

	if !h.authService.CheckPassword(req.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondServerError(w, "failed to generate token", err)
		return
	}

	if err := h.users.UpdateToken(r.Context(), user.ID.Hex(), token); err != nil {
		respondServerError(w, "failed to store token", err)
		return
	}

	respondData(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}
