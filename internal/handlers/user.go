package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/busdepo/marketplace-api/internal/db"
)

// UserHandler exposes the read-only user surface. Credential fields are
// projected out by the collection layer and never serialized.
type UserHandler struct {
	users db.UserCollection
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users db.UserCollection) *UserHandler {
	return &UserHandler{users: users}
}

// ListAll handles GET /user/all.
func (h *UserHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindUsers(r.Context())
	if err != nil {
		respondServerError(w, "failed to fetch users", err)
		return
	}
	respondData(w, http.StatusOK, users)
}

// GetByID handles GET /user/{id}. A malformed ID is rejected before the
// lookup.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.users.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondServerError(w, "failed to fetch user", err)
		return
	}

	respondData(w, http.StatusOK, user)
}
