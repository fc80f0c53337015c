package handlers

import (
	"net/http"

	"github.com/busdepo/marketplace-api/internal/db"
)

// MakeHandler serves the manufacturer allow-list.
type MakeHandler struct {
	makes db.MakeCollection
}

// NewMakeHandler creates a new make handler.
func NewMakeHandler(makes db.MakeCollection) *MakeHandler {
	return &MakeHandler{makes: makes}
}

// ListAll handles GET /makes.
func (h *MakeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	makes, err := h.makes.ListMakes(r.Context())
	if err != nil {
		respondServerError(w, "failed to fetch makes", err)
		return
	}
	respondData(w, http.StatusOK, makes)
}
