package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Pagination is attached to paginated list responses.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
}

// envelope is the uniform response wrapper used by every endpoint.
type envelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	TotalCount *int64      `json:"totalCount,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, envelope{Status: "success", Data: data})
}

func respondPage(w http.ResponseWriter, data interface{}, p Pagination) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data, Pagination: &p})
}

func respondSearch(w http.ResponseWriter, data interface{}, totalCount int64) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data, TotalCount: &totalCount})
}

func respondMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Status: "success", Message: message})
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Status: "error", Message: message})
}

// respondServerError logs the underlying error and returns a generic
// message. Upstream error text never reaches the caller.
func respondServerError(w http.ResponseWriter, operation string, err error) {
	log.WithError(err).Error(operation)
	respondError(w, http.StatusInternalServerError, "Server error")
}
