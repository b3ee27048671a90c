package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mW "github.com/paydown/backend/internal/middleware"
	"github.com/paydown/backend/internal/models"
	"github.com/paydown/backend/internal/services"
)

const maxBodyBytes = 1_048_576 // 1 MB

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields. It writes the 400 response itself and reports whether decoding
// succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, tag string, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
	case errors.Is(err, models.ErrInvalidAmount):
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, models.ErrNotFound):
		services.SendErrorResponse(w, "Not found", http.StatusNotFound, nil)
	case errors.Is(err, models.ErrConflict):
		services.SendErrorResponse(w, "Conflicting request, retry later", http.StatusConflict, nil)
	default:
		log.Printf("[%s] Request failed: %v", tag, err)
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := mW.UserID(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return "", false
	}
	return userID, true
}

// pathID returns the {id} URL parameter. Ids that are not UUIDs cannot
// exist, so they are answered with 404.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		services.SendErrorResponse(w, "Not found", http.StatusNotFound, nil)
		return "", false
	}
	return id.String(), true
}

type successResponse struct {
	Success bool `json:"success"`
}
