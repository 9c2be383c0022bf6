package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"brightsteps/internal/repository"
	"brightsteps/internal/service"
	"brightsteps/internal/utils"
)

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error body. logMsg+err go to the log,
// userMsg to the client.
func respondError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, map[string]string{"error": userMsg})
}

// respondServiceError maps the common service errors onto HTTP
// statuses so handlers do not repeat the switch.
func respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found", "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials", "", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Email already registered", "", nil)
	case errors.Is(err, service.ErrUnknownEmotion),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNoCorrectChoice):
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrNotYourChild):
		respondError(w, http.StatusForbidden, "Student is not linked to your account", "", nil)
	case errors.Is(err, service.ErrResetTokenInvalid):
		respondError(w, http.StatusBadRequest, "Reset token is invalid or expired", "", nil)
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error", logMsg, err)
	}
}

// decodeJSON reads a JSON request body into dst with a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return false
	}
	return true
}

// pathID parses the named numeric path value.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
