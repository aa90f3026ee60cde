package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/models"
)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// RespondError maps a domain error to its HTTP status. Internal causes are
// logged but never leaked to the client.
func RespondError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.Internal {
		log.Printf("Internal error: %v", ae)
	}
	RespondJSON(w, ae.HTTPStatus(), models.APIResponse{
		Success: false,
		Message: ae.Message,
	})
}
