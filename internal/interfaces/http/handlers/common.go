package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
	"github.com/turtacn/claims-intake/pkg/types/common"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps err onto the two response classes. Client errors show
// their message; everything else is masked and logged with its cause.
func writeAppError(w http.ResponseWriter, r *http.Request, fallback logging.Logger, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), fallback).Error("request failed",
			logging.String("path", r.URL.Path),
			logging.String("code", errors.GetCode(err).String()),
			logging.Err(err))
	}
	writeJSON(w, status, common.ErrorResponse{Error: errors.PublicMessage(err)})
}

//Personal.AI order the ending
