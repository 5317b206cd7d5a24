package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
	CSV  string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
	CSV:  "text/csv; charset=utf-8",
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%d bytes]: %s", len(message), err)
	}
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, message []byte) {
	WriteResponseBytes(w, contentType, message, http.StatusOK)
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message, http.StatusOK)
}

func WriteJSONResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.JSON, message, http.StatusOK)
}

// WriteJSON marshals v and writes it with the given status code.
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response %T: %s", v, err)
		WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, statusCode)
}

func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONErrorWithFields(w, message, nil, statusCode)
}

func WriteJSONErrorWithFields(w http.ResponseWriter, message string, fields []FieldError, statusCode int) {
	respJson, err := json.Marshal(ErrorResponse{
		Message: message,
		Errors:  fields,
	})
	if err != nil {
		// cannot really happen with plain strings
		http.Error(w, message, statusCode)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, statusCode)
}
