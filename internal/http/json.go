package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/medscan/portal/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// errorBody is the JSON shape for application errors. Field is set for validation failures.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteAppError maps err to a status code and writes it as JSON.
// Only the user-facing message is sent; causes stay in the logs.
func WriteAppError(w http.ResponseWriter, err error) {
	code := StatusForError(err)
	WriteJSON(w, code, errorBody{
		Error:   errorCodeName(err),
		Message: UserMessage(err),
		Field:   apperrors.GetField(err),
	})
}

// StatusForError returns the HTTP status for an application error.
func StatusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRemoteRejection:
		return http.StatusBadGateway
	case apperrors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message safe to show a user.
// Internal and unclassified errors get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return "Something went wrong. Please try again."
	}
	switch appErr.Code {
	case apperrors.ErrCodeInternal, apperrors.ErrCodeStorage, apperrors.ErrCodeStorageCorruption:
		return "Something went wrong. Please try again."
	case apperrors.ErrCodeNetwork:
		return "The MedScan service is unreachable. Please try again later."
	case apperrors.ErrCodeTimeout:
		return "The MedScan service took too long to answer."
	}
	return appErr.Message
}

func errorCodeName(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeInternal)
}
