package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/itsDrac/authgate/internal/model"
	"github.com/itsDrac/authgate/pkg/utils"
	valid "github.com/itsDrac/authgate/pkg/validator"
	"go.uber.org/zap"
)

const (
	requestIDKey = "X-Request-ID"
	maxBodyBytes = 1 << 20
)

func writeJson(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Errorw("Failed to write json response", "status", status, "error", err)
	}
}

// requestID prefers chi's RequestID, then the inbound header, then a fresh uuid.
func requestID(w http.ResponseWriter, r *http.Request) string {
	reqID := middleware.GetReqID(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestIDKey)
	}
	if reqID == "" {
		reqID = uuid.NewString()
	}
	// This ensures the client gets the ID whether they sent it or we created it.
	w.Header().Set(requestIDKey, reqID)
	return reqID
}

func RespondSuccessJSON[T any](w http.ResponseWriter, r *http.Request, status int, message string, data T) {
	payload := model.APIResponse[T]{
		IsSuccess: true,
		Status:    "success",
		Message:   message,
		Metadata: model.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestID(w, r),
		},
		Data: data,
	}
	writeJson(w, status, payload)
}

func RespondErrorJSON(w http.ResponseWriter, r *http.Request, status int, code string, message string, details []model.ErrorDetails) {
	payload := model.APIResponse[any]{
		IsSuccess: false,
		Status:    "error",
		Message:   message,
		Metadata: model.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestID(w, r),
		},
		Error: &model.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeJson(w, status, payload)
}

// RespondInternalError logs err and answers with a generic 500.
func RespondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zap.S().Errorw("[HTTP] internal error -> ",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	RespondErrorJSON(w, r, http.StatusInternalServerError, ErrInternalServer.Error(), "Internal Server Error", nil)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// On failure it has already written the response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			RespondErrorJSON(w, r, http.StatusBadRequest, ErrInvalidJson.Error(), "Request body is empty", nil)
			return false
		}
		RespondErrorJSON(w, r, http.StatusBadRequest, ErrInvalidJson.Error(), "Invalid request body", nil)
		return false
	}

	if err := valid.GetValidator().Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			RespondInternalError(w, r, err)
			return false
		}
		details := make([]model.ErrorDetails, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, model.ErrorDetails{
				Field: jsonFieldName(fe.Field()),
				Issue: validationIssue(fe),
			})
		}
		RespondErrorJSON(w, r, http.StatusBadRequest, ErrInvalidRequest.Error(), "Validation failed", details)
		return false
	}
	return true
}

// jsonFieldName lower-cases the first rune so details match the JSON keys.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func validationIssue(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", utils.MaxPasswordBytes)
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
