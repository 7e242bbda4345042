package handlers

import (
	"errors"
	"net/http"

	"github.com/itsDrac/authgate/internal/service"
)

// respondResult renders a service.Result. Expected failures keep the
// service's message so clients see e.g. "User already exists with this
// email address".
func respondResult[T any](w http.ResponseWriter, r *http.Request, successStatus int, res service.Result[T]) {
	if res.IsSuccess {
		RespondSuccessJSON(w, r, successStatus, res.Message, res.Data)
		return
	}
	status, code := failureStatus(res.Reason)
	RespondErrorJSON(w, r, status, code, res.Message, nil)
}

func failureStatus(reason error) (int, string) {
	switch {
	case errors.Is(reason, service.ErrUserExists):
		return http.StatusConflict, ErrUserExists.Error()
	case errors.Is(reason, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrAuthFailed.Error()
	case errors.Is(reason, service.ErrUserNotFound):
		return http.StatusNotFound, ErrUserNotFound.Error()
	case errors.Is(reason, service.ErrOldPasswordIncorrect):
		return http.StatusBadRequest, ErrBadPassword.Error()
	default:
		return http.StatusBadRequest, ErrInvalidRequest.Error()
	}
}
