package handlers

import (
	"errors"
	"net/http"

	"github.com/itsDrac/authgate/internal/model"
	"github.com/itsDrac/authgate/internal/service"
)

type AuthHandler struct {
	authService service.AuthServicer
	tokens      *service.TokenIssuer
}

func NewAuthHandler(authSvc service.AuthServicer, tokens *service.TokenIssuer) (*AuthHandler, error) {
	if authSvc == nil || tokens == nil {
		return nil, errors.New("auth handler requires an auth service and token issuer")
	}
	return &AuthHandler{
		authService: authSvc,
		tokens:      tokens,
	}, nil
}

// Signup godoc
//
//	@Summary		Register a new User
//	@Description	Register a new user and issue an access/refresh token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		model.SignupRequest	true	"User registration details"
//	@Success		201		{object}	model.APIResponse[model.AuthResponse]
//	@Failure		400		{object}	model.APIResponse[any]
//	@Failure		401		{object}	model.APIResponse[any]
//	@Failure		409		{object}	model.APIResponse[any]
//	@Router			/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		RespondInternalError(w, r, err)
		return
	}
	if res.IsSuccess {
		h.tokens.SetCookies(w, res.Data.AccessToken, res.Data.RefreshToken)
	}
	respondResult(w, r, http.StatusCreated, res)
}

// Login godoc
//
//	@Summary		Login a User
//	@Description	Login with email address and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		model.LoginRequest	true	"User login credentials"
//	@Success		200			{object}	model.APIResponse[model.AuthResponse]
//	@Failure		400			{object}	model.APIResponse[any]
//	@Failure		401			{object}	model.APIResponse[any]
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.Login(r.Context(), req.EmailAddress, req.Password)
	if err != nil {
		RespondInternalError(w, r, err)
		return
	}
	if res.IsSuccess {
		h.tokens.SetCookies(w, res.Data.AccessToken, res.Data.RefreshToken)
	}
	respondResult(w, r, http.StatusOK, res)
}
