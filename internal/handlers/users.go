package handlers

import (
	"errors"
	"net/http"

	"github.com/itsDrac/authgate/internal/model"
	"github.com/itsDrac/authgate/internal/service"
	"github.com/itsDrac/authgate/pkg/config"
)

type UserHandler struct {
	userService service.UserServicer
	tokens      *service.TokenIssuer
}

func NewUserHandler(userSvc service.UserServicer, tokens *service.TokenIssuer) (*UserHandler, error) {
	if userSvc == nil || tokens == nil {
		return nil, errors.New("user handler requires a user service and token issuer")
	}
	return &UserHandler{
		userService: userSvc,
		tokens:      tokens,
	}, nil
}

// Me godoc
//
//	@Summary		Current user
//	@Description	Returns the identity carried by the access token
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	model.APIResponse[model.UserResponse]
//	@Failure		401	{object}	model.APIResponse[any]
//	@Router			/user/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := config.ClaimsFromContext(r.Context())
	if !ok {
		RespondErrorJSON(w, r, http.StatusUnauthorized, ErrAuthFailed.Error(), "User not found", nil)
		return
	}

	RespondSuccessJSON(w, r, http.StatusOK, "Success", model.UserResponse{
		UserID:       claims.UserID,
		EmailAddress: claims.EmailAddress,
		Name:         claims.Name,
		Mobile:       claims.Mobile,
	})
}

// ChangePassword godoc
//
//	@Summary		Change password
//	@Description	Replace the password of the authenticated user
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		model.ChangePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	model.APIResponse[bool]
//	@Failure		400		{object}	model.APIResponse[any]
//	@Failure		401		{object}	model.APIResponse[any]
//	@Failure		404		{object}	model.APIResponse[any]
//	@Router			/user/change-password [patch]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := config.ClaimsFromContext(r.Context())
	if !ok {
		RespondErrorJSON(w, r, http.StatusUnauthorized, ErrAuthFailed.Error(), "User ID is required", nil)
		return
	}

	var req model.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.userService.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		RespondInternalError(w, r, err)
		return
	}
	respondResult(w, r, http.StatusOK, res)
}

// RefreshToken godoc
//
//	@Summary		Refresh Access Token
//	@Description	Mint a new access token using a valid refresh token
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	model.APIResponse[model.AccessTokenResponse]
//	@Failure		401	{object}	model.APIResponse[any]
//	@Failure		404	{object}	model.APIResponse[any]
//	@Router			/user/refresh-token [get]
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := config.ClaimsFromContext(r.Context())
	if !ok {
		RespondErrorJSON(w, r, http.StatusUnauthorized, ErrAuthFailed.Error(), "User ID is required", nil)
		return
	}

	res, err := h.userService.RegenerateAccessToken(r.Context(), claims.UserID)
	if err != nil {
		RespondInternalError(w, r, err)
		return
	}
	if res.IsSuccess {
		h.tokens.SetCookies(w, res.Data.AccessToken, "")
	}
	respondResult(w, r, http.StatusOK, res)
}
