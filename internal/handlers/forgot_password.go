package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

// ForgotPassword emails a password reset token
// @Summary Request password reset
// @Description Send a 6-digit reset token to the account email
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.EmailRequest true "Account email"
// @Success 200 {string} string "Revisa tu e-mail para instrucciones"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "User not registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	user, ok := h.findUser(w, r, req.Email, http.StatusConflict, msgUserNotRegistered)
	if !ok {
		return
	}

	token, err := h.issueToken(ctx, user.ID, models.TokenResetPassword)
	if err != nil {
		h.internalError(w, r, "Failed to issue reset token", err)
		return
	}
	h.sendPasswordReset(ctx, user, token)

	utils.WriteTextResponse(w, http.StatusOK, msgCheckEmail)
}

// ValidateToken checks a reset token without consuming it
// @Summary Validate reset token
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.TokenRequest true "Reset token"
// @Success 200 {string} string "Token válido, define tu nuevo password"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Unknown or expired token"
// @Router /api/auth/validate-token [post]
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}

	if _, ok := h.redeemable(w, r, req.Token, models.TokenResetPassword); !ok {
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgValidToken)
}

// UpdatePasswordWithToken sets a new password and consumes the reset token
// @Summary Update password with reset token
// @Tags authentication
// @Accept json
// @Produce plain
// @Param token path string true "Reset token"
// @Param request body dto.UpdatePasswordRequest true "New password"
// @Success 200 {string} string "El password se modificó correctamente"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Unknown or expired token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/update-password/{token} [post]
func (h *AuthHandler) UpdatePasswordWithToken(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "token")
	if err := utils.ValidateVar(value, "required,numeric,len=6"); err != nil {
		utils.WriteValidationErrors(w, []dto.FieldError{{Field: "token", Msg: msgInvalidToken}})
		return
	}

	var req dto.UpdatePasswordRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	token, ok := h.redeemable(w, r, value, models.TokenResetPassword)
	if !ok {
		return
	}

	user, err := h.store.Users().GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgInvalidToken)
			return
		}
		h.internalError(w, r, "Failed to load token owner", err)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, "Failed to hash password", err)
		return
	}

	user.SetPassword(hashed, h.now())
	if err := h.store.Users().Update(ctx, user); err != nil {
		h.internalError(w, r, "Failed to update password", err)
		return
	}

	if err := h.store.Tokens().Delete(ctx, token.ID); err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		h.internalError(w, r, "Failed to delete token", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgPasswordUpdated)
}
