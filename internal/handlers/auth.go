package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

// maxTokenAttempts bounds retries when a generated token value is taken
const maxTokenAttempts = 3

// AuthMailer sends account emails. *utils.EmailService implements it.
type AuthMailer interface {
	SendConfirmationEmail(ctx context.Context, data utils.EmailData) error
	SendPasswordResetToken(ctx context.Context, data utils.EmailData) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store    repository.Store
	mailer   AuthMailer
	jwt      config.JWTConfig
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(store repository.Store, mailer AuthMailer, jwtCfg config.JWTConfig, tokenTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:    store,
		mailer:   mailer,
		jwt:      jwtCfg,
		tokenTTL: tokenTTL,
		logger:   log,
		now:      time.Now,
	}
}

// CreateAccount handles user registration
// @Summary Create an account
// @Description Register a user and email a 6-digit confirmation token
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.CreateAccountRequest true "Account data"
// @Success 200 {string} string "Cuenta creada, revisa tu email para confirmarla"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "User already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/create-account [post]
func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	// Prevent duplicates
	_, err := h.store.Users().GetByEmail(ctx, req.Email)
	if err == nil {
		utils.WriteErrorResponse(w, http.StatusConflict, msgUserExists)
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		h.internalError(w, r, "Failed to look up user", err)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, "Failed to hash password", err)
		return
	}

	user := models.NewUser(models.UserFields{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	}, h.now())

	if err := h.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, msgUserExists)
			return
		}
		h.internalError(w, r, "Failed to create user", err)
		return
	}

	token, err := h.issueToken(ctx, user.ID, models.TokenConfirmAccount)
	if err != nil {
		h.internalError(w, r, "Failed to issue confirmation token", err)
		return
	}

	h.sendConfirmation(ctx, user, token)

	utils.WriteTextResponse(w, http.StatusOK, msgAccountCreated)
}

// ConfirmAccount redeems a confirmation token
// @Summary Confirm an account
// @Description Mark the token owner as confirmed and consume the token
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.TokenRequest true "Confirmation token"
// @Success 200 {string} string "Cuenta confirmada correctamente"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Unknown or expired token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/confirm-account [post]
func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	token, ok := h.redeemable(w, r, req.Token, models.TokenConfirmAccount)
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

	user.Confirm(h.now())
	if err := h.store.Users().Update(ctx, user); err != nil {
		h.internalError(w, r, "Failed to confirm user", err)
		return
	}

	if err := h.store.Tokens().Delete(ctx, token.ID); err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		h.internalError(w, r, "Failed to delete token", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgAccountConfirmed)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password. Unconfirmed accounts get a new confirmation email.
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {string} string "Signed JWT"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unconfirmed account or wrong password"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	user, ok := h.findUser(w, r, req.Email, http.StatusNotFound, msgUserNotFound)
	if !ok {
		return
	}

	if !user.Confirmed {
		token, err := h.issueToken(ctx, user.ID, models.TokenConfirmAccount)
		if err != nil {
			h.internalError(w, r, "Failed to issue confirmation token", err)
			return
		}
		h.sendConfirmation(ctx, user, token)

		utils.WriteErrorResponse(w, http.StatusUnauthorized, msgAccountUnconfirmed)
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, msgWrongPassword)
		return
	}

	jwtToken, err := middleware.GenerateToken(user.ID, user.Email, h.jwt)
	if err != nil {
		h.internalError(w, r, "Failed to generate token", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, jwtToken)
}

// RequestConfirmationCode re-sends a confirmation token
// @Summary Request a new confirmation code
// @Tags authentication
// @Accept json
// @Produce plain
// @Param request body dto.EmailRequest true "Account email"
// @Success 200 {string} string "Se envió un nuevo token a tu e-mail"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Already confirmed"
// @Failure 409 {object} dto.ErrorResponse "User not registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/request-code [post]
func (h *AuthHandler) RequestConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}
	ctx := r.Context()

	user, ok := h.findUser(w, r, req.Email, http.StatusConflict, msgUserNotRegistered)
	if !ok {
		return
	}

	if user.Confirmed {
		utils.WriteErrorResponse(w, http.StatusForbidden, msgUserAlreadyConfirm)
		return
	}

	token, err := h.issueToken(ctx, user.ID, models.TokenConfirmAccount)
	if err != nil {
		h.internalError(w, r, "Failed to issue confirmation token", err)
		return
	}
	h.sendConfirmation(ctx, user, token)

	utils.WriteTextResponse(w, http.StatusOK, msgNewTokenSent)
}

// User returns the authenticated user
// @Summary Current user
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/auth/user [get]
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	user, err := h.store.Users().GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.internalError(w, r, "Failed to load user", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

// findUser loads a user by email. A missing user is answered with
// missingStatus and missingMsg.
func (h *AuthHandler) findUser(w http.ResponseWriter, r *http.Request, email string, missingStatus int, missingMsg string) (*models.User, bool) {
	user, err := h.store.Users().GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.WriteErrorResponse(w, missingStatus, missingMsg)
			return nil, false
		}
		h.internalError(w, r, "Failed to look up user", err)
		return nil, false
	}
	return user, true
}

// issueToken replaces every token the user holds for purpose with a new one
func (h *AuthHandler) issueToken(ctx context.Context, userID uuid.UUID, purpose models.TokenPurpose) (*models.Token, error) {
	if err := h.store.Tokens().DeleteByUser(ctx, userID, purpose); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		value, err := utils.GenerateToken()
		if err != nil {
			return nil, err
		}

		token := models.NewToken(userID, value, purpose, h.tokenTTL, h.now())
		err = h.store.Tokens().Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, repository.ErrTokenAlreadyExists) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("no free token value after %d attempts", maxTokenAttempts)
}

// lookupToken treats expired tokens as absent and removes them
func (h *AuthHandler) lookupToken(ctx context.Context, value string, purpose models.TokenPurpose) (*models.Token, error) {
	token, err := h.store.Tokens().GetByToken(ctx, value, purpose)
	if err != nil {
		return nil, err
	}

	if token.Expired(h.now()) {
		if err := h.store.Tokens().Delete(ctx, token.ID); err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
			logger.Warn(ctx, h.logger, "Failed to delete expired token", zap.Error(err))
		}
		return nil, repository.ErrTokenNotFound
	}

	return token, nil
}

// redeemable resolves a token or answers 404 / 500
func (h *AuthHandler) redeemable(w http.ResponseWriter, r *http.Request, value string, purpose models.TokenPurpose) (*models.Token, bool) {
	token, err := h.lookupToken(r.Context(), value, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgInvalidToken)
			return nil, false
		}
		h.internalError(w, r, "Failed to look up token", err)
		return nil, false
	}
	return token, true
}

// Email delivery failures are logged and never fail the request
func (h *AuthHandler) sendConfirmation(ctx context.Context, user *models.User, token *models.Token) {
	err := h.mailer.SendConfirmationEmail(ctx, utils.EmailData{Email: user.Email, Name: user.Name, Token: token.Token})
	if err != nil {
		logger.Warn(ctx, h.logger, "Confirmation email not delivered", zap.String("to", user.Email), zap.Error(err))
	}
}

func (h *AuthHandler) sendPasswordReset(ctx context.Context, user *models.User, token *models.Token) {
	err := h.mailer.SendPasswordResetToken(ctx, utils.EmailData{Email: user.Email, Name: user.Name, Token: token.Token})
	if err != nil {
		logger.Warn(ctx, h.logger, "Password reset email not delivered", zap.String("to", user.Email), zap.Error(err))
	}
}

func (h *AuthHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Error(r.Context(), h.logger, msg, zap.String("path", r.URL.Path), zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusInternalServerError, msgInternalError)
}
