package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type userInfoFetcher func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	users        repository.UserRepository
	tokens       repository.TokenRepository
	oauth2Config *oauth2.Config
	jwt          config.JWTConfig
	frontendURL  string
	fetchUser    userInfoFetcher
	logger       *zap.Logger
	now          func() time.Time
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(store repository.Store, cfg config.GoogleOAuthConfig, jwtCfg config.JWTConfig, log *zap.Logger) *GoogleAuthHandler {
	h := &GoogleAuthHandler{
		users:  store.Users(),
		tokens: store.Tokens(),
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwt:         jwtCfg,
		frontendURL: cfg.FrontendURL,
		logger:      log,
		now:         time.Now,
	}
	h.fetchUser = h.getGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and sets a state cookie checked by the callback
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		Expires:  h.now().Add(oauthStateTTL),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the code, signs the user in (creating a confirmed account when needed) and redirects to the frontend with a JWT
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by the login endpoint"
// @Success 302 "Redirect to the frontend with ?token="
// @Failure 400 {object} dto.ErrorResponse "Missing code or state mismatch"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 403 {object} dto.ErrorResponse "Google e-mail not verified"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		utils.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidState)
		return
	}

	code := query.Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidCode)
		return
	}

	token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		logger.Warn(ctx, h.logger, "Google code exchange failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusUnauthorized, msgInvalidCode)
		return
	}

	info, err := h.fetchUser(ctx, token)
	if err != nil {
		h.internalError(w, r, "Failed to get Google user info", err)
		return
	}
	if !info.Verified {
		utils.WriteErrorResponse(w, http.StatusForbidden, msgUnverified)
		return
	}

	user, err := h.findOrCreateUser(ctx, info)
	if err != nil {
		h.internalError(w, r, "Failed to sign in Google user", err)
		return
	}

	jwtToken, err := middleware.GenerateToken(user.ID, user.Email, h.jwt)
	if err != nil {
		h.internalError(w, r, "Failed to generate token", err)
		return
	}

	// the state is single use
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/api/auth/google", MaxAge: -1})

	redirect, err := url.Parse(h.frontendURL)
	if err != nil {
		h.internalError(w, r, "Invalid frontend callback URL", err)
		return
	}
	params := redirect.Query()
	params.Set("token", jwtToken)
	redirect.RawQuery = params.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

// findOrCreateUser signs in by email. Google has verified the address, so
// new and unconfirmed accounts are confirmed. Confirming through Google
// drops the unverified password and every pending token.
func (h *GoogleAuthHandler) findOrCreateUser(ctx context.Context, info *dto.GoogleUserInfo) (*models.User, error) {
	user, err := h.users.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		if user.Confirmed {
			return user, nil
		}
		now := h.now()
		user.Confirm(now)
		user.SetPassword("", now)
		if err := h.users.Update(ctx, user); err != nil {
			return nil, err
		}
		for _, purpose := range []models.TokenPurpose{models.TokenConfirmAccount, models.TokenResetPassword} {
			if err := h.tokens.DeleteByUser(ctx, user.ID, purpose); err != nil {
				return nil, err
			}
		}
		return user, nil
	case errors.Is(err, repository.ErrUserNotFound):
		user = models.NewUser(models.UserFields{
			Name:      info.Name,
			Email:     info.Email,
			Confirmed: true,
		}, h.now())
		if err := h.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, err
	}
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}

func (h *GoogleAuthHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Error(r.Context(), h.logger, msg, zap.String("path", r.URL.Path), zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusInternalServerError, msgInternalError)
}
