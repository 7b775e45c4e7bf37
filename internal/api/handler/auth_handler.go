package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/api/metrics"
	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/core/ports"
)

// genericCredentialsMsg is returned for both unknown-username and
// wrong-password failures so the endpoint cannot be used to enumerate
// accounts.
const genericCredentialsMsg = "invalid credentials"

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  sessionResponse
// @Failure      401   {object}  sessionResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure(err.Error()))
	}

	session, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// Unknown user and wrong password are distinct internally but
		// must stay indistinguishable to the caller.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, sessionFailure(genericCredentialsMsg))
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{
		Success:  true,
		Message:  "login successful",
		Username: session.Username,
		Token:    session.Token,
	})
}

// Register creates a USER account and logs it in immediately. Registration
// failures, unlike login failures, are safe to disclose.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  sessionResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure(err.Error()))
	}

	ctx := c.Request().Context()
	if _, err := h.authService.Register(ctx, req.Username, req.Password, domain.RoleUser); err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			metrics.RegistrationsTotal.WithLabelValues("username_taken").Inc()
			return c.JSON(http.StatusBadRequest, sessionFailure("username already taken"))
		case errors.Is(err, domain.ErrRoleNotFound):
			metrics.RegistrationsTotal.WithLabelValues("role_not_found").Inc()
			return c.JSON(http.StatusBadRequest, sessionFailure("role configuration error"))
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			return err
		}
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	session, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Success:  true,
		Message:  "registration successful",
		Username: session.Username,
		Token:    session.Token,
	})
}

// Logout acknowledges the logout. Tokens are stateless and not revocable;
// the client simply discards its copy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:  true,
		Message:  "logout successful",
		Username: username,
	})
}

// DeleteAccount removes the authenticated user's own account.
//
// @Summary      Delete own account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      400  {object}  sessionResponse
// @Router       /auth/delete-account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), username); err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("account deletion failed")
		return c.JSON(http.StatusBadRequest, sessionFailure("account deletion failed"))
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Success:  true,
		Message:  "account deleted",
		Username: username,
	})
}

// Me returns the stored record backing the request identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		Username: user.Username,
		Enabled:  user.Enabled,
		Roles:    user.RoleNames(),
	})
}

// Health reports that the authentication service is up.
//
// @Summary      Service health
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Router       /auth/health [get]
func (h *AuthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "authentication service operational")
}

// Test is a public smoke endpoint.
//
// @Summary      Smoke test
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Router       /auth/test [get]
func (h *AuthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, "auth API is up")
}
