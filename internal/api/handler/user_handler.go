package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/core/ports"
)

// UserHandler exposes the admin-only account management surface.
type UserHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewUserHandler(authService ports.AuthService, log zerolog.Logger) *UserHandler {
	return &UserHandler{authService: authService, log: log}
}

// Create provisions an account with an explicit role. Unlike public
// registration, the role is caller-chosen; the route is guarded by the
// ADMIN requirement.
//
// @Summary      Create a user with an explicit role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  sessionResponse
// @Failure      403   {object}  map[string]string
// @Router       /users/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sessionFailure(err.Error()))
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.JSON(http.StatusBadRequest, sessionFailure("username already taken"))
		case errors.Is(err, domain.ErrRoleNotFound):
			return c.JSON(http.StatusBadRequest, sessionFailure("unknown role: "+req.Role))
		default:
			return err
		}
	}

	h.log.Info().Str("username", user.Username).Str("role", req.Role).Msg("user provisioned by admin")
	return c.JSON(http.StatusCreated, userResponse{
		Username: user.Username,
		Enabled:  user.Enabled,
		Roles:    user.RoleNames(),
	})
}
