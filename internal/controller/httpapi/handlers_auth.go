package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func registerAuthAPI(g *echo.Group, gate echo.MiddlewareFunc, auth *service.AuthService) {
	h := &authHandlers{auth: auth}

	g.POST("/auth/register", h.register)
	g.POST("/auth/login", h.login)
	g.POST("/auth/logout", h.logout, gate)
	g.GET("/session", h.session, gate)
	g.PUT("/account/telegram", h.linkTelegram, gate)
}

type authHandlers struct {
	auth *service.AuthService
}

func (h *authHandlers) register(c echo.Context) error {
	var in service.SignUpInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	student, err := h.auth.SignUp(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, student)
}

func (h *authHandlers) login(c echo.Context) error {
	var in service.SignInInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	session, err := h.auth.SignIn(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *authHandlers) logout(c echo.Context) error {
	token, _ := c.Request().Context().Value(tokenKey).(string)
	if err := h.auth.SignOut(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"redirect": loginPage})
}

func (h *authHandlers) session(c echo.Context) error {
	id := identity(c)
	return c.JSON(http.StatusOK, echo.Map{
		"identity": id,
		"redirect": id.Role.LandingPage(),
	})
}

// linkTelegram привязывает чат бота к учётной записи по коду, который бот выдаёт на /start
func (h *authHandlers) linkTelegram(c echo.Context) error {
	var in service.TelegramLinkInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	if err := h.auth.LinkTelegram(c.Request().Context(), identity(c), in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func paramID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}
