package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	tokenKey
)

// IdentityFrom личность, положенная в контекст запроса сессионным шлюзом
func IdentityFrom(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey).(*model.Identity)
	return identity
}

func identity(c echo.Context) *model.Identity {
	return IdentityFrom(c.Request().Context())
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// sessionGate проверяет токен и кладёт личность в контекст; без сессии -> 401 с redirect на /login
func sessionGate(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return service.ErrUnauthenticated
			}

			identity, err := auth.Session(c.Request().Context(), token)
			if err != nil {
				return err
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, identity)
			ctx = context.WithValue(ctx, tokenKey, token)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// requireRole пускает только указанные роли
func requireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := identity(c)
			for _, role := range roles {
				if id.Is(role) {
					return next(c)
				}
			}
			return service.ErrForbidden
		}
	}
}

// confirmed проверяет явное подтверждение удаляющего действия
func confirmed(c echo.Context) bool {
	ok, _ := strconv.ParseBool(c.QueryParam("confirm"))
	return ok
}

func requestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d <= 0 {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if id := identity(c); id != nil {
				fields = append(fields, zap.String("email", id.Email))
			}
			if v.Status >= http.StatusInternalServerError {
				logger.Error("HTTP request", fields...)
			} else {
				logger.Info("HTTP request", fields...)
			}
			return nil
		},
	})
}
