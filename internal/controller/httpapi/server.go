// Package httpapi JSON API портала записи поверх echo
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type (
	// Deps сервисы, которые обслуживает API
	Deps struct {
		Auth         *service.AuthService
		Directory    *service.DirectoryService
		Approval     *service.ApprovalService
		Availability *service.AvailabilityService
		Appointments *service.AppointmentService
	}

	Options struct {
		Address        string
		RequestTimeout time.Duration
		DisableReqLogs bool
		Debug          bool
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts   Options
		deps   Deps
		app    *echo.Echo
		logger *zap.Logger
	}
)

var _ Server = (*server)(nil)

func NewServer(opts Options, deps Deps, logger *zap.Logger) Server {
	s := &server{
		opts:   opts,
		deps:   deps,
		app:    echo.New(),
		logger: logger,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Server.ReadTimeout = 15 * time.Second
	s.app.Server.WriteTimeout = 30 * time.Second

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.logger))
	}
	s.app.Use(middleware.Recover())
	s.app.Use(requestTimeout(s.opts.RequestTimeout))

	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger)

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	gate := sessionGate(s.deps.Auth)

	registerAuthAPI(v1, gate, s.deps.Auth)
	registerAdminAPI(v1.Group("/admin", gate, requireRole(model.RoleAdmin)), s.deps)
	registerTeacherAPI(v1.Group("/teacher", gate, requireRole(model.RoleTeacher)), s.deps)
	registerStudentAPI(v1.Group("/student", gate, requireRole(model.RoleStudent)), s.deps)
}

func (s *server) Start() error {
	s.logger.Info("Starting HTTP API", zap.String("address", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(c echo.Context) error {
	return c.String(http.StatusOK, "Appointment booking portal API")
}
