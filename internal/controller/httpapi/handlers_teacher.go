package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/Freeeeeet/booking_portal/internal/view"
	"github.com/labstack/echo/v4"
)

func registerTeacherAPI(g *echo.Group, deps Deps) {
	h := &teacherHandlers{availability: deps.Availability, appointments: deps.Appointments}

	g.POST("/availability", h.addAvailability)
	g.GET("/availability", h.listAvailability)
	g.GET("/availability.png", h.weekImage)
	g.DELETE("/availability/:id", h.deleteAvailability)

	g.GET("/appointments", h.listAppointments)
	g.PUT("/appointments/:id/status", h.updateStatus)
}

type teacherHandlers struct {
	availability *service.AvailabilityService
	appointments *service.AppointmentService
}

func (h *teacherHandlers) addAvailability(c echo.Context) error {
	var in service.AvailabilityInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	window, err := h.availability.AddAvailability(c.Request().Context(), identity(c).Email, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, window)
}

func (h *teacherHandlers) listAvailability(c echo.Context) error {
	list, err := h.availability.ListAvailability(c.Request().Context(), identity(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.AvailabilityTable(list))
}

func (h *teacherHandlers) deleteAvailability(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return errConfirmationRequired
	}

	if err := h.availability.DeleteAvailability(c.Request().Context(), identity(c).Email, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// weekImage PNG недели: окна и занятые записи. ?week=YYYY-MM-DD, по умолчанию текущая неделя
func (h *teacherHandlers) weekImage(c echo.Context) error {
	ctx := c.Request().Context()
	loc := h.appointments.Location()

	weekOf := time.Now().In(loc)
	if raw := c.QueryParam("week"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "week must be YYYY-MM-DD")
		}
		weekOf = parsed
	}

	id := identity(c)
	windows, err := h.availability.ListAvailability(ctx, id.Email)
	if err != nil {
		return err
	}
	appointments, err := h.appointments.ListTeacherAppointments(ctx, id)
	if err != nil {
		return err
	}

	img, err := view.WeekImage(weekOf, windows, appointments, loc)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", img)
}

func (h *teacherHandlers) listAppointments(c echo.Context) error {
	list, err := h.appointments.ListTeacherAppointments(c.Request().Context(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.TeacherAppointmentsTable(list, h.appointments.Location()))
}

type statusChange struct {
	Status model.AppointmentStatus `json:"status"`
}

func (h *teacherHandlers) updateStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var in statusChange
	if err := c.Bind(&in); err != nil {
		return err
	}
	if in.Status == model.AppointmentStatusCancelled && !confirmed(c) {
		return errConfirmationRequired
	}

	appointment, err := h.appointments.UpdateStatus(c.Request().Context(), identity(c), id, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointment)
}
