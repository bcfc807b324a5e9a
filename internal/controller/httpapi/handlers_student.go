package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/Freeeeeet/booking_portal/internal/view"
	"github.com/labstack/echo/v4"
)

func registerStudentAPI(g *echo.Group, deps Deps) {
	h := &studentHandlers{appointments: deps.Appointments}

	g.GET("/teachers", h.searchTeachers)
	g.GET("/slots", h.slots)
	g.POST("/appointments", h.book)
	g.GET("/appointments", h.listAppointments)
	g.DELETE("/appointments/:id", h.cancel)
}

type studentHandlers struct {
	appointments *service.AppointmentService
}

func (h *studentHandlers) searchTeachers(c echo.Context) error {
	teachers, err := h.appointments.SearchTeachers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.TeacherSearchList(teachers))
}

func (h *studentHandlers) slots(c echo.Context) error {
	options, err := h.appointments.AvailableSlots(c.Request().Context(), c.QueryParam("teacher"), c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.SlotOptions(options.Day, options.Slots, options.Message))
}

func (h *studentHandlers) book(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	appointment, err := h.appointments.BookAppointment(c.Request().Context(), identity(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appointment)
}

func (h *studentHandlers) listAppointments(c echo.Context) error {
	list, err := h.appointments.ListStudentAppointments(c.Request().Context(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.StudentAppointmentsTable(list, h.appointments.Location()))
}

func (h *studentHandlers) cancel(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return errConfirmationRequired
	}

	if err := h.appointments.CancelStudentAppointment(c.Request().Context(), identity(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
