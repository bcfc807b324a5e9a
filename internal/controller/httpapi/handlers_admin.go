package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/Freeeeeet/booking_portal/internal/view"
	"github.com/labstack/echo/v4"
)

func registerAdminAPI(g *echo.Group, deps Deps) {
	h := &adminHandlers{directory: deps.Directory, approval: deps.Approval}

	g.POST("/teachers", h.addTeacher)
	g.GET("/teachers", h.listTeachers)
	g.GET("/teachers/:id", h.getTeacher)
	g.PUT("/teachers/:id", h.updateTeacher)
	g.DELETE("/teachers/:id", h.deleteTeacher)

	g.GET("/students/pending", h.pendingStudents)
	g.POST("/students/:id/approve", h.approveStudent)
	g.DELETE("/students/:id", h.deleteStudent)
}

type adminHandlers struct {
	directory *service.DirectoryService
	approval  *service.ApprovalService
}

func (h *adminHandlers) addTeacher(c echo.Context) error {
	var in service.TeacherInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	teacher, err := h.directory.AddTeacher(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, teacher)
}

func (h *adminHandlers) listTeachers(c echo.Context) error {
	teachers, err := h.directory.ListTeachers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.TeachersTable(teachers))
}

func (h *adminHandlers) getTeacher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	teacher, err := h.directory.GetTeacher(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teacher)
}

func (h *adminHandlers) updateTeacher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var in service.TeacherUpdateInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	teacher, err := h.directory.UpdateTeacher(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teacher)
}

func (h *adminHandlers) deleteTeacher(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return errConfirmationRequired
	}

	if err := h.directory.DeleteTeacher(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *adminHandlers) pendingStudents(c echo.Context) error {
	students, err := h.approval.ListPendingStudents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.PendingStudentsTable(students))
}

func (h *adminHandlers) approveStudent(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	student, err := h.approval.ApproveStudent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

func (h *adminHandlers) deleteStudent(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return errConfirmationRequired
	}

	if err := h.approval.DeleteStudent(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
