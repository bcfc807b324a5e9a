package view

import (
	"bytes"
	"image/png"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTablesCarryPlaceholder(t *testing.T) {
	assert.Equal(t, EmptyTeachers, TeachersTable(nil).Empty)
	assert.Equal(t, EmptyTeachers, TeacherSearchList(nil).Empty)
	assert.Equal(t, EmptyPendingStudents, PendingStudentsTable(nil).Empty)
	assert.Equal(t, EmptyAvailability, AvailabilityTable(nil).Empty)
	assert.Equal(t, EmptyStudentAppointments, StudentAppointmentsTable(nil, nil).Empty)
	assert.Equal(t, EmptyTeacherAppointments, TeacherAppointmentsTable(nil, nil).Empty)
	assert.NotNil(t, TeachersTable(nil).Rows)
}

func TestTeachersTableActions(t *testing.T) {
	table := TeachersTable([]*model.Teacher{{ID: uuid.New(), Name: "Jane", Department: "Math", Subject: "Algebra", Email: "jane@x.com"}})

	require.Len(t, table.Rows, 1)
	assert.Empty(t, table.Empty)
	actions := table.Rows[0].Actions
	require.Len(t, actions, 2)
	assert.Equal(t, "edit", actions[0].Name)
	assert.Empty(t, actions[0].Confirm)
	assert.Equal(t, http.MethodDelete, actions[1].Method)
	assert.Equal(t, ConfirmDeleteTeacher, actions[1].Confirm)
}

func TestTeacherSearchListEscapesEmail(t *testing.T) {
	table := TeacherSearchList([]*model.Teacher{{ID: uuid.New(), Name: "Jane", Subject: "Algebra", Email: "jane+math@x.com"}})

	require.Len(t, table.Rows, 1)
	path := table.Rows[0].Actions[0].Path
	assert.Equal(t, "/v1/student/slots?teacher=jane%2Bmath%40x.com", path)

	u, err := url.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "jane+math@x.com", u.Query().Get("teacher"))
}

func TestPendingStudentsTableActions(t *testing.T) {
	id := uuid.New()
	table := PendingStudentsTable([]*model.Student{{ID: id, Name: "Ann", Email: "ann@x.com"}})

	require.Len(t, table.Rows, 1)
	actions := table.Rows[0].Actions
	require.Len(t, actions, 2)
	assert.Equal(t, "/v1/admin/students/"+id.String()+"/approve", actions[0].Path)
	assert.Empty(t, actions[0].Confirm)
	assert.Equal(t, http.MethodDelete, actions[1].Method)
	assert.Equal(t, ConfirmDeleteStudent, actions[1].Confirm)
}

func TestAppointmentActionsOnlyWhenPending(t *testing.T) {
	at := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
	list := []*model.Appointment{
		{ID: uuid.New(), Teacher: "t@x.com", StudentEmail: "s@x.com", Time: at, Status: model.AppointmentStatusPending},
		{ID: uuid.New(), Teacher: "t@x.com", StudentEmail: "s@x.com", Time: at, Status: model.AppointmentStatusApproved},
		{ID: uuid.New(), Teacher: "t@x.com", StudentEmail: "s@x.com", Time: at, Status: model.AppointmentStatusCancelled},
	}

	student := StudentAppointmentsTable(list, time.UTC)
	require.Len(t, student.Rows, 3)
	require.Len(t, student.Rows[0].Actions, 1)
	assert.Equal(t, ConfirmCancelAppointment, student.Rows[0].Actions[0].Confirm)
	assert.Empty(t, student.Rows[1].Actions)
	assert.Empty(t, student.Rows[2].Actions)
	assert.Equal(t, "Mon, 08 Jan 2024 09:00", student.Rows[0].Cells[1])

	teacher := TeacherAppointmentsTable(list, time.UTC)
	require.Len(t, teacher.Rows[0].Actions, 2)
	assert.Empty(t, teacher.Rows[0].Actions[0].Confirm)
	assert.Equal(t, ConfirmCancelAppointment, teacher.Rows[0].Actions[1].Confirm)
	assert.Empty(t, teacher.Rows[1].Actions)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "badge bg-success", StatusBadge(model.AppointmentStatusApproved).Class)
	assert.Equal(t, "badge bg-danger", StatusBadge(model.AppointmentStatusCancelled).Class)
	assert.Equal(t, "badge bg-warning text-dark", StatusBadge(model.AppointmentStatusPending).Class)
}

func TestSlotOptions(t *testing.T) {
	sel := SlotOptions("Monday", []*model.Availability{{StartTime: "09:00", EndTime: "10:00"}}, "none")
	assert.True(t, sel.Enabled)
	require.Len(t, sel.Options, 1)
	assert.Equal(t, SlotOption{Value: "09:00-10:00", Label: "09:00 - 10:00"}, sel.Options[0])

	empty := SlotOptions("Tuesday", nil, "Teacher not available on this day")
	assert.False(t, empty.Enabled)
	assert.Equal(t, "Teacher not available on this day", empty.Message)
}

func TestWeekImageIsPNG(t *testing.T) {
	windows := []*model.Availability{
		{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Friday", StartTime: "14:30", EndTime: "16:00"},
	}
	appointments := []*model.Appointment{
		{Time: time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC), Status: model.AppointmentStatusApproved},
	}

	data, err := WeekImage(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), windows, appointments, time.UTC)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestBookedWindowsWithinWeek(t *testing.T) {
	weekStart := mondayOf(time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), weekStart)

	booked := bookedWindows(weekStart, []*model.Appointment{
		{Time: time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC), Status: model.AppointmentStatusPending},
		{Time: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC), Status: model.AppointmentStatusApproved},
		{Time: time.Date(2024, time.January, 9, 9, 0, 0, 0, time.UTC), Status: model.AppointmentStatusCancelled},
	}, time.UTC)

	assert.Equal(t, map[string]model.AppointmentStatus{"Monday 09:00": model.AppointmentStatusPending}, booked)
}
