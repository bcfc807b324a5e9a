// Package view превращает результаты запросов в модели строк и таблиц для страниц портала
package view

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
)

// Пустые состояния таблиц
const (
	EmptyTeachers            = "No teachers found."
	EmptyPendingStudents     = "No pending registrations."
	EmptyAvailability        = "No availability slots added."
	EmptyStudentAppointments = "You have no appointments."
	EmptyTeacherAppointments = "You have no appointment requests."
)

// Тексты подтверждений
const (
	ConfirmDeleteTeacher     = "Are you sure you want to delete this teacher?"
	ConfirmRemoveSlot        = "Are you sure you want to remove this slot?"
	ConfirmDeleteStudent     = "Are you sure you want to delete this registration?"
	ConfirmCancelAppointment = "Are you sure you want to cancel this appointment?"
	timeLayout               = "Mon, 02 Jan 2006 15:04"
)

type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	// Empty сообщение-заглушка, если строк нет
	Empty string `json:"empty,omitempty"`
}

type Row struct {
	ID      string   `json:"id"`
	Cells   []string `json:"cells"`
	Badge   *Badge   `json:"badge,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// Badge цветная метка статуса
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// Action кнопка в строке. Confirm непустой -> перед вызовом нужен диалог подтверждения
type Action struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Method  string      `json:"method"`
	Path    string      `json:"path"`
	Body    interface{} `json:"body,omitempty"`
	Confirm string      `json:"confirm,omitempty"`
}

func newTable(columns []string, empty string, n int) Table {
	t := Table{Columns: columns, Rows: make([]Row, 0, n)}
	if n == 0 {
		t.Empty = empty
	}
	return t
}

// StatusBadge метка статуса записи
func StatusBadge(status model.AppointmentStatus) *Badge {
	switch status {
	case model.AppointmentStatusApproved:
		return &Badge{Label: string(status), Class: "badge bg-success"}
	case model.AppointmentStatusCancelled:
		return &Badge{Label: string(status), Class: "badge bg-danger"}
	default:
		return &Badge{Label: string(status), Class: "badge bg-warning text-dark"}
	}
}

// FormatTime время записи в часовом поясе портала
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}

// TeachersTable справочник учителей для администратора
func TeachersTable(teachers []*model.Teacher) Table {
	t := newTable([]string{"Name", "Department", "Subject", "Email"}, EmptyTeachers, len(teachers))
	for _, teacher := range teachers {
		path := "/v1/admin/teachers/" + teacher.ID.String()
		t.Rows = append(t.Rows, Row{
			ID:    teacher.ID.String(),
			Cells: []string{teacher.Name, teacher.Department, teacher.Subject, teacher.Email},
			Actions: []Action{
				{Name: "edit", Label: "Edit", Method: http.MethodGet, Path: path},
				{Name: "delete", Label: "Delete", Method: http.MethodDelete, Path: path, Confirm: ConfirmDeleteTeacher},
			},
		})
	}
	return t
}

// TeacherSearchList результаты поиска учителя студентом
func TeacherSearchList(teachers []*model.Teacher) Table {
	t := newTable([]string{"Name", "Subject", "Department"}, EmptyTeachers, len(teachers))
	for _, teacher := range teachers {
		t.Rows = append(t.Rows, Row{
			ID:    teacher.Email,
			Cells: []string{teacher.Name, teacher.Subject, teacher.Department},
			Actions: []Action{
				{Name: "select", Label: "Select", Method: http.MethodGet, Path: "/v1/student/slots?" + url.Values{"teacher": {teacher.Email}}.Encode()},
			},
		})
	}
	return t
}

// PendingStudentsTable очередь регистраций
func PendingStudentsTable(students []*model.Student) Table {
	t := newTable([]string{"Name", "Email"}, EmptyPendingStudents, len(students))
	for _, s := range students {
		path := "/v1/admin/students/" + s.ID.String()
		t.Rows = append(t.Rows, Row{
			ID:    s.ID.String(),
			Cells: []string{s.Name, s.Email},
			Actions: []Action{
				{Name: "approve", Label: "Approve", Method: http.MethodPost, Path: path + "/approve"},
				{Name: "delete", Label: "Delete", Method: http.MethodDelete, Path: path, Confirm: ConfirmDeleteStudent},
			},
		})
	}
	return t
}

// AvailabilityTable окна учителя
func AvailabilityTable(list []*model.Availability) Table {
	t := newTable([]string{"Day", "Start", "End"}, EmptyAvailability, len(list))
	for _, a := range list {
		t.Rows = append(t.Rows, Row{
			ID:    a.ID.String(),
			Cells: []string{a.Day, a.StartTime, a.EndTime},
			Actions: []Action{
				{Name: "remove", Label: "Remove", Method: http.MethodDelete, Path: "/v1/teacher/availability/" + a.ID.String(), Confirm: ConfirmRemoveSlot},
			},
		})
	}
	return t
}

// StudentAppointmentsTable записи студента; отмена только для Pending
func StudentAppointmentsTable(list []*model.Appointment, loc *time.Location) Table {
	t := newTable([]string{"Teacher", "Time", "Message", "Status"}, EmptyStudentAppointments, len(list))
	for _, a := range list {
		row := Row{
			ID:    a.ID.String(),
			Cells: []string{a.Teacher, FormatTime(a.Time, loc), a.Message, string(a.Status)},
			Badge: StatusBadge(a.Status),
		}
		if a.IsPending() {
			row.Actions = []Action{{
				Name:    "cancel",
				Label:   "Cancel",
				Method:  http.MethodDelete,
				Path:    "/v1/student/appointments/" + a.ID.String(),
				Confirm: ConfirmCancelAppointment,
			}}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TeacherAppointmentsTable заявки к учителю; Approve/Cancel только для Pending
func TeacherAppointmentsTable(list []*model.Appointment, loc *time.Location) Table {
	t := newTable([]string{"Student", "Time", "Message", "Status"}, EmptyTeacherAppointments, len(list))
	for _, a := range list {
		row := Row{
			ID:    a.ID.String(),
			Cells: []string{a.StudentEmail, FormatTime(a.Time, loc), a.Message, string(a.Status)},
			Badge: StatusBadge(a.Status),
		}
		if a.IsPending() {
			path := "/v1/teacher/appointments/" + a.ID.String() + "/status"
			row.Actions = []Action{
				{
					Name:   "approve",
					Label:  "Approve",
					Method: http.MethodPut,
					Path:   path,
					Body:   map[string]string{"status": string(model.AppointmentStatusApproved)},
				},
				{
					Name:    "cancel",
					Label:   "Cancel",
					Method:  http.MethodPut,
					Path:    path,
					Body:    map[string]string{"status": string(model.AppointmentStatusCancelled)},
					Confirm: ConfirmCancelAppointment,
				},
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SlotOption вариант в селекторе времени
type SlotOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SlotSelect состояние селектора времени; Enabled=false -> селектор выключен с сообщением
type SlotSelect struct {
	Day     string       `json:"day"`
	Enabled bool         `json:"enabled"`
	Message string       `json:"message,omitempty"`
	Options []SlotOption `json:"options"`
}

// SlotOptions варианты "start-end" / "start - end" для выбранного дня
func SlotOptions(day string, slots []*model.Availability, notAvailable string) SlotSelect {
	sel := SlotSelect{Day: day, Options: make([]SlotOption, 0, len(slots))}
	for _, a := range slots {
		sel.Options = append(sel.Options, SlotOption{Value: a.SlotValue(), Label: a.SlotLabel()})
	}
	sel.Enabled = len(sel.Options) > 0
	if !sel.Enabled {
		sel.Message = notAvailable
	}
	return sel
}
