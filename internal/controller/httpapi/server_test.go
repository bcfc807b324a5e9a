package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/auth"
	"github.com/Freeeeeet/booking_portal/internal/repository/memory"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/Freeeeeet/booking_portal/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type httpErr struct {
	Error    string            `json:"error"`
	Redirect string            `json:"redirect"`
	Fields   map[string]string `json:"fields"`
}

type testApp struct {
	srv    Server
	auth   *service.AuthService
	tokens map[string]string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	stores := service.Stores{
		Teachers:       store.Teachers(),
		Students:       store.Students(),
		Availabilities: store.Availabilities(),
		Appointments:   store.Appointments(),
		Accounts:       store.Accounts(),
		Tokens:         store.Tokens(),
	}

	authSvc := service.NewAuthService(stores.Accounts, stores.Tokens, auth.NewIssuer("test-secret", time.Hour), logger)
	deps := Deps{
		Auth:         authSvc,
		Directory:    service.NewDirectoryService(stores.Teachers, logger),
		Approval:     service.NewApprovalService(stores.Students, nil, logger),
		Availability: service.NewAvailabilityService(stores.Availabilities, logger),
		Appointments: service.NewAppointmentService(stores, nil, service.AppointmentOptions{Location: time.UTC}, logger),
	}

	for email, role := range map[string]string{"admin@x.com": "admin", "t@x.com": "teacher", "jane+math@x.com": "teacher"} {
		_, err := authSvc.CreateAccount(context.Background(), service.NewAccountInput{Email: email, Password: "secret1", Role: role})
		require.NoError(t, err)
	}

	return &testApp{
		srv:    NewServer(Options{DisableReqLogs: true, RequestTimeout: 5 * time.Second}, deps, logger),
		auth:   authSvc,
		tokens: make(map[string]string),
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.srv.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, email, role string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "secret1", "role": role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session service.Session
	decode(t, rec, &session)
	return session.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func nextMonday() string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestSessionRequired(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/v1/student/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body httpErr
	decode(t, rec, &body)
	assert.Equal(t, "/login", body.Redirect)

	rec = app.do(t, http.MethodGet, "/v1/session", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRoleChecked(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "t@x.com", "password": "secret1", "role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "t@x.com", "password": "wrong-password", "role": "teacher",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "t@x.com", "password": "secret1", "role": "teacher",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session service.Session
	decode(t, rec, &session)
	assert.Equal(t, "teacher.html", session.Redirect)
}

func TestRoleGate(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "t@x.com", "teacher")

	rec := app.do(t, http.MethodGet, "/v1/admin/teachers", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/student/appointments", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@x.com", "admin")

	rec := app.do(t, http.MethodGet, "/v1/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminTeachers(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@x.com", "admin")

	rec := app.do(t, http.MethodGet, "/v1/admin/teachers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table view.Table
	decode(t, rec, &table)
	assert.Empty(t, table.Rows)
	assert.Equal(t, view.EmptyTeachers, table.Empty)

	rec = app.do(t, http.MethodPost, "/v1/admin/teachers", token, map[string]string{
		"name": "Ada", "department": "", "subject": "Math", "email": "ada@x.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var vErr struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &vErr)
	assert.Contains(t, vErr.Fields, "department")

	rec = app.do(t, http.MethodPost, "/v1/admin/teachers", token, map[string]string{
		"name": "Ada", "department": "CS", "subject": "Math", "email": "ada@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = app.do(t, http.MethodPut, "/v1/admin/teachers/"+created.ID, token, map[string]string{
		"name": "Ada L.", "department": "CS", "subject": "Logic",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/admin/teachers", token, nil)
	decode(t, rec, &table)
	require.Len(t, table.Rows, 1)
	assert.Contains(t, table.Rows[0].Cells, "Ada L.")

	rec = app.do(t, http.MethodDelete, "/v1/admin/teachers/"+created.ID, token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = app.do(t, http.MethodDelete, "/v1/admin/teachers/"+created.ID+"?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/admin/teachers/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/admin/teachers/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingFlow(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@x.com", "admin")
	teacher := app.login(t, "t@x.com", "teacher")

	rec := app.do(t, http.MethodPost, "/v1/teacher/availability", teacher, map[string]string{
		"day": "Monday", "start_time": "09:00", "end_time": "10:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/v1/teacher/availability", teacher, map[string]string{
		"day": "Monday", "start_time": "09:30", "end_time": "11:00",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "s@x.com", "password": "secret1", "name": "Sam",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var student struct {
		ID string `json:"id"`
	}
	decode(t, rec, &student)

	studentToken := app.login(t, "s@x.com", "student")
	date := nextMonday()
	booking := map[string]string{
		"teacher": "t@x.com", "date": date, "time_slot": "09:00-10:00", "message": "Need help",
	}

	// до одобрения запись запрещена
	rec = app.do(t, http.MethodPost, "/v1/student/appointments", studentToken, booking)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/admin/students/pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending view.Table
	decode(t, rec, &pending)
	require.Len(t, pending.Rows, 1)

	rec = app.do(t, http.MethodDelete, "/v1/admin/students/"+student.ID, admin, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/admin/students/"+student.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/student/slots?teacher=t@x.com&date="+date, studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slots view.SlotSelect
	decode(t, rec, &slots)
	assert.True(t, slots.Enabled)
	assert.Equal(t, []view.SlotOption{{Value: "09:00-10:00", Label: "09:00 - 10:00"}}, slots.Options)

	tuesday, _ := time.Parse("2006-01-02", date)
	rec = app.do(t, http.MethodGet, "/v1/student/slots?teacher=t@x.com&date="+tuesday.AddDate(0, 0, 1).Format("2006-01-02"), studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &slots)
	assert.False(t, slots.Enabled)
	assert.Equal(t, service.NotAvailableMessage, slots.Message)

	rec = app.do(t, http.MethodPost, "/v1/student/appointments", studentToken, booking)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var appointment struct {
		ID string `json:"id"`
	}
	decode(t, rec, &appointment)

	rec = app.do(t, http.MethodPost, "/v1/student/appointments", studentToken, booking)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/teacher/appointments", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var requests view.Table
	decode(t, rec, &requests)
	require.Len(t, requests.Rows, 1)
	assert.Len(t, requests.Rows[0].Actions, 2)

	rec = app.do(t, http.MethodPut, "/v1/teacher/appointments/"+appointment.ID+"/status", teacher, map[string]string{"status": "Cancelled"})
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = app.do(t, http.MethodPut, "/v1/teacher/appointments/"+appointment.ID+"/status", teacher, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodDelete, "/v1/student/appointments/"+appointment.ID+"?confirm=true", studentToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/student/appointments", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine view.Table
	decode(t, rec, &mine)
	require.Len(t, mine.Rows, 1)
	require.NotNil(t, mine.Rows[0].Badge)
	assert.Equal(t, "Approved", mine.Rows[0].Badge.Label)
	assert.Empty(t, mine.Rows[0].Actions)

	rec = app.do(t, http.MethodGet, "/v1/teacher/availability.png", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestStudentCancelRequiresConfirmation(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@x.com", "admin")
	teacher := app.login(t, "t@x.com", "teacher")

	app.do(t, http.MethodPost, "/v1/teacher/availability", teacher, map[string]string{
		"day": "Monday", "start_time": "09:00", "end_time": "10:00",
	})
	rec := app.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "s@x.com", "password": "secret1", "name": "Sam",
	})
	var student struct {
		ID string `json:"id"`
	}
	decode(t, rec, &student)
	app.do(t, http.MethodPost, "/v1/admin/students/"+student.ID+"/approve", admin, nil)

	token := app.login(t, "s@x.com", "student")
	rec = app.do(t, http.MethodPost, "/v1/student/appointments", token, map[string]string{
		"teacher": "t@x.com", "date": nextMonday(), "time_slot": "09:00-10:00", "message": "Hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var appointment struct {
		ID string `json:"id"`
	}
	decode(t, rec, &appointment)

	rec = app.do(t, http.MethodDelete, "/v1/student/appointments/"+appointment.ID, token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = app.do(t, http.MethodDelete, "/v1/student/appointments/"+appointment.ID+"?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/student/appointments", token, nil)
	var mine view.Table
	decode(t, rec, &mine)
	assert.Empty(t, mine.Rows)
	assert.Equal(t, view.EmptyStudentAppointments, mine.Empty)
}

func TestAdminDeletesPendingStudent(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@x.com", "admin")

	rec := app.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "s@x.com", "password": "secret1", "name": "Sam",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var student struct {
		ID string `json:"id"`
	}
	decode(t, rec, &student)

	rec = app.do(t, http.MethodDelete, "/v1/admin/students/"+student.ID+"?confirm=true", admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/admin/students/pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending view.Table
	decode(t, rec, &pending)
	assert.Empty(t, pending.Rows)

	rec = app.do(t, http.MethodDelete, "/v1/admin/students/"+student.ID+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTeacherRemovesAvailabilityWithConfirmation(t *testing.T) {
	app := newTestApp(t)
	teacher := app.login(t, "t@x.com", "teacher")

	rec := app.do(t, http.MethodPost, "/v1/teacher/availability", teacher, map[string]string{
		"day": "Monday", "start_time": "09:00", "end_time": "10:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var window struct {
		ID string `json:"id"`
	}
	decode(t, rec, &window)

	rec = app.do(t, http.MethodDelete, "/v1/teacher/availability/"+window.ID, teacher, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/teacher/availability", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table view.Table
	decode(t, rec, &table)
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0].Actions, 1)
	assert.Equal(t, view.ConfirmRemoveSlot, table.Rows[0].Actions[0].Confirm)

	rec = app.do(t, http.MethodDelete, "/v1/teacher/availability/"+window.ID+"?confirm=true", teacher, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/teacher/availability", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table = view.Table{}
	decode(t, rec, &table)
	assert.Empty(t, table.Rows)
	assert.Equal(t, view.EmptyAvailability, table.Empty)
}

func TestSearchActionLeadsToSlotsForPlusAddress(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@x.com", "admin")
	teacher := app.login(t, "jane+math@x.com", "teacher")

	rec := app.do(t, http.MethodPost, "/v1/admin/teachers", admin, map[string]string{
		"name": "Jane", "department": "Math", "subject": "Algebra", "email": "jane+math@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/v1/teacher/availability", teacher, map[string]string{
		"day": "Monday", "start_time": "09:00", "end_time": "10:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "s@x.com", "password": "secret1", "name": "Sam",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	student := app.login(t, "s@x.com", "student")

	rec = app.do(t, http.MethodGet, "/v1/student/teachers?q=jane", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table view.Table
	decode(t, rec, &table)
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0].Actions, 1)

	rec = app.do(t, http.MethodGet, table.Rows[0].Actions[0].Path+"&date="+nextMonday(), student, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var slots view.SlotSelect
	decode(t, rec, &slots)
	assert.True(t, slots.Enabled)
	require.Len(t, slots.Options, 1)
	assert.Equal(t, "09:00-10:00", slots.Options[0].Value)
}

func TestLinkTelegramNeedsBotCode(t *testing.T) {
	app := newTestApp(t)
	teacher := app.login(t, "t@x.com", "teacher")

	rec := app.do(t, http.MethodPut, "/v1/account/telegram", teacher, map[string]interface{}{"chat_id": 555})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var e httpErr
	decode(t, rec, &e)
	assert.Contains(t, e.Fields, "code")

	rec = app.do(t, http.MethodPut, "/v1/account/telegram", teacher, map[string]string{"code": "DEADBEEF"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	code, err := app.auth.IssueTelegramLinkCode(context.Background(), 555)
	require.NoError(t, err)
	rec = app.do(t, http.MethodPut, "/v1/account/telegram", teacher, map[string]string{"code": code})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	account, err := app.auth.AccountByTelegramChat(context.Background(), 555)
	require.NoError(t, err)
	assert.Equal(t, "t@x.com", account.Email)
}
