package service

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/booking_portal/internal/auth"
	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// 2024-01-01 понедельник
var testNow = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu        sync.Mutex
	booked    []*model.Appointment
	cancelled []*model.Appointment
	changed   []*model.Appointment
	approved  []*model.Student
	digests   map[string]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{digests: make(map[string]int)}
}

func (n *recordingNotifier) AppointmentBooked(_ context.Context, a *model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, a)
	return nil
}

func (n *recordingNotifier) AppointmentCancelled(_ context.Context, a *model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, a)
	return nil
}

func (n *recordingNotifier) AppointmentStatusChanged(_ context.Context, a *model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, a)
	return nil
}

func (n *recordingNotifier) StudentApproved(_ context.Context, s *model.Student) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, s)
	return nil
}

func (n *recordingNotifier) PendingDigest(_ context.Context, teacher string, count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digests[teacher] = count
	return nil
}

type fixture struct {
	store        *memory.Store
	logs         *observer.ObservedLogs
	notifier     *recordingNotifier
	auth         *AuthService
	directory    *DirectoryService
	approval     *ApprovalService
	availability *AvailabilityService
	appointments *AppointmentService
}

func newFixture(t *testing.T, opts AppointmentOptions) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	store := memory.NewStore()
	notifier := newRecordingNotifier()

	stores := Stores{
		Teachers:       store.Teachers(),
		Students:       store.Students(),
		Availabilities: store.Availabilities(),
		Appointments:   store.Appointments(),
		Accounts:       store.Accounts(),
		Tokens:         store.Tokens(),
	}

	appointments := NewAppointmentService(stores, notifier, opts, logger)
	appointments.now = func() time.Time { return testNow }

	return &fixture{
		store:        store,
		logs:         logs,
		notifier:     notifier,
		auth:         NewAuthService(stores.Accounts, stores.Tokens, auth.NewIssuer("test-secret", time.Hour), logger),
		directory:    NewDirectoryService(stores.Teachers, logger),
		approval:     NewApprovalService(stores.Students, notifier, logger),
		availability: NewAvailabilityService(stores.Availabilities, logger),
		appointments: appointments,
	}
}

func (f *fixture) warnCount() int {
	return f.logs.FilterLevelExact(zapcore.WarnLevel).Len()
}

// approvedStudent регистрирует и одобряет студента
func (f *fixture) approvedStudent(t *testing.T, email string) *model.Identity {
	t.Helper()
	ctx := context.Background()

	student, err := f.auth.SignUp(ctx, SignUpInput{Email: email, Password: "secret1", Name: "Student"})
	require.NoError(t, err)
	_, err = f.approval.ApproveStudent(ctx, student.ID)
	require.NoError(t, err)

	return &model.Identity{UID: student.UID, Email: student.Email, Role: model.RoleStudent}
}

func teacherIdentity(email string) *model.Identity {
	return &model.Identity{Email: email, Role: model.RoleTeacher}
}
