package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const NotAvailableMessage = "Teacher not available on this day"

// BookingInput форма записи к учителю. TimeSlot в виде "09:00-10:00"
type BookingInput struct {
	Teacher  string `json:"teacher" validate:"notblank,email"`
	Date     string `json:"date" validate:"notblank,isodate"`
	TimeSlot string `json:"time_slot" validate:"notblank"`
	Message  string `json:"message" validate:"notblank"`
}

// SlotOptions варианты времени для выбранной даты
type SlotOptions struct {
	Teacher   string                `json:"teacher"`
	Date      string                `json:"date"`
	Day       string                `json:"day"`
	Available bool                  `json:"available"`
	Message   string                `json:"message,omitempty"`
	Slots     []*model.Availability `json:"-"`
}

// AppointmentOptions настройки сервиса записей
type AppointmentOptions struct {
	// Location часовой пояс, в котором трактуются даты формы
	Location *time.Location
	// CancelByStatus: отмена студентом переводит запись в Cancelled вместо удаления
	CancelByStatus bool
}

// AppointmentService запись студентов к учителям и ответы учителей
type AppointmentService struct {
	teachers       TeacherStore
	students       StudentStore
	availabilities AvailabilityStore
	appointments   AppointmentStore
	notifier       Notifier
	opts           AppointmentOptions
	logger         *zap.Logger
	now            func() time.Time
}

func NewAppointmentService(stores Stores, notifier Notifier, opts AppointmentOptions, logger *zap.Logger) *AppointmentService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &AppointmentService{
		teachers:       stores.Teachers,
		students:       stores.Students,
		availabilities: stores.Availabilities,
		appointments:   stores.Appointments,
		notifier:       notifierOrNoop(notifier),
		opts:           opts,
		logger:         logger,
		now:            time.Now,
	}
}

// SearchTeachers ищет подстроку без учёта регистра в имени или предмете; пустой запрос -> все
func (s *AppointmentService) SearchTeachers(ctx context.Context, query string) ([]*model.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		s.logger.Error("Error searching teachers", zap.Error(err))
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return teachers, nil
	}

	var matched []*model.Teacher
	for _, t := range teachers {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Subject), q) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// AvailableSlots окна учителя на день недели выбранной даты
func (s *AppointmentService) AvailableSlots(ctx context.Context, teacherEmail, date string) (*SlotOptions, error) {
	if strings.TrimSpace(teacherEmail) == "" {
		err := fieldError("teacher", "select a teacher first")
		s.logger.Warn("Date picked without selecting a teacher first", zap.String("date", date))
		return nil, err
	}

	day, err := s.parseDate(date)
	if err != nil {
		s.logger.Warn("Slot lookup validation failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	teacherEmail = normalizeEmail(teacherEmail)
	weekday := day.Weekday().String()

	slots, err := s.availabilities.ListByTeacherAndDay(ctx, teacherEmail, weekday)
	if err != nil {
		s.logger.Error("Error fetching availability", zap.String("teacher", teacherEmail), zap.Error(err))
		return nil, fmt.Errorf("list availability: %w", err)
	}

	options := &SlotOptions{
		Teacher:   teacherEmail,
		Date:      date,
		Day:       weekday,
		Available: len(slots) > 0,
		Slots:     slots,
	}
	if !options.Available {
		options.Message = NotAvailableMessage
	}

	return options, nil
}

// BookAppointment создаёт запись в статусе Pending.
// Время = дата + начало окна в настроенном часовом поясе
func (s *AppointmentService) BookAppointment(ctx context.Context, identity *model.Identity, in BookingInput) (*model.Appointment, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Book appointment form validation failed", zap.String("student", identity.Email), zap.Error(err))
		return nil, err
	}

	student, err := s.students.GetByUID(ctx, identity.UID)
	if err != nil {
		s.logger.Error("Error booking appointment", zap.Error(err))
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil || !student.Approved {
		s.logger.Warn("Booking rejected: student not approved", zap.String("student", identity.Email))
		return nil, ErrNotApproved
	}

	teacherEmail := normalizeEmail(in.Teacher)
	slot, err := s.findSlot(ctx, teacherEmail, in.Date, in.TimeSlot)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.logger.Warn("Book appointment form validation failed", zap.String("student", identity.Email), zap.Error(err))
		}
		return nil, err
	}

	at, err := time.ParseInLocation(dateLayout+" "+clockLayout, in.Date+" "+slot.StartTime, s.opts.Location)
	if err != nil {
		return nil, fieldError("time_slot", "invalid slot start")
	}
	if !at.After(s.now()) {
		err := fieldError("date", "appointment time is in the past")
		s.logger.Warn("Book appointment form validation failed", zap.String("student", identity.Email), zap.Error(err))
		return nil, err
	}

	appointment := &model.Appointment{
		StudentID:    identity.UID,
		StudentEmail: identity.Email,
		Teacher:      teacherEmail,
		Time:         at.UTC(),
		Message:      in.Message,
		Status:       model.AppointmentStatusPending,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn("Booking rejected: slot already taken",
				zap.String("teacher", teacherEmail),
				zap.Time("time", appointment.Time),
			)
			return nil, ErrSlotTaken
		}
		s.logger.Error("Error booking appointment", zap.Error(err))
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("student", identity.Email),
		zap.String("teacher", teacherEmail),
		zap.Time("time", appointment.Time),
	)

	if err := s.notifier.AppointmentBooked(ctx, appointment); err != nil {
		s.logger.Error("Failed to notify teacher about booking", zap.String("teacher", teacherEmail), zap.Error(err))
	}

	return appointment, nil
}

// findSlot проверяет, что выбранный слот есть среди окон учителя на этот день
func (s *AppointmentService) findSlot(ctx context.Context, teacherEmail, date, timeSlot string) (*model.Availability, error) {
	options, err := s.AvailableSlots(ctx, teacherEmail, date)
	if err != nil {
		return nil, err
	}

	for _, slot := range options.Slots {
		if slot.SlotValue() == strings.TrimSpace(timeSlot) {
			return slot, nil
		}
	}

	if !options.Available {
		return nil, fieldError("time_slot", NotAvailableMessage)
	}
	return nil, fieldError("time_slot", "not one of the teacher's slots for this day")
}

// ListStudentAppointments записи текущего студента
func (s *AppointmentService) ListStudentAppointments(ctx context.Context, identity *model.Identity) ([]*model.Appointment, error) {
	list, err := s.appointments.ListByStudent(ctx, identity.UID)
	if err != nil {
		s.logger.Error("Error loading appointments", zap.String("student", identity.Email), zap.Error(err))
		return nil, fmt.Errorf("list student appointments: %w", err)
	}
	return list, nil
}

// CancelStudentAppointment отмена студентом, только своей записи и только в статусе Pending
func (s *AppointmentService) CancelStudentAppointment(ctx context.Context, identity *model.Identity, id uuid.UUID) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Error cancelling appointment", zap.String("appointment_id", id.String()), zap.Error(err))
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return ErrNotFound
	}
	if appointment.StudentID != identity.UID {
		s.logger.Warn("Attempt to cancel foreign appointment",
			zap.String("appointment_id", id.String()),
			zap.String("student", identity.Email),
		)
		return ErrForbidden
	}
	if !appointment.IsPending() {
		return ErrInvalidTransition
	}

	if s.opts.CancelByStatus {
		err = s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCancelled)
	} else {
		err = s.appointments.DeletePending(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidTransition
		}
		s.logger.Error("Error cancelling appointment", zap.String("appointment_id", id.String()), zap.Error(err))
		return fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info("Student cancelled an appointment",
		zap.String("appointment_id", id.String()),
		zap.Bool("deleted", !s.opts.CancelByStatus),
	)

	appointment.Status = model.AppointmentStatusCancelled
	if err := s.notifier.AppointmentCancelled(ctx, appointment); err != nil {
		s.logger.Error("Failed to notify teacher about cancellation", zap.String("teacher", appointment.Teacher), zap.Error(err))
	}

	return nil
}

// ListTeacherAppointments заявки к текущему учителю
func (s *AppointmentService) ListTeacherAppointments(ctx context.Context, identity *model.Identity) ([]*model.Appointment, error) {
	list, err := s.appointments.ListByTeacher(ctx, normalizeEmail(identity.Email))
	if err != nil {
		s.logger.Error("Error loading appointment requests", zap.String("teacher", identity.Email), zap.Error(err))
		return nil, fmt.Errorf("list teacher appointments: %w", err)
	}
	return list, nil
}

// UpdateStatus ответ учителя: Pending -> Approved | Cancelled
func (s *AppointmentService) UpdateStatus(ctx context.Context, identity *model.Identity, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if status != model.AppointmentStatusApproved && status != model.AppointmentStatusCancelled {
		err := fieldError("status", "must be one of Approved, Cancelled")
		s.logger.Warn("Status update validation failed", zap.String("status", string(status)))
		return nil, err
	}

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Could not update appointment status", zap.String("appointment_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrNotFound
	}
	if appointment.Teacher != normalizeEmail(identity.Email) {
		s.logger.Warn("Attempt to respond to foreign appointment",
			zap.String("appointment_id", id.String()),
			zap.String("teacher", identity.Email),
		)
		return nil, ErrForbidden
	}
	if !appointment.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Could not update appointment status", zap.String("appointment_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now().UTC()

	s.logger.Info("Appointment status updated",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(status)),
	)

	if err := s.notifier.AppointmentStatusChanged(ctx, appointment); err != nil {
		s.logger.Error("Failed to notify student about status change", zap.String("student", appointment.StudentEmail), zap.Error(err))
	}

	return appointment, nil
}

// SendPendingDigest напоминает учителям о будущих заявках в статусе Pending
func (s *AppointmentService) SendPendingDigest(ctx context.Context) (int, error) {
	counts, err := s.appointments.CountPendingByTeacher(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("count pending appointments: %w", err)
	}

	sent := 0
	for teacher, count := range counts {
		if err := s.notifier.PendingDigest(ctx, teacher, count); err != nil {
			s.logger.Error("Failed to send pending digest", zap.String("teacher", teacher), zap.Error(err))
			continue
		}
		sent++
	}

	return sent, nil
}

// Location часовой пояс дат бронирования
func (s *AppointmentService) Location() *time.Location {
	return s.opts.Location
}

func (s *AppointmentService) parseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), s.opts.Location)
	if err != nil {
		return time.Time{}, fieldError("date", "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}
