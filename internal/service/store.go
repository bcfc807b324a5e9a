package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/google/uuid"
)

// Хранилища реализуются пакетами repository (PostgreSQL) и repository/memory.
// Get* возвращают nil, nil если запись не найдена

type TeacherStore interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	List(ctx context.Context) ([]*model.Teacher, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*model.Student, error)
	ListPending(ctx context.Context) ([]*model.Student, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AvailabilityStore interface {
	// Create возвращает repository.ErrConflict при пересечении с окном того же дня
	Create(ctx context.Context, a *model.Availability) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Availability, error)
	ListByTeacher(ctx context.Context, teacherEmail string) ([]*model.Availability, error)
	ListByTeacherAndDay(ctx context.Context, teacherEmail, day string) ([]*model.Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Appointment, error)
	ListByTeacher(ctx context.Context, teacherEmail string) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	DeletePending(ctx context.Context, id uuid.UUID) error
	CountPendingByTeacher(ctx context.Context, after time.Time) (map[string]int, error)
}

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	CreateStudentAccount(ctx context.Context, account *model.Account, student *model.Student) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*model.Account, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.Account, error)
	SetTelegramChatID(ctx context.Context, uid uuid.UUID, chatID int64) error
}

type TokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	SaveLinkCode(ctx context.Context, code string, chatID int64, expiresAt time.Time) error
	ConsumeLinkCode(ctx context.Context, code string, now time.Time) (int64, error)
}

// Stores набор хранилищ, из которых собираются сервисы
type Stores struct {
	Teachers       TeacherStore
	Students       StudentStore
	Availabilities AvailabilityStore
	Appointments   AppointmentStore
	Accounts       AccountStore
	Tokens         TokenStore
}
