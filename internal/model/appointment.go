package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"   // Ожидает ответа учителя
	AppointmentStatusApproved  AppointmentStatus = "Approved"  // Одобрено учителем
	AppointmentStatusCancelled AppointmentStatus = "Cancelled" // Отменено
)

// Appointment запись студента к учителю.
// Teacher хранит email учителя и сравнивается строго на равенство
type Appointment struct {
	ID           uuid.UUID         `json:"id"`
	StudentID    uuid.UUID         `json:"student_id"`
	StudentEmail string            `json:"student_email"`
	Teacher      string            `json:"teacher"`
	Time         time.Time         `json:"time"`
	Message      string            `json:"message"`
	Status       AppointmentStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// IsPending проверяет, ожидает ли запись ответа
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// Valid проверяет что статус известен
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo разрешает только Pending -> Approved | Cancelled.
// Approved и Cancelled терминальные
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != AppointmentStatusPending {
		return false
	}
	return next == AppointmentStatusApproved || next == AppointmentStatusCancelled
}
