package service

import (
	"context"

	"github.com/Freeeeeet/booking_portal/internal/model"
)

// Notifier доставляет уведомления участникам. Ошибки доставки не отменяют операцию
type Notifier interface {
	// AppointmentBooked уведомляет учителя о новой заявке
	AppointmentBooked(ctx context.Context, a *model.Appointment) error
	// AppointmentCancelled уведомляет учителя об отмене заявки студентом
	AppointmentCancelled(ctx context.Context, a *model.Appointment) error
	// AppointmentStatusChanged уведомляет студента о решении учителя
	AppointmentStatusChanged(ctx context.Context, a *model.Appointment) error
	// StudentApproved уведомляет студента об одобрении регистрации
	StudentApproved(ctx context.Context, s *model.Student) error
	// PendingDigest напоминает учителю о необработанных заявках
	PendingDigest(ctx context.Context, teacherEmail string, count int) error
}

type noopNotifier struct{}

func (noopNotifier) AppointmentBooked(context.Context, *model.Appointment) error        { return nil }
func (noopNotifier) AppointmentCancelled(context.Context, *model.Appointment) error     { return nil }
func (noopNotifier) AppointmentStatusChanged(context.Context, *model.Appointment) error { return nil }
func (noopNotifier) StudentApproved(context.Context, *model.Student) error              { return nil }
func (noopNotifier) PendingDigest(context.Context, string, int) error                   { return nil }

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
