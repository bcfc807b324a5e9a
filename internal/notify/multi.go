package notify

import (
	"context"
	"errors"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/service"
)

// Multi рассылает событие во все каналы; ошибки каналов объединяются
type Multi []service.Notifier

var _ service.Notifier = Multi(nil)

func (m Multi) each(fn func(service.Notifier) error) error {
	var errs []error
	for _, n := range m {
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) AppointmentBooked(ctx context.Context, a *model.Appointment) error {
	return m.each(func(n service.Notifier) error { return n.AppointmentBooked(ctx, a) })
}

func (m Multi) AppointmentCancelled(ctx context.Context, a *model.Appointment) error {
	return m.each(func(n service.Notifier) error { return n.AppointmentCancelled(ctx, a) })
}

func (m Multi) AppointmentStatusChanged(ctx context.Context, a *model.Appointment) error {
	return m.each(func(n service.Notifier) error { return n.AppointmentStatusChanged(ctx, a) })
}

func (m Multi) StudentApproved(ctx context.Context, s *model.Student) error {
	return m.each(func(n service.Notifier) error { return n.StudentApproved(ctx, s) })
}

func (m Multi) PendingDigest(ctx context.Context, teacherEmail string, count int) error {
	return m.each(func(n service.Notifier) error { return n.PendingDigest(ctx, teacherEmail, count) })
}
