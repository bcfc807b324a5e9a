package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
)

type AppointmentRepository struct {
	s *Store
}

// Create повторяет частичный уникальный индекс (teacher, time) WHERE status <> 'Cancelled'
func (r *AppointmentRepository) Create(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.appointments {
		if existing.Teacher == a.Teacher &&
			existing.Time.Equal(a.Time) &&
			existing.Status != model.AppointmentStatusCancelled {
			return fmt.Errorf("create appointment: %w", repository.ErrConflict)
		}
	}

	now := r.s.now()
	a.ID = newID(a.ID)
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	r.s.appointments = append(r.s.appointments, &cp)
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.appointments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AppointmentRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*model.Appointment, error) {
	return r.filter(func(a *model.Appointment) bool {
		return a.StudentID == studentID
	}), nil
}

func (r *AppointmentRepository) ListByTeacher(_ context.Context, teacherEmail string) ([]*model.Appointment, error) {
	return r.filter(func(a *model.Appointment) bool {
		return a.Teacher == teacherEmail
	}), nil
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.appointments {
		if a.ID == id && a.IsPending() {
			a.Status = status
			a.UpdatedAt = r.s.now()
			return nil
		}
	}
	return fmt.Errorf("update appointment status %s: %w", id, repository.ErrNotFound)
}

func (r *AppointmentRepository) DeletePending(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, a := range r.s.appointments {
		if a.ID == id && a.IsPending() {
			r.s.appointments = removeAt(r.s.appointments, i)
			return nil
		}
	}
	return fmt.Errorf("delete appointment %s: %w", id, repository.ErrNotFound)
}

func (r *AppointmentRepository) CountPendingByTeacher(_ context.Context, after time.Time) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int)
	for _, a := range r.s.appointments {
		if a.IsPending() && a.Time.After(after) {
			counts[a.Teacher]++
		}
	}
	return counts, nil
}

func (r *AppointmentRepository) filter(match func(*model.Appointment) bool) []*model.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*model.Appointment
	for _, a := range r.s.appointments {
		if match(a) {
			cp := *a
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})
	return result
}
