package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
)

type AvailabilityRepository struct {
	s *Store
}

func (r *AvailabilityRepository) Create(_ context.Context, a *model.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.availabilities {
		if other.TeacherEmail == a.TeacherEmail && other.Day == a.Day &&
			a.StartTime < other.EndTime && other.StartTime < a.EndTime {
			return fmt.Errorf("create availability: overlaps %s: %w", other.ID, repository.ErrConflict)
		}
	}

	a.ID = newID(a.ID)
	a.CreatedAt = r.s.now()
	cp := *a
	r.s.availabilities = append(r.s.availabilities, &cp)
	return nil
}

func (r *AvailabilityRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Availability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.availabilities {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AvailabilityRepository) ListByTeacher(_ context.Context, teacherEmail string) ([]*model.Availability, error) {
	return r.filter(func(a *model.Availability) bool {
		return a.TeacherEmail == teacherEmail
	}), nil
}

func (r *AvailabilityRepository) ListByTeacherAndDay(_ context.Context, teacherEmail, day string) ([]*model.Availability, error) {
	result := r.filter(func(a *model.Availability) bool {
		return a.TeacherEmail == teacherEmail && a.Day == day
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (r *AvailabilityRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, a := range r.s.availabilities {
		if a.ID == id {
			r.s.availabilities = removeAt(r.s.availabilities, i)
			return nil
		}
	}
	return fmt.Errorf("delete availability %s: %w", id, repository.ErrNotFound)
}

func (r *AvailabilityRepository) filter(match func(*model.Availability) bool) []*model.Availability {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*model.Availability
	for _, a := range r.s.availabilities {
		if match(a) {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result
}
