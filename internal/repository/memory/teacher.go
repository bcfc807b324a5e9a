package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
)

type TeacherRepository struct {
	s *Store
}

func (r *TeacherRepository) Create(_ context.Context, teacher *model.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	teacher.ID = newID(teacher.ID)
	teacher.CreatedAt = r.s.now()
	cp := *teacher
	r.s.teachers = append(r.s.teachers, &cp)
	return nil
}

func (r *TeacherRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.teachers {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *TeacherRepository) List(_ context.Context) ([]*model.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*model.Teacher
	for _, t := range r.s.teachers {
		cp := *t
		result = append(result, &cp)
	}
	return result, nil
}

func (r *TeacherRepository) Update(_ context.Context, teacher *model.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.teachers {
		if t.ID == teacher.ID {
			t.Name = teacher.Name
			t.Department = teacher.Department
			t.Subject = teacher.Subject
			return nil
		}
	}
	return fmt.Errorf("update teacher %s: %w", teacher.ID, repository.ErrNotFound)
}

func (r *TeacherRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, t := range r.s.teachers {
		if t.ID == id {
			r.s.teachers = removeAt(r.s.teachers, i)
			return nil
		}
	}
	return fmt.Errorf("delete teacher %s: %w", id, repository.ErrNotFound)
}
