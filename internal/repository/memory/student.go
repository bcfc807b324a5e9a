package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
)

type StudentRepository struct {
	s *Store
}

func (r *StudentRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.students {
		if st.ID == id {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StudentRepository) GetByUID(_ context.Context, uid uuid.UUID) (*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.students {
		if st.UID == uid {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StudentRepository) ListPending(_ context.Context) ([]*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*model.Student
	for _, st := range r.s.students {
		if !st.Approved {
			cp := *st
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *StudentRepository) Approve(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.students {
		if st.ID == id && !st.Approved {
			st.Approved = true
			return nil
		}
	}
	return fmt.Errorf("approve student %s: %w", id, repository.ErrNotFound)
}

// Delete удаляет профиль и учётную запись студента
func (r *StudentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, st := range r.s.students {
		if st.ID != id {
			continue
		}
		r.s.students = removeAt(r.s.students, i)
		for j, a := range r.s.accounts {
			if a.UID == st.UID {
				r.s.accounts = removeAt(r.s.accounts, j)
				break
			}
		}
		return nil
	}
	return fmt.Errorf("delete student %s: %w", id, repository.ErrNotFound)
}
