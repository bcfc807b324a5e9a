package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, uid, email, name, approved, created_at`

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает профиль студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// GetByUID получает профиль студента по идентификатору учётной записи
func (r *StudentRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE uid = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, uid))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by uid: %w", err)
	}

	return student, nil
}

// ListPending получает студентов, ожидающих одобрения
func (r *StudentRepository) ListPending(ctx context.Context) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE approved = false ORDER BY created_at, id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

// Approve переводит approved в true; флаг никогда не возвращается в false
func (r *StudentRepository) Approve(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE students SET approved = true WHERE id = $1 AND approved = false`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("approve student: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("approve student %s: %w", id, ErrNotFound)
	}

	return nil
}

// Delete удаляет регистрацию вместе с учётной записью (профиль уходит каскадом)
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE uid = (SELECT uid FROM students WHERE id = $1)`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete student %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.UID, &s.Email, &s.Name, &s.Approved, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
