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

const teacherColumns = `id, name, department, subject, email, created_at`

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт карточку преподавателя
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}

	query := `
		INSERT INTO teachers (id, name, department, subject, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query,
		teacher.ID,
		teacher.Name,
		teacher.Department,
		teacher.Subject,
		teacher.Email,
	).Scan(&teacher.CreatedAt)
	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

// GetByID получает преподавателя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`

	teacher, err := scanTeacher(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return teacher, nil
}

// List получает всех преподавателей в порядке добавления
func (r *TeacherRepository) List(ctx context.Context) ([]*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY created_at, id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, nil
}

// Update перезаписывает имя, кафедру и предмет
func (r *TeacherRepository) Update(ctx context.Context, teacher *model.Teacher) error {
	query := `
		UPDATE teachers
		SET name = $2, department = $3, subject = $4
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, teacher.ID, teacher.Name, teacher.Department, teacher.Subject)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update teacher %s: %w", teacher.ID, ErrNotFound)
	}

	return nil
}

// Delete удаляет преподавателя
func (r *TeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete teacher %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	var t model.Teacher
	err := row.Scan(&t.ID, &t.Name, &t.Department, &t.Subject, &t.Email, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
