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

const availabilityColumns = `id, teacher_email, day, start_time, end_time, created_at`

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет окно доступности. Пересечение с окном того же дня даёт ErrConflict.
// Проверка и вставка идут под advisory-локом на пару (учитель, день)
func (r *AvailabilityRepository) Create(ctx context.Context, a *model.Availability) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`, a.TeacherEmail, a.Day); err != nil {
			return fmt.Errorf("lock availability day: %w", err)
		}

		var overlapping uuid.UUID
		err := tx.QueryRow(ctx, `
			SELECT id FROM availabilities
			WHERE teacher_email = $1 AND day = $2 AND start_time < $4 AND $3 < end_time
			LIMIT 1
		`, a.TeacherEmail, a.Day, a.StartTime, a.EndTime).Scan(&overlapping)
		switch {
		case err == nil:
			return fmt.Errorf("create availability: overlaps %s: %w", overlapping, ErrConflict)
		case !base.IsNotFound(err):
			return fmt.Errorf("check availability overlap: %w", err)
		}

		query := `
			INSERT INTO availabilities (id, teacher_email, day, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, query, a.ID, a.TeacherEmail, a.Day, a.StartTime, a.EndTime).Scan(&a.CreatedAt); err != nil {
			return fmt.Errorf("create availability: %w", err)
		}
		return nil
	})
}

// GetByID получает окно по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = $1`

	a, err := scanAvailability(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability by id: %w", err)
	}

	return a, nil
}

// ListByTeacher получает все окна преподавателя
func (r *AvailabilityRepository) ListByTeacher(ctx context.Context, teacherEmail string) ([]*model.Availability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availabilities
		WHERE teacher_email = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, query, teacherEmail)
}

// ListByTeacherAndDay получает окна преподавателя на день недели
func (r *AvailabilityRepository) ListByTeacherAndDay(ctx context.Context, teacherEmail, day string) ([]*model.Availability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availabilities
		WHERE teacher_email = $1 AND day = $2
		ORDER BY start_time, id
	`
	return r.list(ctx, query, teacherEmail, day)
}

// Delete удаляет окно
func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete availability %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *AvailabilityRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Availability, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	defer rows.Close()

	var result []*model.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availabilities: %w", err)
	}

	return result, nil
}

func scanAvailability(row pgx.Row) (*model.Availability, error) {
	var a model.Availability
	err := row.Scan(&a.ID, &a.TeacherEmail, &a.Day, &a.StartTime, &a.EndTime, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
