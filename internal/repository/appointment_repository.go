package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, student_id, student_email, teacher, time, message, status, created_at, updated_at`

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт запись. Занятый (teacher, time) среди неотменённых записей -> ErrConflict
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO appointments (id, student_id, student_email, teacher, time, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		a.ID,
		a.StudentID,
		a.StudentEmail,
		a.Teacher,
		a.Time,
		a.Message,
		a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create appointment: %w", ErrConflict)
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// ListByStudent получает записи студента
func (r *AppointmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE student_id = $1
		ORDER BY time, id
	`
	return r.list(ctx, query, studentID)
}

// ListByTeacher получает заявки к учителю
func (r *AppointmentRepository) ListByTeacher(ctx context.Context, teacherEmail string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE teacher = $1
		ORDER BY time, id
	`
	return r.list(ctx, query, teacherEmail)
}

// UpdateStatus переводит запись из Pending в новый статус.
// Если записи нет или она уже не Pending -> ErrNotFound
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	affected, err := r.ExecAffected(ctx, query, id, status, model.AppointmentStatusPending)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update appointment status %s: %w", id, ErrNotFound)
	}

	return nil
}

// DeletePending удаляет запись, пока она в статусе Pending
func (r *AppointmentRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1 AND status = $2`

	affected, err := r.ExecAffected(ctx, query, id, model.AppointmentStatusPending)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete appointment %s: %w", id, ErrNotFound)
	}

	return nil
}

// CountPendingByTeacher считает ожидающие заявки с будущим временем по учителям
func (r *AppointmentRepository) CountPendingByTeacher(ctx context.Context, after time.Time) (map[string]int, error) {
	query := `
		SELECT teacher, COUNT(*)
		FROM appointments
		WHERE status = $1 AND time > $2
		GROUP BY teacher
	`

	rows, err := r.Query(ctx, query, model.AppointmentStatusPending, after)
	if err != nil {
		return nil, fmt.Errorf("count pending appointments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var teacher string
		var count int
		if err := rows.Scan(&teacher, &count); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts[teacher] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending counts: %w", err)
	}

	return counts, nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var result []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return result, nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&a.StudentEmail,
		&a.Teacher,
		&a.Time,
		&a.Message,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
