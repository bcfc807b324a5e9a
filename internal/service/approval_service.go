package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService очередь регистраций студентов
type ApprovalService struct {
	students StudentStore
	notifier Notifier
	logger   *zap.Logger
}

func NewApprovalService(students StudentStore, notifier Notifier, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		students: students,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

// ListPendingStudents студенты с approved=false
func (s *ApprovalService) ListPendingStudents(ctx context.Context) ([]*model.Student, error) {
	students, err := s.students.ListPending(ctx)
	if err != nil {
		s.logger.Error("Error loading pending students", zap.Error(err))
		return nil, fmt.Errorf("list pending students: %w", err)
	}
	return students, nil
}

// ApproveStudent переводит approved в true. Повторное одобрение ничего не меняет
func (s *ApprovalService) ApproveStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Error approving student", zap.String("student_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}
	if student.Approved {
		return student, nil
	}

	if err := s.students.Approve(ctx, id); err != nil {
		// параллельное одобрение уже перевело флаг
		if errors.Is(err, repository.ErrNotFound) {
			student.Approved = true
			return student, nil
		}
		s.logger.Error("Error approving student", zap.String("student_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("approve student: %w", err)
	}
	student.Approved = true

	s.logger.Info("Student approved",
		zap.String("student_id", id.String()),
		zap.String("email", student.Email),
	)

	if err := s.notifier.StudentApproved(ctx, student); err != nil {
		s.logger.Error("Failed to notify student about approval", zap.String("email", student.Email), zap.Error(err))
	}

	return student, nil
}

// DeleteStudent отклоняет регистрацию: профиль и учётная запись удаляются
func (s *ApprovalService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Student not found", zap.String("student_id", id.String()))
			return ErrNotFound
		}
		s.logger.Error("Error deleting student", zap.String("student_id", id.String()), zap.Error(err))
		return fmt.Errorf("delete student: %w", err)
	}

	s.logger.Info("Student deleted", zap.String("student_id", id.String()))
	return nil
}
