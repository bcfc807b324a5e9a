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

// TeacherInput форма добавления учителя
type TeacherInput struct {
	Name       string `json:"name" validate:"notblank"`
	Department string `json:"department" validate:"notblank"`
	Subject    string `json:"subject" validate:"notblank"`
	Email      string `json:"email" validate:"notblank,email"`
}

// TeacherUpdateInput форма редактирования; email не меняется
type TeacherUpdateInput struct {
	Name       string `json:"name" validate:"notblank"`
	Department string `json:"department" validate:"notblank"`
	Subject    string `json:"subject" validate:"notblank"`
}

// DirectoryService справочник учителей (администратор)
type DirectoryService struct {
	teachers TeacherStore
	logger   *zap.Logger
}

func NewDirectoryService(teachers TeacherStore, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		teachers: teachers,
		logger:   logger,
	}
}

// AddTeacher добавляет учителя; пустое поле -> WARN и без записи
func (s *DirectoryService) AddTeacher(ctx context.Context, in TeacherInput) (*model.Teacher, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Add teacher validation failed: all fields required", zap.Error(err))
		return nil, err
	}

	teacher := &model.Teacher{
		Name:       in.Name,
		Department: in.Department,
		Subject:    in.Subject,
		Email:      normalizeEmail(in.Email),
	}

	if err := s.teachers.Create(ctx, teacher); err != nil {
		s.logger.Error("Error adding teacher", zap.Error(err))
		return nil, fmt.Errorf("create teacher: %w", err)
	}

	s.logger.Info("Teacher added",
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("email", teacher.Email),
	)

	return teacher, nil
}

// ListTeachers все учителя в порядке добавления
func (s *DirectoryService) ListTeachers(ctx context.Context) ([]*model.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		s.logger.Error("Error loading teachers", zap.Error(err))
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// GetTeacher получает учителя для формы редактирования
func (s *DirectoryService) GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Error loading teacher", zap.String("teacher_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	if teacher == nil {
		s.logger.Error("Could not find teacher for editing", zap.String("teacher_id", id.String()))
		return nil, ErrNotFound
	}

	return teacher, nil
}

// UpdateTeacher перезаписывает имя, кафедру и предмет
func (s *DirectoryService) UpdateTeacher(ctx context.Context, id uuid.UUID, in TeacherUpdateInput) (*model.Teacher, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Update teacher validation failed: all fields required",
			zap.String("teacher_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	teacher := &model.Teacher{
		ID:         id,
		Name:       in.Name,
		Department: in.Department,
		Subject:    in.Subject,
	}

	if err := s.teachers.Update(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Could not find teacher for update", zap.String("teacher_id", id.String()))
			return nil, ErrNotFound
		}
		s.logger.Error("Error updating teacher", zap.String("teacher_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("update teacher: %w", err)
	}

	s.logger.Info("Teacher updated", zap.String("teacher_id", id.String()))

	return s.GetTeacher(ctx, id)
}

// DeleteTeacher удаляет учителя. Подтверждение проверяет транспорт
func (s *DirectoryService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	if err := s.teachers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("Error deleting teacher", zap.String("teacher_id", id.String()), zap.Error(err))
		return fmt.Errorf("delete teacher: %w", err)
	}

	s.logger.Info("Teacher deleted", zap.String("teacher_id", id.String()))
	return nil
}
