package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityInput форма добавления окна
type AvailabilityInput struct {
	Day       string `json:"day" validate:"notblank,weekday"`
	StartTime string `json:"start_time" validate:"notblank,clock"`
	EndTime   string `json:"end_time" validate:"notblank,clock"`
}

// AvailabilityService еженедельные окна учителя
type AvailabilityService struct {
	availabilities AvailabilityStore
	logger         *zap.Logger
}

func NewAvailabilityService(availabilities AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		availabilities: availabilities,
		logger:         logger,
	}
}

// AddAvailability добавляет окно. Окна одного дня не пересекаются
func (s *AvailabilityService) AddAvailability(ctx context.Context, teacherEmail string, in AvailabilityInput) (*model.Availability, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Add availability form validation failed", zap.String("teacher", teacherEmail), zap.Error(err))
		return nil, err
	}

	start, end := canonicalClock(in.StartTime), canonicalClock(in.EndTime)
	if start >= end {
		err := fieldError("end_time", "must be after start_time")
		s.logger.Warn("Add availability form validation failed", zap.String("teacher", teacherEmail), zap.Error(err))
		return nil, err
	}

	teacherEmail = normalizeEmail(teacherEmail)
	availability := &model.Availability{
		TeacherEmail: teacherEmail,
		Day:          in.Day,
		StartTime:    start,
		EndTime:      end,
	}

	// пересечение проверяет хранилище атомарно со вставкой; HH:MM сравниваются как строки
	if err := s.availabilities.Create(ctx, availability); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn("Availability overlaps existing window",
				zap.String("teacher", teacherEmail),
				zap.String("day", in.Day),
				zap.String("start", start),
				zap.Error(err),
			)
			return nil, ErrAvailabilityOverlap
		}
		s.logger.Error("Could not add availability slot", zap.Error(err))
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("Availability slot added",
		zap.String("teacher", teacherEmail),
		zap.String("day", in.Day),
		zap.String("start", start),
	)

	return availability, nil
}

// ListAvailability все окна учителя
func (s *AvailabilityService) ListAvailability(ctx context.Context, teacherEmail string) ([]*model.Availability, error) {
	list, err := s.availabilities.ListByTeacher(ctx, normalizeEmail(teacherEmail))
	if err != nil {
		s.logger.Error("Error loading availability", zap.Error(err))
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return list, nil
}

// DeleteAvailability удаляет окно; удалить может только владелец
func (s *AvailabilityService) DeleteAvailability(ctx context.Context, teacherEmail string, id uuid.UUID) error {
	availability, err := s.availabilities.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Could not remove availability slot", zap.String("availability_id", id.String()), zap.Error(err))
		return fmt.Errorf("get availability: %w", err)
	}
	if availability == nil {
		return ErrNotFound
	}
	if availability.TeacherEmail != normalizeEmail(teacherEmail) {
		s.logger.Warn("Attempt to remove foreign availability slot",
			zap.String("availability_id", id.String()),
			zap.String("teacher", teacherEmail),
		)
		return ErrForbidden
	}

	if err := s.availabilities.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("Could not remove availability slot", zap.String("availability_id", id.String()), zap.Error(err))
		return fmt.Errorf("delete availability: %w", err)
	}

	s.logger.Info("Availability slot removed", zap.String("availability_id", id.String()))
	return nil
}

// canonicalClock приводит "9:00" к "09:00"; вход уже прошёл валидацию
func canonicalClock(v string) string {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return v
	}
	return t.Format(clockLayout)
}
