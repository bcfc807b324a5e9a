package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("permission denied")
	ErrInvalidTransition   = errors.New("appointment is no longer pending")
	ErrSlotTaken           = errors.New("time slot is already booked")
	ErrAvailabilityOverlap = errors.New("availability overlaps an existing window")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrNotApproved         = errors.New("registration is not approved yet")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnauthenticated     = errors.New("not authenticated")
)

// FieldError ошибка одного поля формы
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError отказ в записи из-за незаполненных или неверных полей
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldMap ошибки в виде {поле: сообщение}
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Error
	}
	return m
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: msg}}}
}

// IsValidationError проверяет, что err это *ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
