package repository

import "errors"

var (
	// ErrNotFound запись не найдена или не в нужном состоянии
	ErrNotFound = errors.New("record not found")
	// ErrConflict нарушение уникальности
	ErrConflict = errors.New("record conflict")
)
