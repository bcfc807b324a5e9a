package model

import (
	"time"

	"github.com/google/uuid"
)

// Student профиль студента, создаётся при регистрации с Approved=false
type Student struct {
	ID        uuid.UUID `json:"id"`
	UID       uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
