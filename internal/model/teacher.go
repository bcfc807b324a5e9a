package model

import (
	"time"

	"github.com/google/uuid"
)

// Teacher запись справочника учителей. Ведётся администратором,
// с учётной записью связана только по email
type Teacher struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Subject    string    `json:"subject"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}
