package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid проверяет что роль известна
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// LandingPage страница, на которую попадает пользователь после входа
func (r Role) LandingPage() string {
	switch r {
	case RoleTeacher:
		return "teacher.html"
	case RoleAdmin:
		return "admin.html"
	default:
		return "dashboard.html"
	}
}

// Account учётная запись провайдера идентификации
type Account struct {
	UID            uuid.UUID `json:"uid"`
	Email          string    `json:"email"`
	PasswordHash   []byte    `json:"-"`
	Role           Role      `json:"role"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SetPassword хэширует пароль bcrypt
func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword сверяет пароль с хэшем
func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// Identity возвращает личность для контекста запроса
func (a *Account) Identity() *Identity {
	return &Identity{UID: a.UID, Email: a.Email, Role: a.Role}
}

// Identity проверенная личность текущего запроса
type Identity struct {
	UID   uuid.UUID `json:"uid"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Is проверяет роль
func (i *Identity) Is(role Role) bool {
	return i != nil && i.Role == role
}
