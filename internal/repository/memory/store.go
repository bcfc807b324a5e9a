// Package memory реализует репозитории в памяти с теми же контрактами,
// что и PostgreSQL-репозитории. Используется в тестах и при STORAGE=memory
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/google/uuid"
)

// Store общее хранилище всех коллекций под одним мьютексом
type Store struct {
	mu sync.RWMutex

	teachers       []*model.Teacher
	students       []*model.Student
	availabilities []*model.Availability
	appointments   []*model.Appointment
	accounts       []*model.Account
	revoked        map[string]time.Time
	linkCodes      map[string]linkCode

	now func() time.Time
}

// linkCode одноразовый код привязки чата Telegram
type linkCode struct {
	chatID    int64
	expiresAt time.Time
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{
		revoked:   make(map[string]time.Time),
		linkCodes: make(map[string]linkCode),
		now:       time.Now,
	}
}

func (s *Store) Teachers() *TeacherRepository {
	return &TeacherRepository{s: s}
}

func (s *Store) Students() *StudentRepository {
	return &StudentRepository{s: s}
}

func (s *Store) Availabilities() *AvailabilityRepository {
	return &AvailabilityRepository{s: s}
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{s: s}
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{s: s}
}

func (s *Store) Tokens() *TokenRepository {
	return &TokenRepository{s: s}
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}

// removeAt удаляет элемент по индексу, сохраняя порядок
func removeAt[T any](items []T, i int) []T {
	return append(items[:i], items[i+1:]...)
}
