package model

import (
	"time"

	"github.com/google/uuid"
)

// Availability еженедельное окно учителя: день недели + время начала и конца.
// Не редактируется на месте: удаление и создание заново
type Availability struct {
	ID           uuid.UUID `json:"id"`
	TeacherEmail string    `json:"teacher_email"`
	Day          string    `json:"day"`        // "Monday" ... "Sunday"
	StartTime    string    `json:"start_time"` // HH:MM
	EndTime      string    `json:"end_time"`   // HH:MM
	CreatedAt    time.Time `json:"created_at"`
}

// Weekdays названия дней недели в порядке time.Weekday
var Weekdays = []string{
	time.Sunday.String(),
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
}

// ParseWeekday переводит название дня в time.Weekday
func ParseWeekday(day string) (time.Weekday, bool) {
	for i, name := range Weekdays {
		if name == day {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

// SlotValue значение опции в селекторе времени ("09:00-10:00")
func (a *Availability) SlotValue() string {
	return a.StartTime + "-" + a.EndTime
}

// SlotLabel подпись опции ("09:00 - 10:00")
func (a *Availability) SlotLabel() string {
	return a.StartTime + " - " + a.EndTime
}
