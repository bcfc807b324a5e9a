package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
)

// StatusDisplay emoji и текст статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

func GetStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает решения"},
		model.AppointmentStatusApproved:  {"✅", "Одобрена"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

var weekdayShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// FormatDateTime "Пн 08.01.2024 09:00" в часовом поясе портала
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return fmt.Sprintf("%s %s", weekdayShort[t.Weekday()], t.Format("02.01.2006 15:04"))
}

// PluralizeRequests склонение слова "заявка"
func PluralizeRequests(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "заявка"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "заявки"
	}
	return "заявок"
}

// appointmentCard карточка заявки для учителя
func appointmentCard(a *model.Appointment, loc *time.Location) string {
	status := GetStatusDisplay(a.Status)

	var sb strings.Builder
	sb.WriteString("📬 Заявка на занятие\n\n")
	fmt.Fprintf(&sb, "👤 Студент: %s\n", a.StudentEmail)
	fmt.Fprintf(&sb, "🕐 Время: %s\n", FormatDateTime(a.Time, loc))
	if a.Message != "" {
		fmt.Fprintf(&sb, "💬 %s\n", a.Message)
	}
	fmt.Fprintf(&sb, "\n%s %s", status.Emoji, status.Text)
	return sb.String()
}

// studentLine строка в списке записей студента
func studentLine(a *model.Appointment, loc *time.Location) string {
	status := GetStatusDisplay(a.Status)
	return fmt.Sprintf("%s %s · %s · %s", status.Emoji, FormatDateTime(a.Time, loc), a.Teacher, status.Text)
}
