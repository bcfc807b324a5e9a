package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/view"
)

// Рисует картинку недели на тестовых окнах, чтобы проверить вёрстку без базы
func main() {
	out := flag.String("out", "week.png", "output file")
	flag.Parse()

	now := time.Now().UTC()
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}

	windows := []*model.Availability{
		{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Monday", StartTime: "14:00", EndTime: "15:30"},
		{Day: "Tuesday", StartTime: "10:00", EndTime: "11:00"},
		{Day: "Tuesday", StartTime: "16:00", EndTime: "17:00"},
		{Day: "Wednesday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Friday", StartTime: "11:00", EndTime: "12:00"},
		{Day: "Friday", StartTime: "13:00", EndTime: "14:00"},
	}

	// записи на понедельник 14:00, среду 09:00 и пятницу 13:00
	appointments := []*model.Appointment{
		{Time: weekStart.Add(14 * time.Hour), Status: model.AppointmentStatusApproved},
		{Time: weekStart.AddDate(0, 0, 2).Add(9 * time.Hour), Status: model.AppointmentStatusPending},
		{Time: weekStart.AddDate(0, 0, 4).Add(13 * time.Hour), Status: model.AppointmentStatusCancelled},
	}

	imageData, err := view.WeekImage(weekStart, windows, appointments, time.UTC)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Неделя с %s\n", weekStart.Format("02.01.2006"))
	fmt.Printf("📊 Окон: %d, записей: %d\n", len(windows), len(appointments))
}
