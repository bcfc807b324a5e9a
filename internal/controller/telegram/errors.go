package telegram

import (
	"errors"

	"github.com/Freeeeeet/booking_portal/internal/service"
)

var (
	ErrChatNotLinked = errors.New("telegram chat is not linked to an account")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoMessage     = errors.New("no message in callback")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrChatNotLinked):
		return "❌ Чат не привязан к учётной записи. Используйте /start"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, service.ErrForbidden):
		return "❌ Нет доступа к этой записи"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ По заявке уже принято решение"
	case errors.Is(err, service.ErrSlotTaken):
		return "❌ Это время уже занято"
	case errors.Is(err, service.ErrNotApproved):
		return "❌ Регистрация ещё не одобрена администратором"
	default:
		return "❌ Произошла ошибка"
	}
}
