package telegram

import "github.com/go-telegram/bot/models"

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// decisionKeyboard кнопки ответа учителя на заявку
func decisionKeyboard(id string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("✅ Одобрить", ApproveAppointment+id),
			Button("❌ Отменить", CancelAppointment+id),
		).
		Build()
}

// confirmCancelKeyboard второй шаг отмены
func confirmCancelKeyboard(id string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("🗑 Да, отменить", ConfirmCancel+id),
			Button("↩️ Назад", KeepAppointment+id),
		).
		Build()
}
