package telegram

import (
	"context"
	"strings"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Callback data: префикс + id записи
const (
	ApproveAppointment = "approve_appt:"
	CancelAppointment  = "cancel_appt:"
	ConfirmCancel      = "confirm_cancel:"
	KeepAppointment    = "keep_appt:"
)

func parseCallback(data string) (string, uuid.UUID, error) {
	i := strings.IndexByte(data, ':')
	if i < 0 {
		return "", uuid.Nil, ErrInvalidFormat
	}
	id, err := uuid.Parse(data[i+1:])
	if err != nil {
		return "", uuid.Nil, ErrInvalidFormat
	}
	return data[:i+1], id, nil
}

func callbackMessage(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// handleCallback ответы учителя на заявку. Отмена требует второго нажатия
func (c *Controller) handleCallback(ctx context.Context, b api, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	c.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	action, id, err := parseCallback(callback.Data)
	if err != nil {
		c.answerAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	msg := callbackMessage(callback)
	if msg == nil {
		c.answerAlert(ctx, b, callback.ID, ErrorMessage(ErrNoMessage))
		return
	}

	account, err := c.accountFor(ctx, msg.Chat.ID)
	if err != nil {
		c.answerAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}
	identity := account.Identity()
	if !identity.Is(model.RoleTeacher) {
		c.answerAlert(ctx, b, callback.ID, "❌ Эта функция доступна только учителям")
		return
	}

	switch action {
	case ApproveAppointment:
		c.decide(ctx, b, callback, msg, identity, id, model.AppointmentStatusApproved)
	case ConfirmCancel:
		c.decide(ctx, b, callback, msg, identity, id, model.AppointmentStatusCancelled)
	case CancelAppointment:
		c.swapKeyboard(ctx, b, msg, confirmCancelKeyboard(id.String()))
		c.answer(ctx, b, callback.ID, "Подтвердите отмену записи")
	case KeepAppointment:
		c.swapKeyboard(ctx, b, msg, decisionKeyboard(id.String()))
		c.answer(ctx, b, callback.ID, "")
	default:
		c.answerAlert(ctx, b, callback.ID, ErrorMessage(ErrInvalidFormat))
	}
}

func (c *Controller) decide(
	ctx context.Context,
	b api,
	callback *models.CallbackQuery,
	msg *models.Message,
	identity *model.Identity,
	id uuid.UUID,
	status model.AppointmentStatus,
) {
	appointment, err := c.appointments.UpdateStatus(ctx, identity, id, status)
	if err != nil {
		c.logger.Warn("Failed to update appointment from telegram",
			zap.String("appointment_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		c.answerAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	display := GetStatusDisplay(status)
	c.answerAlert(ctx, b, callback.ID, display.Emoji+" Запись "+strings.ToLower(display.Text))

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      appointmentCard(appointment, c.loc),
	})
	if err != nil {
		c.logger.Error("Failed to edit appointment card", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (c *Controller) swapKeyboard(ctx context.Context, b api, msg *models.Message, markup *models.InlineKeyboardMarkup) {
	_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		ReplyMarkup: markup,
	})
	if err != nil {
		c.logger.Error("Failed to edit keyboard", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (c *Controller) answer(ctx context.Context, b api, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// answerAlert отвечает всплывающим окном
func (c *Controller) answerAlert(ctx context.Context, b api, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}
