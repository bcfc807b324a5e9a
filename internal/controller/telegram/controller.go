// Package telegram бот портала: уведомления и ответы учителя на заявки кнопками
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// api методы бота, которыми пользуются обработчики
type api interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type handlerFunc func(ctx context.Context, b api, update *models.Update)

type Controller struct {
	bot          *bot.Bot
	auth         *service.AuthService
	appointments *service.AppointmentService
	loc          *time.Location
	logger       *zap.Logger
}

func NewController(
	botInstance *bot.Bot,
	auth *service.AuthService,
	appointments *service.AppointmentService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		bot:          botInstance,
		auth:         auth,
		appointments: appointments,
		loc:          appointments.Location(),
		logger:       logger,
	}
}

// RegisterHandlers регистрирует команды и обработчик inline кнопок
func (c *Controller) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.adapt(c.handleStart))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.adapt(c.handleHelp))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointments", bot.MatchTypeExact, c.adapt(c.handleAppointments))

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.adapt(c.handleCallback))

	return c.setCommands(ctx)
}

func (c *Controller) adapt(h handlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h(ctx, b, update)
	}
}

func (c *Controller) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Привязать чат к порталу"},
		{Command: "appointments", Description: "📅 Мои записи"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start блокирует до отмены контекста
func (c *Controller) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// accountFor учётная запись, привязанная к чату
func (c *Controller) accountFor(ctx context.Context, chatID int64) (*model.Account, error) {
	account, err := c.auth.AccountByTelegramChat(ctx, chatID)
	if errors.Is(err, service.ErrNotFound) {
		return nil, ErrChatNotLinked
	}
	return account, err
}

func (c *Controller) handleStart(ctx context.Context, b api, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	account, err := c.accountFor(ctx, chatID)
	switch {
	case err == nil:
		c.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"👋 С возвращением!\n\nЧат привязан к %s (%s).\nСписок записей: /appointments",
			account.Email, account.Role,
		))
	case errors.Is(err, ErrChatNotLinked):
		code, err := c.auth.IssueTelegramLinkCode(ctx, chatID)
		if err != nil {
			c.sendMessage(ctx, b, chatID, ErrorMessage(err))
			return
		}
		c.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"👋 Добро пожаловать в портал записи!\n\n"+
				"Код привязки: %s\n"+
				"Введите его в личном кабинете портала в течение %d минут, чтобы получать уведомления о записях.",
			code, int(service.TelegramLinkCodeTTL.Minutes()),
		))
	default:
		c.logger.Error("Failed to load account by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		c.sendMessage(ctx, b, chatID, ErrorMessage(err))
	}
}

func (c *Controller) handleHelp(ctx context.Context, b api, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.sendMessage(ctx, b, update.Message.Chat.ID,
		"📖 Команды\n\n"+
			"/start - код для привязки к порталу\n"+
			"/appointments - ваши записи; учителю приходят заявки с кнопками ответа")
}

// handleAppointments учителю присылает заявки карточками с кнопками, студенту список записей
func (c *Controller) handleAppointments(ctx context.Context, b api, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	account, err := c.accountFor(ctx, chatID)
	if err != nil {
		if !errors.Is(err, ErrChatNotLinked) {
			c.logger.Error("Failed to load account by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		c.sendMessage(ctx, b, chatID, ErrorMessage(err))
		return
	}

	identity := account.Identity()
	switch identity.Role {
	case model.RoleTeacher:
		c.sendTeacherAppointments(ctx, b, chatID, identity)
	case model.RoleStudent:
		c.sendStudentAppointments(ctx, b, chatID, identity)
	default:
		c.sendMessage(ctx, b, chatID, "ℹ️ Команда доступна учителям и студентам")
	}
}

func (c *Controller) sendTeacherAppointments(ctx context.Context, b api, chatID int64, identity *model.Identity) {
	list, err := c.appointments.ListTeacherAppointments(ctx, identity)
	if err != nil {
		c.sendMessage(ctx, b, chatID, ErrorMessage(err))
		return
	}

	var pending []*model.Appointment
	for _, a := range list {
		if a.IsPending() {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		c.sendMessage(ctx, b, chatID, "📭 Новых заявок нет")
		return
	}

	c.sendMessage(ctx, b, chatID, fmt.Sprintf("⏳ %d %s ожидают решения", len(pending), PluralizeRequests(len(pending))))
	for _, a := range pending {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        appointmentCard(a, c.loc),
			ReplyMarkup: decisionKeyboard(a.ID.String()),
		})
		if err != nil {
			c.logger.Error("Failed to send appointment card", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

func (c *Controller) sendStudentAppointments(ctx context.Context, b api, chatID int64, identity *model.Identity) {
	list, err := c.appointments.ListStudentAppointments(ctx, identity)
	if err != nil {
		c.sendMessage(ctx, b, chatID, ErrorMessage(err))
		return
	}
	if len(list) == 0 {
		c.sendMessage(ctx, b, chatID, "📭 У вас нет записей")
		return
	}

	lines := make([]string, 0, len(list)+1)
	lines = append(lines, "📅 Ваши записи\n")
	for _, a := range list {
		lines = append(lines, studentLine(a, c.loc))
	}
	c.sendMessage(ctx, b, chatID, strings.Join(lines, "\n"))
}

// sendMessage отправляет сообщение и логирует если не удалось
func (c *Controller) sendMessage(ctx context.Context, b api, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
