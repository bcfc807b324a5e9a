package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// AccountFinder поиск учётной записи получателя по email
type AccountFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

// Notifier доставляет события записей в привязанные чаты.
// Получатели без привязанного чата пропускаются
type Notifier struct {
	sender   messageSender
	accounts AccountFinder
	loc      *time.Location
	logger   *zap.Logger
}

func NewNotifier(sender messageSender, accounts AccountFinder, loc *time.Location, logger *zap.Logger) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		sender:   sender,
		accounts: accounts,
		loc:      loc,
		logger:   logger,
	}
}

func (n *Notifier) AppointmentBooked(ctx context.Context, a *model.Appointment) error {
	return n.send(ctx, a.Teacher, appointmentCard(a, n.loc), decisionKeyboard(a.ID.String()))
}

func (n *Notifier) AppointmentCancelled(ctx context.Context, a *model.Appointment) error {
	text := fmt.Sprintf("🚫 Студент %s отменил заявку на %s", a.StudentEmail, FormatDateTime(a.Time, n.loc))
	return n.send(ctx, a.Teacher, text, nil)
}

func (n *Notifier) AppointmentStatusChanged(ctx context.Context, a *model.Appointment) error {
	var text string
	switch a.Status {
	case model.AppointmentStatusApproved:
		text = fmt.Sprintf("✅ Запись одобрена!\n\nЗанятие с %s %s подтверждено.", a.Teacher, FormatDateTime(a.Time, n.loc))
	case model.AppointmentStatusCancelled:
		text = fmt.Sprintf("❌ Запись отменена\n\nК сожалению, %s отменил запись на %s.\nПопробуйте выбрать другое время.", a.Teacher, FormatDateTime(a.Time, n.loc))
	default:
		return nil
	}
	return n.send(ctx, a.StudentEmail, text, nil)
}

func (n *Notifier) StudentApproved(ctx context.Context, s *model.Student) error {
	text := fmt.Sprintf("🎉 %s, ваша регистрация одобрена!\n\nТеперь можно записываться к учителям.", s.Name)
	return n.send(ctx, s.Email, text, nil)
}

func (n *Notifier) PendingDigest(ctx context.Context, teacherEmail string, count int) error {
	text := fmt.Sprintf("⏳ У вас %d %s без ответа.\nПосмотреть: /appointments", count, PluralizeRequests(count))
	return n.send(ctx, teacherEmail, text, nil)
}

func (n *Notifier) send(ctx context.Context, email, text string, markup *models.InlineKeyboardMarkup) error {
	account, err := n.accounts.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find recipient: %w", err)
	}
	if account == nil || account.TelegramChatID == nil {
		n.logger.Debug("Recipient has no linked telegram chat", zap.String("email", email))
		return nil
	}

	params := &bot.SendMessageParams{
		ChatID: *account.TelegramChatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := n.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
