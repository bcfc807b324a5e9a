package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender отправляет письма через Resend API
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send отправляет одно письмо и возвращает ID сообщения у Resend
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (string, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	})
	if err != nil {
		s.logger.Error("Resend send failed", zap.Strings("to", req.To), zap.String("subject", req.Subject), zap.Error(err))
		return "", fmt.Errorf("resend send: %w", err)
	}

	s.logger.Info("Email sent", zap.String("message_id", sent.Id), zap.Strings("to", req.To), zap.String("subject", req.Subject))
	return sent.Id, nil
}

// NoopSender только пишет в журнал; используется без RESEND_API_KEY
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(_ context.Context, req SendRequest) (string, error) {
	s.logger.Debug("Email delivery disabled", zap.Strings("to", req.To), zap.String("subject", req.Subject))
	return "", nil
}
