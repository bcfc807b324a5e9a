// Package notify доставляет уведомления портала по электронной почте
// и объединяет несколько каналов доставки
package notify

import "context"

// SendRequest письмо для внешнего провайдера
type SendRequest struct {
	To      []string
	From    string
	Subject string
	HTML    string
}

// Sender провайдер отправки писем
type Sender interface {
	Send(ctx context.Context, req SendRequest) (string, error)
}
