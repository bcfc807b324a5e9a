package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/yuin/goldmark"
)

// EmailNotifier пишет участникам записи на их email
type EmailNotifier struct {
	sender Sender
	loc    *time.Location
	md     goldmark.Markdown
}

func NewEmailNotifier(sender Sender, loc *time.Location) *EmailNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &EmailNotifier{
		sender: sender,
		loc:    loc,
		md:     goldmark.New(),
	}
}

func (n *EmailNotifier) AppointmentBooked(ctx context.Context, a *model.Appointment) error {
	body := fmt.Sprintf("## New appointment request\n\n**%s** asked for **%s**.\n\n> %s\n\nOpen your teacher dashboard to approve or cancel it.",
		escape(a.StudentEmail), n.when(a), quote(a.Message))
	return n.send(ctx, a.Teacher, "New appointment request", body)
}

func (n *EmailNotifier) AppointmentCancelled(ctx context.Context, a *model.Appointment) error {
	body := fmt.Sprintf("## Appointment cancelled\n\n**%s** cancelled the request for **%s**.", escape(a.StudentEmail), n.when(a))
	return n.send(ctx, a.Teacher, "Appointment cancelled", body)
}

func (n *EmailNotifier) AppointmentStatusChanged(ctx context.Context, a *model.Appointment) error {
	body := fmt.Sprintf("## Appointment %s\n\nYour appointment with **%s** on **%s** is now **%s**.",
		strings.ToLower(string(a.Status)), escape(a.Teacher), n.when(a), a.Status)
	return n.send(ctx, a.StudentEmail, "Appointment "+strings.ToLower(string(a.Status)), body)
}

func (n *EmailNotifier) StudentApproved(ctx context.Context, s *model.Student) error {
	body := fmt.Sprintf("## Welcome, %s\n\nYour registration has been approved. You can now book appointments.", escape(s.Name))
	return n.send(ctx, s.Email, "Registration approved", body)
}

func (n *EmailNotifier) PendingDigest(ctx context.Context, teacherEmail string, count int) error {
	body := fmt.Sprintf("## Pending requests\n\nYou have **%d** appointment request(s) waiting for an answer.", count)
	return n.send(ctx, teacherEmail, "Pending appointment requests", body)
}

func (n *EmailNotifier) when(a *model.Appointment) string {
	return a.Time.In(n.loc).Format("Mon, 02 Jan 2006 15:04 MST")
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, markdown string) error {
	var html bytes.Buffer
	if err := n.md.Convert([]byte(markdown), &html); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	if _, err := n.sender.Send(ctx, SendRequest{To: []string{to}, Subject: subject, HTML: html.String()}); err != nil {
		return err
	}
	return nil
}

// quote убирает переводы строк, чтобы сообщение осталось внутри цитаты
func quote(s string) string {
	return escape(strings.Join(strings.Fields(s), " "))
}

const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escape экранирует пунктуацию markdown в пользовательском тексте:
// ссылки, разметка и HTML выводятся как обычный текст
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
