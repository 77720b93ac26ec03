package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/infrastructure/email"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// EmailSender delivers a batch and reports how many messages went out.
type EmailSender interface {
	SendBatch(ctx context.Context, msgs []email.Message) (int, error)
}

type EmailDirectory interface {
	Emails(ctx context.Context, userIDs []uint) (map[uint]string, error)
}

// EmailSink mails each recipient a short notice linking back to the ticket.
type EmailSink struct {
	sender    EmailSender
	directory EmailDirectory
	handlers  HandlerLister
	baseURL   string
	logger    logger.Interface
}

func NewEmailSink(sender EmailSender, directory EmailDirectory, handlers HandlerLister, baseURL string, logger logger.Interface) *EmailSink {
	return &EmailSink{
		sender:    sender,
		directory: directory,
		handlers:  handlers,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, event ticket.Event) error {
	ids, err := expandRecipients(ctx, event, s.handlers)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	emails, err := s.directory.Emails(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to look up recipient emails: %w", err)
	}

	subject, line := describe(event)
	link := fmt.Sprintf("%s/tickets/%d", s.baseURL, event.TicketID)
	plainBody := fmt.Sprintf("%s\n\n%s\n", line, link)
	htmlBody := fmt.Sprintf(`<html><body><p>%s</p><p><a href="%s">View ticket %s</a></p></body></html>`,
		html.EscapeString(line), html.EscapeString(link), html.EscapeString(event.TicketNumber))

	msgs := make([]email.Message, 0, len(ids))
	for _, id := range ids {
		to, ok := emails[id]
		if !ok {
			continue
		}
		msgs = append(msgs, email.Message{
			To:        to,
			Subject:   subject,
			HTMLBody:  htmlBody,
			PlainBody: plainBody,
			ThreadKey: event.TicketNumber,
		})
	}

	sent, err := s.sender.SendBatch(ctx, msgs)
	if err != nil {
		s.logger.Warnw("ticket email batch interrupted",
			"ticket_id", event.TicketID, "sent", sent, "total", len(msgs), "error", err)
		return fmt.Errorf("sent %d of %d ticket emails: %w", sent, len(msgs), err)
	}
	return nil
}

func describe(event ticket.Event) (subject, line string) {
	prefix := fmt.Sprintf("[%s] ", event.TicketNumber)
	switch event.Type {
	case ticket.EventTicketCreated:
		return prefix + "New " + string(event.Kind) + ": " + event.Subject,
			fmt.Sprintf("A new %s was opened: %s", event.Kind, event.Subject)
	case ticket.EventReplyAdded:
		return prefix + "New reply: " + event.Subject,
			fmt.Sprintf("There is a new reply on %q.", event.Subject)
	case ticket.EventStatusChanged:
		return prefix + "Status changed to " + humanStatus(event.NewStatus.String()),
			fmt.Sprintf("%q moved from %s to %s.", event.Subject,
				humanStatus(event.OldStatus.String()), humanStatus(event.NewStatus.String()))
	case ticket.EventAssigned:
		return prefix + "Assigned to you: " + event.Subject,
			fmt.Sprintf("%q was assigned to you.", event.Subject)
	}
	return prefix + event.Subject, fmt.Sprintf("%q was updated.", event.Subject)
}

func humanStatus(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
