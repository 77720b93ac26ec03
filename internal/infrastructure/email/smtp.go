package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Message is one outgoing notice. Messages that share a ThreadKey are
// grouped into one conversation by mail clients.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainBody string
	ThreadKey string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendBatch delivers every message over a single SMTP session. It stops at
// the first failure and reports how many messages went out before it.
func (s *SMTPEmailService) SendBatch(ctx context.Context, msgs []Message) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	conn, err := s.dialer.Dial()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer conn.Close()

	sent := 0
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := gomail.Send(conn, s.compose(msg)); err != nil {
			return sent, fmt.Errorf("failed to send email to %s: %w", msg.To, err)
		}
		sent++
	}
	return sent, nil
}

func (s *SMTPEmailService) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ThreadKey != "" {
		ref := s.threadReference(msg.ThreadKey)
		m.SetHeader("References", ref)
		m.SetHeader("In-Reply-To", ref)
	}
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)
	return m
}

// threadReference builds a stable message id for a thread, anchored on the
// sender's domain.
func (s *SMTPEmailService) threadReference(key string) string {
	domain := "localhost"
	if at := strings.LastIndex(s.config.FromAddress, "@"); at >= 0 && at < len(s.config.FromAddress)-1 {
		domain = s.config.FromAddress[at+1:]
	}
	return fmt.Sprintf("<ticket-%s@%s>", strings.ToLower(key), domain)
}
