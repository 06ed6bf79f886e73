package service

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"flyhigh/internal/config"
)

// EmailService is the outbound-mail boundary. Anything that fails here —
// rejection, timeout, connection error — means the activation mail was not
// accepted for delivery.
type EmailService interface {
	SendAccountActivation(to, activationToken string) error
}

type smtpEmailService struct {
	addr     string
	host     string
	username string
	password string
	from     string
	baseURL  string
	timeout  time.Duration
}

func NewSMTPEmailService(cfg *config.Config) EmailService {
	return &smtpEmailService{
		addr:     net.JoinHostPort(cfg.SMTPHost, fmt.Sprint(cfg.SMTPPort)),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		baseURL:  cfg.AppBaseURL,
		timeout:  cfg.EmailTimeout,
	}
}

func (s *smtpEmailService) SendAccountActivation(to, activationToken string) error {
	conn, err := net.DialTimeout("tcp", s.addr, s.timeout)
	if err != nil {
		return fmt.Errorf("connecting to mail server: %w", err)
	}
	// One deadline covers the whole SMTP conversation.
	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail auth: %w", err)
		}
	}

	if err := client.Mail(senderAddress(s.from)); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(s.activationMessage(to, activationToken)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *smtpEmailService) activationMessage(to, activationToken string) []byte {
	activationURL := fmt.Sprintf("%s/api/1.0/users/token/%s", s.baseURL, activationToken)
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Account Activation From Flyhigh\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, `<div>
  <b>Please click below link to activate your account</b>
</div>
<div>
  <a href="%s">Activate</a>
</div>
`, activationURL)
	return []byte(b.String())
}

// senderAddress extracts the bare address from a "Name <addr>" header value.
func senderAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}
