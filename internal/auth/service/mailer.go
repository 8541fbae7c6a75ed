package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	apperrors "github.com/allisson/legacyvault/internal/errors"
)

const otpSubject = "Your Digital Legacy Manager OTP"

var otpBody = template.Must(template.New("otp").Parse(`<html>
  <body>
    <h2>Your OTP for Digital Legacy Manager</h2>
    <p>Your OTP is: <strong>{{.Code}}</strong></p>
    <p>This OTP will expire in {{.Minutes}} minutes.</p>
    <p>If you didn't request this OTP, please ignore this email.</p>
  </body>
</html>
`))

// LogMailer writes a delivery notice to the log instead of sending mail.
// The code itself is never logged.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(ctx context.Context, email, _ string, ttl time.Duration) error {
	m.logger.InfoContext(ctx, "otp mail suppressed by log mailer",
		slog.String("email", email),
		slog.Duration("ttl", ttl),
	)
	return nil
}

// SMTPConfig holds SMTP delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML mail through an SMTP relay. smtp.SendMail upgrades the
// connection with STARTTLS when the server offers it, before PLAIN auth.
type SMTPMailer struct {
	config   SMTPConfig
	sendMail sendMailFunc
	logger   *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(config SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if config.From == "" {
		config.From = config.Username
	}
	return &SMTPMailer{
		config:   config,
		sendMail: smtp.SendMail,
		logger:   logger,
	}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	msg, err := m.buildMessage(email, code, ttl)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	if err := m.sendMail(addr, auth, m.config.From, []string{email}, msg); err != nil {
		m.logger.ErrorContext(ctx, "failed to send otp mail",
			slog.String("email", email),
			slog.String("smtp_host", m.config.Host),
			slog.Any("error", err),
		)
		return apperrors.Wrap(err, "failed to send otp mail")
	}

	m.logger.InfoContext(ctx, "otp mail sent", slog.String("email", email))
	return nil
}

func (m *SMTPMailer) buildMessage(email, code string, ttl time.Duration) ([]byte, error) {
	var body bytes.Buffer
	err := otpBody.Execute(&body, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl.Minutes())})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render otp mail")
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", otpSubject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
