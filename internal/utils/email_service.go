package utils

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
)

// EmailData identifies the recipient of an account email
type EmailData struct {
	Email string
	Name  string
	Token string
}

type sendMailFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending operations
type EmailService struct {
	config   config.EmailConfig
	tokenTTL time.Duration
	cb       *gobreaker.CircuitBreaker
	send     sendMailFunc
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewEmailService creates a new email service instance. tokenTTL is only
// used in the message text.
func NewEmailService(cfg config.EmailConfig, tokenTTL time.Duration, log *zap.Logger) *EmailService {
	settings := gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &EmailService{
		config:   cfg,
		tokenTTL: tokenTTL,
		cb:       gobreaker.NewCircuitBreaker(settings),
		send:     sendMail,
		logger:   log,
		tracer:   otel.Tracer("utils/email"),
	}
}

// SendConfirmationEmail sends the account confirmation token
func (e *EmailService) SendConfirmationEmail(ctx context.Context, data EmailData) error {
	ctx, span := e.tracer.Start(ctx, "EmailService.SendConfirmationEmail")
	defer span.End()

	span.SetAttributes(attribute.String("to.email", data.Email))

	link := strings.TrimRight(e.config.FrontendURL, "/") + "/auth/confirm-account"
	subject := "UpTask - Confirma tu cuenta"
	body := fmt.Sprintf(`
<p>Hola: %s, has creado tu cuenta en UpTask, ya casi está todo listo, solo debes confirmar tu cuenta</p>
<p>Visita el siguiente enlace:</p>
<a href="%s">Confirmar cuenta</a>
<p>E ingresa el código: <b>%s</b></p>
<p>Este token expira en %s</p>
`, html.EscapeString(data.Name), link, data.Token, formatTTL(e.tokenTTL))

	return e.deliver(ctx, span, data, subject, body)
}

// SendPasswordResetToken sends the password reset token
func (e *EmailService) SendPasswordResetToken(ctx context.Context, data EmailData) error {
	ctx, span := e.tracer.Start(ctx, "EmailService.SendPasswordResetToken")
	defer span.End()

	span.SetAttributes(attribute.String("to.email", data.Email))

	link := strings.TrimRight(e.config.FrontendURL, "/") + "/auth/new-password"
	subject := "UpTask - Restablece tu password"
	body := fmt.Sprintf(`
<p>Hola: %s, has solicitado restablecer tu password.</p>
<p>Visita el siguiente enlace:</p>
<a href="%s">Restablecer password</a>
<p>E ingresa el código: <b>%s</b></p>
<p>Este token expira en %s</p>
`, html.EscapeString(data.Name), link, data.Token, formatTTL(e.tokenTTL))

	return e.deliver(ctx, span, data, subject, body)
}

func (e *EmailService) deliver(ctx context.Context, span trace.Span, data EmailData, subject, body string) error {
	// Without credentials the token is logged so local runs stay usable
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		logger.Info(ctx, e.logger, "SMTP not configured, email not sent",
			zap.String("to", data.Email),
			zap.String("subject", subject),
			zap.String("token", data.Token),
		)
		return nil
	}

	if e.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.SendTimeout)
		defer cancel()
	}

	_, err := ExecuteWithBreaker(e.cb, func() (struct{}, error) {
		return struct{}{}, e.sendEmail(ctx, data.Email, subject, body)
	})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, e.logger, "Error sending email",
			zap.String("to", data.Email),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	logger.Info(ctx, e.logger, "Email sent successfully", zap.String("to", data.Email), zap.String("subject", subject))
	return nil
}

// sendEmail sends an email using SMTP
func (e *EmailService) sendEmail(ctx context.Context, to, subject, body string) error {
	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, subject, body))

	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	if err := e.send(ctx, addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// sendMail follows smtp.SendMail, but dialing and the whole SMTP
// conversation stop when ctx is done.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func formatTTL(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hora"
	case d > time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d horas", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutos", int(d.Minutes()))
}
