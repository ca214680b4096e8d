package utils

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
)

func smtpConfig() config.EmailConfig {
	return config.EmailConfig{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       "587",
		SMTPUsername:   "mailer@example.com",
		SMTPPassword:   "secret",
		FromName:       "UpTask",
		FrontendURL:    "http://localhost:5173/",
		BreakerTimeout: time.Minute,
	}
}

func TestEmailService_NotConfiguredLogsToken(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewEmailService(config.EmailConfig{}, 10*time.Minute, zap.New(core))
	svc.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	err := svc.SendConfirmationEmail(context.Background(), EmailData{Email: "ana@example.com", Name: "Ana", Token: "123456"})
	require.NoError(t, err)

	entries := logs.FilterMessage("SMTP not configured, email not sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "123456", entries[0].ContextMap()["token"])
}

func TestEmailService_SendConfirmationEmail(t *testing.T) {
	svc := NewEmailService(smtpConfig(), 10*time.Minute, zap.NewNop())

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	svc.send = func(_ context.Context, addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		assert.Equal(t, "mailer@example.com", from)
		return nil
	}

	err := svc.SendConfirmationEmail(context.Background(), EmailData{Email: "ana@example.com", Name: "Ana", Token: "654321"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: UpTask - Confirma tu cuenta")
	assert.Contains(t, gotMsg, "http://localhost:5173/auth/confirm-account")
	assert.Contains(t, gotMsg, "654321")
	assert.Contains(t, gotMsg, "10 minutos")
}

func TestEmailService_SendPasswordResetToken(t *testing.T) {
	svc := NewEmailService(smtpConfig(), time.Hour, zap.NewNop())

	var gotMsg string
	svc.send = func(_ context.Context, _ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	require.NoError(t, svc.SendPasswordResetToken(context.Background(), EmailData{Email: "ana@example.com", Name: "Ana", Token: "111222"}))
	assert.Contains(t, gotMsg, "/auth/new-password")
	assert.Contains(t, gotMsg, "111222")
	assert.Contains(t, gotMsg, "1 hora")
}

func TestEmailService_BreakerOpensAfterFailures(t *testing.T) {
	svc := NewEmailService(smtpConfig(), 10*time.Minute, zap.NewNop())

	calls := 0
	svc.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	}

	data := EmailData{Email: "ana@example.com", Name: "Ana", Token: "123456"}
	for i := 0; i < 3; i++ {
		assert.Error(t, svc.SendConfirmationEmail(context.Background(), data))
	}

	err := svc.SendConfirmationEmail(context.Background(), data)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestEmailService_EscapesName(t *testing.T) {
	svc := NewEmailService(smtpConfig(), 10*time.Minute, zap.NewNop())

	var msgs []string
	svc.send = func(_ context.Context, _ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		msgs = append(msgs, string(msg))
		return nil
	}

	data := EmailData{Email: "ana@example.com", Name: `<a href=x>Gana</a>`, Token: "123456"}
	require.NoError(t, svc.SendConfirmationEmail(context.Background(), data))
	require.NoError(t, svc.SendPasswordResetToken(context.Background(), data))

	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Contains(t, msg, "&lt;a href=x&gt;Gana&lt;/a&gt;")
		assert.NotContains(t, msg, "<a href=x>")
	}
}

func TestEmailService_SendTimeoutReachesTransport(t *testing.T) {
	cfg := smtpConfig()
	cfg.SendTimeout = 5 * time.Second
	svc := NewEmailService(cfg, 10*time.Minute, zap.NewNop())

	var deadline time.Time
	svc.send = func(ctx context.Context, _ string, _ smtp.Auth, _ string, _ []string, _ []byte) error {
		var ok bool
		deadline, ok = ctx.Deadline()
		require.True(t, ok)
		return nil
	}

	require.NoError(t, svc.SendConfirmationEmail(context.Background(), EmailData{Email: "ana@example.com", Name: "Ana", Token: "123456"}))
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

// silentSMTPServer accepts connections and never sends a greeting
func silentSMTPServer(t *testing.T) (host, port string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func TestEmailService_UnresponsiveServer(t *testing.T) {
	tests := []struct {
		name        string
		sendTimeout time.Duration
		ctxTimeout  time.Duration
	}{
		{name: "request deadline", ctxTimeout: 200 * time.Millisecond},
		{name: "send timeout", sendTimeout: 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smtpConfig()
			cfg.SMTPHost, cfg.SMTPPort = silentSMTPServer(t)
			cfg.SendTimeout = tt.sendTimeout
			svc := NewEmailService(cfg, 10*time.Minute, zap.NewNop())

			ctx := context.Background()
			if tt.ctxTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.ctxTimeout)
				defer cancel()
			}

			start := time.Now()
			err := svc.SendConfirmationEmail(ctx, EmailData{Email: "ana@example.com", Name: "Ana", Token: "123456"})

			assert.Error(t, err)
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}

// fakeSMTPServer speaks just enough SMTP for one delivery and hands back
// the DATA section.
func fakeSMTPServer(t *testing.T) (string, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP")

		var data string
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				_ = tp.PrintfLine("250 localhost")
			case strings.HasPrefix(line, "MAIL"), strings.HasPrefix(line, "RCPT"):
				_ = tp.PrintfLine("250 OK")
			case line == "DATA":
				_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
				body, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				data = string(body)
				_ = tp.PrintfLine("250 OK")
			case line == "QUIT":
				_ = tp.PrintfLine("221 Bye")
				received <- data
				return
			default:
				_ = tp.PrintfLine("502 Command not implemented")
			}
		}
	}()

	return ln.Addr().String(), received
}

func TestSendMail(t *testing.T) {
	addr, received := fakeSMTPServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := sendMail(ctx, addr, nil, "mailer@example.com", []string{"ana@example.com"}, []byte("Subject: hola\r\n\r\ncuerpo\r\n"))
	require.NoError(t, err)

	select {
	case data := <-received:
		assert.Contains(t, data, "Subject: hola")
		assert.Contains(t, data, "cuerpo")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive the message")
	}
}

func TestSendMail_RequiresAuthSupport(t *testing.T) {
	addr, _ := fakeSMTPServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	auth := smtp.PlainAuth("", "user", "pass", "127.0.0.1")
	err := sendMail(ctx, addr, auth, "mailer@example.com", []string{"ana@example.com"}, []byte("x"))
	assert.Error(t, err)
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "10 minutos", formatTTL(10*time.Minute))
	assert.Equal(t, "1 hora", formatTTL(time.Hour))
	assert.Equal(t, "24 horas", formatTTL(24*time.Hour))
	assert.Equal(t, "90 minutos", formatTTL(90*time.Minute))
}
