package mail

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := newMessage("from@example.com", "to@example.com", "Nouvelle actualité", "ligne 1\nligne 2")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "<from@example.com>")
	assert.Contains(t, raw, "<to@example.com>")
	assert.Contains(t, raw, "Nouvelle_actualit=C3=A9")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "ligne 1")

	_, err = newMessage("from@example.com", "not an address", "s", "b")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), "to@example.com", "hello", "body"))
	assert.Contains(t, buf.String(), "to=to@example.com")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: "2525"}).Send(ctx, "to@example.com", "s", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPMailer_SilentServerTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// accept the connection but never send the 220 greeting
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		<-done
		_ = conn.Close()
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "from@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = m.Send(ctx, "to@example.com", "s", "b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSMTPMailer_InvalidPort(t *testing.T) {
	err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: "smtp", From: "from@example.com"}).Send(context.Background(), "to@example.com", "s", "b")
	assert.ErrorContains(t, err, "invalid SMTP port")
}
