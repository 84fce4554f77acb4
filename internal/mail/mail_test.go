package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/testutil"
)

type fakeDialer struct {
	sent []*gomail.Msg
	err  error
}

func (f *fakeDialer) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func TestSMTP_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTP{client: d, from: "no-reply@glowbook.test", logger: testutil.MakeNoopLogger()}

	receipt, err := s.Send(context.Background(), model.Email{
		To:      "a@b.com",
		Subject: "Verify your email",
		Text:    "open https://glowbook.test/verify?token=abc",
		HTML:    "<a href=\"https://glowbook.test/verify?token=abc\">verify</a>",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.NotEmpty(t, receipt.MessageID)
	assert.False(t, strings.HasPrefix(receipt.MessageID, "<"))

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Verify your email")
	assert.Contains(t, raw, "<a@b.com>")
	assert.Contains(t, raw, "text/html")
}

func TestSMTP_SendFailure(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := &SMTP{client: d, from: "no-reply@glowbook.test", logger: testutil.MakeNoopLogger()}

	_, err := s.Send(context.Background(), model.Email{To: "a@b.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTP_InvalidRecipient(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTP{client: d, from: "no-reply@glowbook.test", logger: testutil.MakeNoopLogger()}

	_, err := s.Send(context.Background(), model.Email{To: "not an address", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Empty(t, d.sent)
}

func TestNewSMTP(t *testing.T) {
	s, err := NewSMTP(config.Mail{Host: "localhost", Port: 2525, From: "x@y.z", Username: "u", Password: "p"}, testutil.MakeNoopLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.client)
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(logger.NewWithWriter(&buf, 0, "json"))

	receipt, err := l.Send(context.Background(), model.Email{To: "a@b.com", Subject: "Verify", Text: "link"})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)
	assert.Contains(t, buf.String(), "a@b.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Send(ctx, model.Email{To: "a@b.com"})
	require.ErrorIs(t, err, context.Canceled)
}
