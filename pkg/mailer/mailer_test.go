package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	got    *mail.SGMailV3
	status int
	err    error
}

func (s *stubSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.got = email
	if s.err != nil {
		return nil, s.err
	}
	return &rest.Response{StatusCode: s.status}, nil
}

func TestNewFallsBackToLogMailer(t *testing.T) {
	m := New(config.SendgridConfig{}, logger.Nop())
	require.IsType(t, &LogMailer{}, m)

	m = New(config.SendgridConfig{APIKey: "SG.key", DefaultFrom: "no-reply@funnelhub.io"}, logger.Nop())
	require.IsType(t, &SendgridMailer{}, m)
}

func TestSendgridMailerSend(t *testing.T) {
	stub := &stubSender{status: 202}
	m := &SendgridMailer{client: stub, from: mail.NewEmail("FunnelHub", "no-reply@funnelhub.io")}

	err := m.Send(context.Background(), Message{To: "a@b.com", Subject: "Reset", Text: "link", HTML: "<a>link</a>"})
	require.NoError(t, err)
	require.Equal(t, "Reset", stub.got.Subject)
	require.Equal(t, "no-reply@funnelhub.io", stub.got.From.Address)
	require.Equal(t, "a@b.com", stub.got.Personalizations[0].To[0].Address)
}

func TestSendgridMailerErrors(t *testing.T) {
	m := &SendgridMailer{client: &stubSender{status: 400}, from: mail.NewEmail("", "x@y.z")}
	require.ErrorContains(t, m.Send(context.Background(), Message{To: "a@b.com"}), "status 400")

	m.client = &stubSender{err: errors.New("dial tcp")}
	require.ErrorContains(t, m.Send(context.Background(), Message{To: "a@b.com"}), "dial tcp")

	require.Error(t, m.Send(context.Background(), Message{}))
}

func TestLogMailerNeverLogsBody(t *testing.T) {
	buf := &bytes.Buffer{}
	m := &LogMailer{logg: logger.New(logger.Options{ServiceName: "test", Output: buf})}

	require.NoError(t, m.Send(context.Background(), Message{To: "a@b.com", Subject: "Reset", Text: "secret-token"}))
	require.Contains(t, buf.String(), "mail.skipped_no_provider")
	require.NotContains(t, buf.String(), "secret-token")
	require.NotContains(t, buf.String(), "a@b.com")
}
