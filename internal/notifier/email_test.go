package notifier

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	msgs []*mail.Msg
	err  error
}

func (s *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	s.msgs = append(s.msgs, messages...)
	return s.err
}

var testEvent = EventInfo{
	Name:     "WritoFest 2K25",
	Date:     "November 15, 2025",
	Venue:    "Media Centre, SIT",
	GroupURL: "https://chat.example.com/group",
}

func testRegistration() models.Registration {
	reg := models.Registration{ID: 1, Usn: "1SI22CS001"}
	reg.Name = "Ada"
	reg.Email = "ada@example.com"
	reg.Events = "Poetry Slam, Debate"
	return reg
}

func TestRenderConfirmation(t *testing.T) {
	body, err := renderConfirmation(confirmationData{
		Name:   "Ada <script>",
		Events: "Poetry Slam, Debate",
		Event:  testEvent,
		Sender: "ScriptInk",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Ada &lt;script&gt;, you're in!")
	assert.Contains(t, body, "<b>Event:</b> Poetry Slam, Debate")
	assert.Contains(t, body, "<b>Date:</b> November 15, 2025")
	assert.Contains(t, body, "<b>Venue:</b> Media Centre, SIT")
	assert.Contains(t, body, `href="https://chat.example.com/group"`)
	assert.Contains(t, body, "The ScriptInk Team")
}

func TestRenderConfirmation_NoGroupLink(t *testing.T) {
	event := testEvent
	event.GroupURL = ""

	body, err := renderConfirmation(confirmationData{Name: "Ada", Events: "Quiz", Event: event, Sender: "ScriptInk"})
	require.NoError(t, err)
	assert.NotContains(t, body, "WhatsApp Group")
}

func TestEmailNotifier_NotifyRegistration(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifierWithSender(sender, "ScriptInk", "hello@scriptink.example", testEvent)

	require.NoError(t, n.NotifyRegistration(context.Background(), testRegistration()))
	require.Len(t, sender.msgs, 1)

	var buf bytes.Buffer
	_, err := sender.msgs[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "hello@scriptink.example")
}

func TestEmailNotifier_Errors(t *testing.T) {
	t.Run("SendFailure", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("535 authentication failed")}
		n := NewEmailNotifierWithSender(sender, "ScriptInk", "hello@scriptink.example", testEvent)

		err := n.NotifyRegistration(context.Background(), testRegistration())
		assert.ErrorIs(t, err, sender.err)
	})

	t.Run("BadRecipient", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewEmailNotifierWithSender(sender, "ScriptInk", "hello@scriptink.example", testEvent)

		reg := testRegistration()
		reg.Email = "not an address"
		assert.Error(t, n.NotifyRegistration(context.Background(), reg))
		assert.Empty(t, sender.msgs)
	})
}

func TestNewEmailNotifier_RequiresHost(t *testing.T) {
	_, err := NewEmailNotifier(&config.Config{})
	assert.Error(t, err)

	n, err := NewEmailNotifier(&config.Config{
		EmailHost:     "smtp.example.com",
		EmailPort:     465,
		EmailUser:     "hello@scriptink.example",
		EmailPass:     "secret",
		EmailFromName: "ScriptInk",
	})
	require.NoError(t, err)
	assert.Equal(t, "email", n.Channel())
}
