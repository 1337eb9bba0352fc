package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/models"
	"github.com/wneessen/go-mail"
)

// implicitTLSPort is the SMTPS port; other ports negotiate STARTTLS.
const implicitTLSPort = 465

// Sender delivers prepared messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier sends the registrant a confirmation email.
type EmailNotifier struct {
	sender   Sender
	fromName string
	fromAddr string
	event    EventInfo
}

func NewEmailNotifier(cfg *config.Config) (*EmailNotifier, error) {
	if cfg.EmailHost == "" {
		return nil, fmt.Errorf("email host not configured")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.EmailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.EmailUser),
		mail.WithPassword(cfg.EmailPass),
		mail.WithTimeout(20 * time.Second),
	}
	if cfg.EmailPort == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.EmailHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return NewEmailNotifierWithSender(client, cfg.EmailFromName, cfg.EmailUser, EventInfoFromConfig(cfg)), nil
}

func NewEmailNotifierWithSender(sender Sender, fromName, fromAddr string, event EventInfo) *EmailNotifier {
	return &EmailNotifier{
		sender:   sender,
		fromName: fromName,
		fromAddr: fromAddr,
		event:    event,
	}
}

func (n *EmailNotifier) Channel() string { return "email" }

func (n *EmailNotifier) NotifyRegistration(ctx context.Context, reg models.Registration) error {
	msg, err := n.message(reg)
	if err != nil {
		return err
	}
	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", reg.Email, err)
	}
	return nil
}

func (n *EmailNotifier) message(reg models.Registration) (*mail.Msg, error) {
	body, err := renderConfirmation(confirmationData{
		Name:   reg.Name,
		Events: reg.Events,
		Event:  n.event,
		Sender: n.fromName,
	})
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.fromName, n.fromAddr); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(reg.Email); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("Registration Confirmed! 🎉 %s", n.event.Name))
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

type confirmationData struct {
	Name   string
	Events string
	Event  EventInfo
	Sender string
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h1 style="color: #4A00E0; text-align: center;">Hi {{.Name}}, you're in!</h1>
  <p style="font-size: 16px;">Thank you for registering for <strong>{{.Event.Name}}</strong>. We're excited to see your creativity on stage!</p>
  <div style="background: #f4f4f4; border-radius: 8px; padding: 15px; margin: 20px 0;">
    <h3 style="border-bottom: 2px solid #ffd700; padding-bottom: 5px; margin-top: 0;">Your Registration Details:</h3>
    <ul style="list-style: none; padding-left: 0;">
      <li style="font-size: 16px; margin-bottom: 10px;"><b>Event:</b> {{.Events}}</li>
      <li style="font-size: 16px; margin-bottom: 10px;"><b>Date:</b> {{.Event.Date}}</li>
      <li style="font-size: 16px;"><b>Venue:</b> {{.Event.Venue}}</li>
    </ul>
  </div>
  {{- if .Event.GroupURL}}
  <p style="font-size: 16px;">You can join our <a href="{{.Event.GroupURL}}" style="color: #007bff;">WhatsApp Group</a> for all the latest updates.</p>
  {{- end}}
  <p style="font-size: 16px;">See you there!<br><b>- The {{.Sender}} Team</b></p>
</div>
`))

func renderConfirmation(data confirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}
