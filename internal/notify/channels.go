package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// Channel is one delivery medium. A row is delivered when every
// channel that applies to it succeeds in the same drain pass.
type Channel interface {
	Name() string
	Applies(n *Notification) bool
	Send(ctx context.Context, n *Notification) error
}

// ---------- Log ----------

// LogChannel writes the notification to the service log. Always
// applies, so every row is observable even with no providers set up.
type LogChannel struct{}

func (LogChannel) Name() string { return "log" }

func (LogChannel) Applies(*Notification) bool { return true }

func (LogChannel) Send(_ context.Context, n *Notification) error {
	utils.Logger.Infof("NOTIFY [%s/%s] to agent %s: %s - %s",
		n.Type, n.Priority, n.RecipientAgentID, n.Title, n.Body)
	return nil
}

// ---------- Email (SendGrid) ----------

type EmailChannel struct {
	Client    *sendgrid.Client
	FromEmail string
	OrgName   string
	Sandbox   bool
}

func (EmailChannel) Name() string { return "email" }

func (c EmailChannel) Applies(n *Notification) bool {
	return c.Client != nil && n.RecipientEmail != ""
}

func (c EmailChannel) Send(_ context.Context, n *Notification) error {
	from := mail.NewEmail(c.OrgName, c.FromEmail)
	to := mail.NewEmail("", n.RecipientEmail)
	htmlBody := fmt.Sprintf("<h3>%s</h3><p>%s</p>", n.Title, n.Body)
	msg := mail.NewSingleEmail(from, n.Title, to, n.Body, htmlBody)
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{
			Enable: utils.Ptr(false),
		},
	}
	if c.Sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, err := c.Client.Send(msg); err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	return nil
}

// ---------- SMS (Twilio) ----------

type SMSChannel struct {
	Client    *twilio.RestClient
	FromPhone string
}

func (SMSChannel) Name() string { return "sms" }

func (c SMSChannel) Applies(n *Notification) bool {
	// SMS is reserved for high priority rows so agents are not spammed
	// for every refreshed match.
	return c.Client != nil && n.RecipientPhone != "" && n.Priority == PriorityHigh
}

func (c SMSChannel) Send(_ context.Context, n *Notification) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.RecipientPhone)
	params.SetFrom(c.FromPhone)
	params.SetBody(n.Title + " :: " + n.Body)
	if _, err := c.Client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
