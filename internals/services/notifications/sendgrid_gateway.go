// file: internals/services/notifications/sendgrid_gateway.go
package notifications

import (
	"context"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"catalogscolar_backend/internals/configs"
)

type SendgridGateway struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendgridGateway(apiKey string) *SendgridGateway {
	return &SendgridGateway{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  configs.GetEnv("NOTIFY_FROM_NAME", "Catalog Școlar"),
		fromEmail: configs.GetEnv("NOTIFY_FROM_EMAIL", "noreply@catalogscolar.ro"),
	}
}

func (g *SendgridGateway) Notify(ctx context.Context, recipients []string, title, body, channel string) error {
	from := mail.NewEmail(g.fromName, g.fromEmail)
	for _, rcpt := range recipients {
		msg := mail.NewSingleEmail(from, title, mail.NewEmail("", rcpt), body, body)
		resp, err := g.client.SendWithContext(ctx, msg)
		if err != nil {
			log.Printf("[NOTIFY] ERROR sendgrid channel=%s rcpt=%s err=%v", channel, rcpt, err)
			continue
		}
		if resp.StatusCode >= 400 {
			log.Printf("[NOTIFY] ERROR sendgrid channel=%s rcpt=%s status=%d", channel, rcpt, resp.StatusCode)
		}
	}
	return nil
}
