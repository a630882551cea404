// file: internals/services/notifications/gateway.go
//
// Fire-and-forget notification fan-out. Failures are logged, never retried
// here; callers must not depend on delivery.
package notifications

import (
	"context"
	"log"

	"catalogscolar_backend/internals/configs"
)

type Gateway interface {
	Notify(ctx context.Context, recipients []string, title, body, channel string) error
}

// NewGatewayFromEnv picks SendGrid when an API key is configured, otherwise
// the console gateway (dev default).
func NewGatewayFromEnv() Gateway {
	if configs.SendgridAPIKey != "" {
		return NewSendgridGateway(configs.SendgridAPIKey)
	}
	log.Println("[NOTIFY] no SENDGRID_API_KEY, using console gateway")
	return &ConsoleGateway{}
}

// ConsoleGateway logs instead of delivering.
type ConsoleGateway struct{}

func (g *ConsoleGateway) Notify(ctx context.Context, recipients []string, title, body, channel string) error {
	log.Printf("[NOTIFY] channel=%s recipients=%d title=%q", channel, len(recipients), title)
	return nil
}
