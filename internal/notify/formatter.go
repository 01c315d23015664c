// Package notify delivers refresh pings and notifications to registered
// webhooks. Delivery is at-least-once and carries no authoritative state:
// recipients recompute everything from the published snapshot, so duplicate
// or out-of-order deliveries are harmless.
package notify

import "github.com/hatamisg/rutin/internal/model"

// Formatter shapes a notification into one webhook type's wire payload.
type Formatter interface {
	Format(n *model.Notification) ([]byte, error)

	// ContentType is the HTTP Content-Type the payload ships with.
	ContentType() string
}

// GetFormatter picks the formatter for a webhook type. Unknown types get
// the generic JSON payload.
func GetFormatter(webhookType string) Formatter {
	if webhookType == model.WebhookTypeDiscord {
		return &DiscordFormatter{}
	}
	return &GenericFormatter{}
}
