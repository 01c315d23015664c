package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Webhook type constants.
const (
	WebhookTypeDiscord = "discord"
	WebhookTypeGeneric = "generic"
)

// MaxWebhookNameLength bounds webhook names.
const MaxWebhookNameLength = 50

// Webhook represents a refresh/notification endpoint. External renderers
// (widget processes, dashboards) register one and recompute their display
// from the published snapshot whenever it is pinged. Delivery is
// at-least-once; recipients must treat pings as idempotent.
type Webhook struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// NewWebhook creates a new enabled webhook.
func NewWebhook(name, webhookType, url string, now time.Time) *Webhook {
	return &Webhook{
		Key:       GenerateWebhookKey(name),
		Name:      name,
		Type:      webhookType,
		URL:       url,
		Enabled:   true,
		CreatedAt: now,
	}
}

// GenerateWebhookKey builds the database key for a webhook name.
func GenerateWebhookKey(name string) string {
	return fmt.Sprintf("%s:%s", PrefixWebhook, name)
}

func (w *Webhook) SetKey(key string) { w.Key = key }
func (w *Webhook) GetKey() string    { return w.Key }

// MaskedURL truncates long URLs so webhook tokens don't land in output.
func (w *Webhook) MaskedURL() string {
	if len(w.URL) > 40 {
		return w.URL[:30] + "***"
	}
	return w.URL
}

// ValidWebhookTypes returns the recognized webhook types.
func ValidWebhookTypes() []string {
	return []string{WebhookTypeDiscord, WebhookTypeGeneric}
}

// IsValidWebhookType checks if a type is recognized.
func IsValidWebhookType(t string) bool {
	return t == WebhookTypeDiscord || t == WebhookTypeGeneric
}

// DetectWebhookType guesses the webhook type from its URL.
func DetectWebhookType(url string) string {
	if strings.Contains(url, "discord.com/api/webhooks") ||
		strings.Contains(url, "discordapp.com/api/webhooks") {
		return WebhookTypeDiscord
	}
	return WebhookTypeGeneric
}

// webhookNameRegex: alphanumeric start, then alphanumeric, dash, underscore.
var webhookNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// IsValidWebhookName checks if a webhook name is valid.
func IsValidWebhookName(name string) bool {
	return name != "" && len(name) <= MaxWebhookNameLength && webhookNameRegex.MatchString(name)
}
