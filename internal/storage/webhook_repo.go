package storage

import (
	"time"

	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
)

// WebhookRepo persists webhook registrations, keyed by name.
type WebhookRepo struct {
	db *DB
}

// NewWebhookRepo creates a webhook repository.
func NewWebhookRepo(db *DB) *WebhookRepo {
	return &WebhookRepo{db: db}
}

// Create stores a webhook, filling in key and creation time when absent.
func (r *WebhookRepo) Create(webhook *model.Webhook) error {
	if webhook.Key == "" {
		webhook.Key = model.GenerateWebhookKey(webhook.Name)
	}
	if webhook.CreatedAt.IsZero() {
		webhook.CreatedAt = time.Now()
	}
	return r.db.Set(webhook)
}

// Get returns the webhook with the given name.
func (r *WebhookRepo) Get(name string) (*model.Webhook, error) {
	webhook := &model.Webhook{}
	if err := r.db.Get(model.GenerateWebhookKey(name), webhook); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrWebhookNotFound
		}
		return nil, err
	}
	return webhook, nil
}

// Exists reports whether a webhook with the given name exists.
func (r *WebhookRepo) Exists(name string) (bool, error) {
	return r.db.Exists(model.GenerateWebhookKey(name))
}

// List returns all webhooks.
func (r *WebhookRepo) List() ([]*model.Webhook, error) {
	return GetAllByPrefix(r.db, model.PrefixWebhook+":", func() *model.Webhook {
		return &model.Webhook{}
	})
}

// ListEnabled returns the webhooks the dispatcher should deliver to.
func (r *WebhookRepo) ListEnabled() ([]*model.Webhook, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	enabled := all[:0]
	for _, wh := range all {
		if wh.Enabled {
			enabled = append(enabled, wh)
		}
	}
	return enabled, nil
}

// Update persists changes to a webhook.
func (r *WebhookRepo) Update(webhook *model.Webhook) error {
	return r.db.Set(webhook)
}

// Delete removes a webhook by name.
func (r *WebhookRepo) Delete(name string) error {
	return r.db.Delete(model.GenerateWebhookKey(name))
}

// UpdateLastUsed stamps the delivery time and records or clears the last
// delivery error.
func (r *WebhookRepo) UpdateLastUsed(name string, lastErr error) error {
	webhook, err := r.Get(name)
	if err != nil {
		return err
	}
	webhook.LastUsed = time.Now()
	webhook.LastError = ""
	if lastErr != nil {
		webhook.LastError = lastErr.Error()
	}
	return r.db.Set(webhook)
}

// Enable marks a webhook as enabled.
func (r *WebhookRepo) Enable(name string) error {
	return r.setEnabled(name, true)
}

// Disable marks a webhook as disabled.
func (r *WebhookRepo) Disable(name string) error {
	return r.setEnabled(name, false)
}

func (r *WebhookRepo) setEnabled(name string, enabled bool) error {
	webhook, err := r.Get(name)
	if err != nil {
		return err
	}
	webhook.Enabled = enabled
	return r.db.Set(webhook)
}
