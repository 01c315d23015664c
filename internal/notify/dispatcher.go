package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hatamisg/rutin/internal/logging"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/storage"
)

// DispatchResult is the outcome of one delivery attempt.
type DispatchResult struct {
	WebhookName string
	Success     bool
	StatusCode  int
	Duration    time.Duration
	Error       error
}

// Dispatcher fans notifications out to webhooks. Deliveries to different
// webhooks run concurrently; a slow endpoint does not hold up the rest.
type Dispatcher struct {
	webhookRepo *storage.WebhookRepo
	httpClient  *HTTPClient
}

func NewDispatcher(webhookRepo *storage.WebhookRepo) *Dispatcher {
	return &Dispatcher{webhookRepo: webhookRepo, httpClient: NewHTTPClient()}
}

// SendRefresh pings every enabled webhook that the given habit's data
// changed. The ping names the habit, the reason, and the snapshot version;
// nothing more, since recipients recompute from the snapshot.
func (d *Dispatcher) SendRefresh(ctx context.Context, habitSID, reason string, version uint64) []DispatchResult {
	n := model.NewNotification(model.NotifyRefresh, "", "").
		WithField("habit_sid", habitSID).
		WithField("reason", reason).
		WithField("snapshot_version", strconv.FormatUint(version, 10))
	return d.SendNotification(ctx, n)
}

// SendNotification delivers n to every enabled webhook and returns one
// result per webhook. A nil slice means no webhooks are configured.
func (d *Dispatcher) SendNotification(ctx context.Context, n *model.Notification) []DispatchResult {
	webhooks, err := d.webhookRepo.ListEnabled()
	if err != nil {
		return []DispatchResult{{
			WebhookName: "all",
			Error:       fmt.Errorf("failed to list webhooks: %w", err),
		}}
	}
	if len(webhooks) == 0 {
		return nil
	}

	results := make([]DispatchResult, len(webhooks))
	var wg sync.WaitGroup
	for i, wh := range webhooks {
		wg.Add(1)
		go func(i int, wh *model.Webhook) {
			defer wg.Done()
			results[i] = d.deliver(ctx, n, wh)
		}(i, wh)
	}
	wg.Wait()
	return results
}

// SendToSingle delivers n to one webhook looked up by name.
func (d *Dispatcher) SendToSingle(ctx context.Context, n *model.Notification, webhookName string) DispatchResult {
	webhook, err := d.webhookRepo.Get(webhookName)
	if err != nil {
		return DispatchResult{WebhookName: webhookName, Error: err}
	}
	return d.deliver(ctx, n, webhook)
}

// TestWebhook sends a canned test message to the named webhook.
func (d *Dispatcher) TestWebhook(ctx context.Context, webhookName string) DispatchResult {
	n := model.NewNotification(model.NotifyTest,
		"Rutin test notification",
		"If you can read this, the webhook works.")
	return d.SendToSingle(ctx, n, webhookName)
}

func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification, webhook *model.Webhook) DispatchResult {
	result := DispatchResult{WebhookName: webhook.Name}

	formatter := GetFormatter(webhook.Type)
	payload, err := formatter.Format(n)
	if err != nil {
		result.Error = fmt.Errorf("failed to format notification: %w", err)
		d.recordOutcome(webhook.Name, result.Error)
		return result
	}

	sent := d.httpClient.Send(ctx, webhook.URL, formatter.ContentType(), payload)
	result.StatusCode = sent.StatusCode
	result.Duration = sent.Duration
	result.Error = sent.Error
	result.Success = sent.Error == nil

	if result.Error != nil {
		logging.Warn("webhook delivery failed",
			"webhook", webhook.Name,
			"type", string(n.Type),
			"error", result.Error)
	}

	d.recordOutcome(webhook.Name, sent.Error)
	return result
}

// recordOutcome stamps the webhook's last-used time and error. Best effort;
// a bookkeeping failure never fails the delivery.
func (d *Dispatcher) recordOutcome(name string, err error) {
	_ = d.webhookRepo.UpdateLastUsed(name, err)
}
