package notify

import (
	"encoding/json"

	"github.com/hatamisg/rutin/internal/model"
)

// GenericFormatter formats notifications as a flat JSON payload for
// arbitrary HTTP consumers (widget refresh endpoints, automations).
type GenericFormatter struct{}

// genericPayload is the payload for generic webhooks.
type genericPayload struct {
	Type      string            `json:"type"`
	Title     string            `json:"title,omitempty"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Format converts a notification to the generic webhook format.
func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	return json.Marshal(genericPayload{
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Fields:    n.Fields,
		Timestamp: isoTimestamp(n.Timestamp),
	})
}

// ContentType returns the content type for generic webhooks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}
