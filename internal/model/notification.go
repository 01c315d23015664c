package model

import "time"

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	// NotifyRefresh is the stateless "data changed, recompute" ping sent
	// after every mutation. It carries no display state.
	NotifyRefresh NotificationType = "refresh"
	// NotifyStreakRisk warns that a due habit is still unmet near the end
	// of the grace window.
	NotifyStreakRisk NotificationType = "streak_risk"
	// NotifyGoalReached announces a habit hitting its goal for the day.
	NotifyGoalReached NotificationType = "goal_reached"
	// NotifyRollover marks the midnight day change.
	NotifyRollover NotificationType = "rollover"
	NotifyTest     NotificationType = "test"
)

// Notification is one outbound message, formatted per webhook type at
// delivery time.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Color     int               `json:"color,omitempty"` // Hex color for embeds
}

// NewNotification creates a notification stamped with the current time.
func NewNotification(t NotificationType, title, message string) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: time.Now(),
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithColor sets the embed color.
func (n *Notification) WithColor(color int) *Notification {
	n.Color = color
	return n
}

// Notification colors (Discord-compatible hex values).
const (
	ColorSuccess = 0x57F287 // Green
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x5865F2 // Blurple
	ColorError   = 0xED4245 // Red
)

// DefaultColorForType returns the default color for a notification type.
func DefaultColorForType(t NotificationType) int {
	switch t {
	case NotifyStreakRisk:
		return ColorWarning
	case NotifyGoalReached:
		return ColorSuccess
	}
	return ColorInfo
}
