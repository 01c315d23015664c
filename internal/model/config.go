package model

import "github.com/hatamisg/rutin/internal/calendar"

// Config holds application configuration (singleton).
//
// FirstDayOfWeek affects only how weekdays are ordered when rendered; the
// schedule mask is always stored and interpreted with absolute weekday
// numbers, so changing this preference never shifts saved schedules.
type Config struct {
	Key             string `json:"key"`
	FirstDayOfWeek  int    `json:"first_day_of_week"`
	SnapshotEnabled bool   `json:"snapshot_enabled"`
}

// SetKey sets the database key for this config.
func (c *Config) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this config.
func (c *Config) GetKey() string {
	return c.Key
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	return &Config{
		Key:             KeyConfig,
		FirstDayOfWeek:  calendar.Monday,
		SnapshotEnabled: true,
	}
}
