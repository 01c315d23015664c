package storage

import (
	"github.com/hatamisg/rutin/internal/model"
)

// ConfigRepo reads and writes the single Config record. There is exactly
// one per database; Get materializes it lazily with defaults.
type ConfigRepo struct {
	db *DB
}

// NewConfigRepo creates a config repository.
func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Get returns the config, writing defaults on first access.
func (r *ConfigRepo) Get() (*model.Config, error) {
	cfg := &model.Config{}
	switch err := r.db.Get(model.KeyConfig, cfg); {
	case err == nil:
		return cfg, nil
	case !IsErrKeyNotFound(err):
		return nil, err
	}

	cfg = model.NewConfig()
	if err := r.db.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update persists the config.
func (r *ConfigRepo) Update(cfg *model.Config) error {
	return r.db.Set(cfg)
}
