// Package snapshot publishes a versioned, immutable view of every habit's
// display state to a well-known file. Out-of-process renderers (widgets,
// dashboards) read the file and recompute; nothing ever mutates shared state
// across a process boundary. Publication is one-way: the engine writes a
// whole new snapshot atomically, readers pick it up whenever they refresh.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/streak"
)

// FileName is the snapshot file name inside the state directory.
const FileName = "snapshot.json"

// HabitView is the per-habit display state as of the snapshot instant. A
// renderer combines the raw checkpoint with its own clock to show a live
// timer value; everything else is ready to display.
type HabitView struct {
	SID        string            `json:"sid"`
	Name       string            `json:"name"`
	Kind       model.HabitKind   `json:"kind"`
	Goal       int64             `json:"goal"`
	Schedule   model.WeekdaySet  `json:"schedule"`
	Due        bool              `json:"due"`
	Progress   int64             `json:"progress"`
	Percentage float64           `json:"percentage"`
	Completed  bool              `json:"completed"`
	Exceeded   bool              `json:"exceeded"`
	Streak     *streak.Report    `json:"streak,omitempty"`
	Checkpoint *model.Checkpoint `json:"checkpoint,omitempty"`
}

// Snapshot is a published view of all habits for one day.
type Snapshot struct {
	Version     uint64      `json:"version"`
	Day         string      `json:"day"`
	GeneratedAt time.Time   `json:"generated_at"`
	Habits      []HabitView `json:"habits"`
}

// Publisher writes snapshots to a directory.
type Publisher struct {
	dir string
}

// DefaultDir returns the default snapshot directory following XDG spec.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "rutin")
}

// NewPublisher creates a publisher writing into dir.
func NewPublisher(dir string) *Publisher {
	return &Publisher{dir: dir}
}

// Path returns the full snapshot file path.
func (p *Publisher) Path() string {
	return filepath.Join(p.dir, FileName)
}

// Publish writes the snapshot atomically (temp file + rename) and stamps it
// with the next version number. Readers therefore always see either the
// previous complete snapshot or the new complete one, never a partial write.
func (p *Publisher) Publish(s *Snapshot) error {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return err
	}

	prev, err := p.Load()
	if err == nil && prev != nil {
		s.Version = prev.Version + 1
	} else {
		s.Version = 1
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.dir, FileName+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p.Path())
}

// Load reads the current snapshot. A missing file yields (nil, nil): no
// snapshot has been published yet, which readers treat as "nothing to show".
func (p *Publisher) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
