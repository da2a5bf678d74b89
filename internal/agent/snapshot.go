package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotStore persists raw page HTML for failed scrapes so selector
// drift and challenge pages can be inspected after the run.
type SnapshotStore struct {
	dir string
	log zerolog.Logger
}

func NewSnapshotStore(dir string, log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{dir: dir, log: log}
}

// Save writes the page under <dir>/<site>_<reason>_<id>.html and returns
// the path. Snapshot failures are logged and swallowed, a scrape never
// fails because its post-mortem could not be written.
func (s *SnapshotStore) Save(site, reason, pageHTML string) string {
	if s == nil || s.dir == "" || pageHTML == "" {
		return ""
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("snapshot dir unavailable")
		return ""
	}
	name := fmt.Sprintf("%s_%s_%s.html", site, reason, uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(pageHTML), 0o644); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("snapshot write failed")
		return ""
	}
	s.log.Debug().
		Str("site", site).
		Str("reason", reason).
		Str("path", path).
		Time("at", time.Now()).
		Msg("saved failure snapshot")
	return path
}
