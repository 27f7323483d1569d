package ingest

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

// Watcher periodically scans a drop directory and submits an ingestion job
// for every feed file it has not seen before. Seen paths are tracked for the
// process lifetime only; a restart re-submits existing files, which is safe
// because duplicate event ids are no-ops in the store.
type Watcher struct {
	cfg    config.WatchConfig
	svc    *Service
	logger *utils.Logger

	mu   sync.Mutex
	cron *cron.Cron
	seen map[string]struct{}
}

func NewWatcher(cfg config.WatchConfig, svc *Service, logger *utils.Logger) *Watcher {
	return &Watcher{cfg: cfg, svc: svc, logger: logger, seen: map[string]struct{}{}}
}

func (w *Watcher) StartWithContext(ctx context.Context) {
	if w == nil || w.svc == nil || !w.cfg.Enabled {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return
	}
	c := cron.New()
	if _, err := c.AddFunc(w.cfg.EffectiveSchedule(), func() { w.ScanOnce() }); err != nil {
		w.logger.Errorf("WATCH bad schedule %q: %v", w.cfg.EffectiveSchedule(), err)
		return
	}
	c.Start()
	w.cron = c
	w.logger.Printf("WATCH started dir=%s schedule=%s", w.cfg.Dir, w.cfg.EffectiveSchedule())
}

func (w *Watcher) StopWithContext(ctx context.Context) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c == nil {
		return nil
	}
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ScanOnce submits unseen feed files and returns how many it submitted.
func (w *Watcher) ScanOnce() int {
	matches, err := filepath.Glob(filepath.Join(w.cfg.Dir, w.cfg.EffectivePattern()))
	if err != nil {
		w.logger.Errorf("WATCH scan %s: %v", w.cfg.Dir, err)
		return 0
	}
	sort.Strings(matches)
	submitted := 0
	for _, path := range matches {
		w.mu.Lock()
		_, dup := w.seen[path]
		if !dup {
			w.seen[path] = struct{}{}
		}
		w.mu.Unlock()
		if dup {
			continue
		}
		jobID := w.svc.Submit(path)
		w.logger.Printf("WATCH submitted %s job=%s", path, jobID)
		submitted++
	}
	return submitted
}
