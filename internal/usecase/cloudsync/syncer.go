// Package cloudsync backs the transcript archive up to a remote key-value
// store and merges remote changes back in.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/domain/repositories"
	"github.com/johnquangdev/lasto/pkg/config"
)

// Backend stores a single backup document
type Backend interface {
	Name() string
	// Load returns entities.ErrRemoteEmpty when nothing was stored yet
	Load(ctx context.Context) (Document, error)
	Store(ctx context.Context, doc Document) error
}

// EditGuard tells the syncer which local items must not be overwritten
type EditGuard interface {
	EditsInFlight() bool
	IsEditing(id string) bool
}

// State is the coarse sync state shown to the user
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSynced  State = "synced"
	StateError   State = "error"
	StateSkipped State = "skipped"
)

// Status is a snapshot of the syncer
type Status struct {
	State     State      `json:"state"`
	Backend   string     `json:"backend"`
	LastPush  *time.Time `json:"last_push,omitempty"`
	LastPull  *time.Time `json:"last_pull,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Pulled    int        `json:"pulled"`
}

// Syncer pushes the archive after local changes and pulls periodically
type Syncer struct {
	backend   Backend
	repo      repositories.TranscriptRepository
	guard     EditGuard
	chunkSize int
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	// remote serializes every round trip to the backend
	remote sync.Mutex
	mu     sync.RWMutex
	status Status
	pushCh chan struct{}
}

// NewSyncer creates a syncer. A nil backend disables cloud sync.
func NewSyncer(backend Backend, repo repositories.TranscriptRepository, guard EditGuard, cfg config.SyncConfig, logger *zap.Logger) *Syncer {
	name := "none"
	if backend != nil {
		name = backend.Name()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 50
	}
	return &Syncer{
		backend:   backend,
		repo:      repo,
		guard:     guard,
		chunkSize: chunkSize,
		interval:  cfg.PullInterval,
		logger:    logger,
		now:       time.Now,
		status:    Status{State: StateIdle, Backend: name},
		pushCh:    make(chan struct{}, 1),
	}
}

// Enabled reports whether a backend is configured
func (s *Syncer) Enabled() bool {
	return s.backend != nil
}

// Status returns the current sync status
func (s *Syncer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Syncer) setStatus(fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.status)
}

// SchedulePush queues a push for the Run loop. Bursts collapse into one.
func (s *Syncer) SchedulePush() {
	if s.backend == nil {
		return
	}
	select {
	case s.pushCh <- struct{}{}:
	default:
	}
}

// Run handles scheduled pushes and periodic pulls until ctx is done
func (s *Syncer) Run(ctx context.Context) {
	if s.backend == nil {
		return
	}

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	if s.logger != nil {
		s.logger.Info("☁️ Cloud sync started",
			zap.String("backend", s.backend.Name()),
			zap.Duration("pull_interval", s.interval),
		)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.pushCh:
			if err := s.Push(ctx); err != nil && !errors.Is(err, entities.ErrCloudSyncDisabled) && s.logger != nil {
				s.logger.Error("❌ Auto-backup failed", zap.Error(err))
			}
		case <-tick:
			if _, err := s.Pull(ctx); err != nil && !errors.Is(err, entities.ErrCloudSyncDisabled) && s.logger != nil {
				s.logger.Error("❌ Cloud pull failed", zap.Error(err))
			}
		}
	}
}

// Push uploads the whole archive. A rate-limited push is skipped and
// reported through Status, not as an error.
func (s *Syncer) Push(ctx context.Context) error {
	if s.backend == nil {
		return entities.ErrCloudSyncDisabled
	}
	s.remote.Lock()
	defer s.remote.Unlock()

	s.setStatus(func(st *Status) { st.State = StateSyncing })

	items, err := s.repo.List(ctx)
	if err != nil {
		return s.failed("push", fmt.Errorf("failed to list transcripts: %w", err))
	}
	doc, err := Encode(items, s.chunkSize, s.now())
	if err != nil {
		return s.failed("push", err)
	}

	if err := s.backend.Store(ctx, doc); err != nil {
		switch {
		case errors.Is(err, entities.ErrRateLimited):
			s.skipped("push", err)
			return nil
		case errors.Is(err, entities.ErrCloudSyncDisabled):
			s.setStatus(func(st *Status) { st.State = StateIdle })
			return err
		}
		return s.failed("push", err)
	}

	now := s.now().UTC()
	s.setStatus(func(st *Status) {
		st.State = StateSynced
		st.LastPush = &now
		st.LastError = ""
	})
	if s.logger != nil {
		s.logger.Info("☁️ Archive pushed", zap.Int("items", len(items)))
	}
	return nil
}

// Pull fetches the remote archive and merges it into the local store,
// returning how many items were written. It does nothing while edits are
// in flight.
func (s *Syncer) Pull(ctx context.Context) (int, error) {
	if s.backend == nil {
		return 0, entities.ErrCloudSyncDisabled
	}
	if s.guard != nil && s.guard.EditsInFlight() {
		s.skipped("pull", errors.New("edits in flight"))
		return 0, nil
	}

	s.remote.Lock()
	defer s.remote.Unlock()

	s.setStatus(func(st *Status) { st.State = StateSyncing })

	doc, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, entities.ErrRemoteEmpty):
		s.pulled(0)
		return 0, nil
	case errors.Is(err, entities.ErrRateLimited):
		s.skipped("pull", err)
		return 0, nil
	case errors.Is(err, entities.ErrCloudSyncDisabled):
		s.setStatus(func(st *Status) { st.State = StateIdle })
		return 0, err
	case err != nil:
		return 0, s.failed("pull", err)
	}

	remote, _, err := Decode(doc)
	if err != nil {
		return 0, s.failed("pull", err)
	}
	local, err := s.repo.List(ctx)
	if err != nil {
		return 0, s.failed("pull", fmt.Errorf("failed to list transcripts: %w", err))
	}

	var skip func(string) bool
	if s.guard != nil {
		skip = s.guard.IsEditing
	}
	changed := Merge(local, remote, skip)
	for _, item := range changed {
		if err := s.repo.Save(ctx, item); err != nil {
			return 0, s.failed("pull", fmt.Errorf("failed to save %s: %w", item.ID, err))
		}
	}

	s.pulled(len(changed))
	if len(changed) > 0 && s.logger != nil {
		s.logger.Info("☁️ Remote changes merged", zap.Int("items", len(changed)))
	}
	return len(changed), nil
}

func (s *Syncer) pulled(n int) {
	now := s.now().UTC()
	s.setStatus(func(st *Status) {
		st.State = StateSynced
		st.LastPull = &now
		st.LastError = ""
		st.Pulled = n
	})
}

func (s *Syncer) skipped(op string, err error) {
	s.setStatus(func(st *Status) {
		st.State = StateSkipped
		st.LastError = err.Error()
	})
	if s.logger != nil {
		s.logger.Debug("☁️ Cloud sync skipped", zap.String("operation", op), zap.Error(err))
	}
}

func (s *Syncer) failed(op string, err error) error {
	s.setStatus(func(st *Status) {
		st.State = StateError
		st.LastError = err.Error()
	})
	return fmt.Errorf("cloud %s failed: %w", op, err)
}
