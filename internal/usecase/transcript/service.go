package transcript

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/domain/repositories"
	"github.com/johnquangdev/lasto/internal/infrastructure/cache"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/pkg/config"
)

// Key names accepted by HandleKey
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// ErrUnknownKey is returned for keys the editor session does not handle
var ErrUnknownKey = errors.New("unsupported key")

// PushScheduler queues a cloud backup after a local change
type PushScheduler interface {
	SchedulePush()
}

// Speaker is one entry of an item's speaker list
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the per-item editor state kept between requests
type Session struct {
	ItemID       string `json:"item_id"`
	SpeakerMode  bool   `json:"speaker_mode"`
	TitleEditing bool   `json:"title_editing"`
}

// KeyResult is returned by HandleKey
type KeyResult struct {
	Session *Session        `json:"session"`
	Outcome *editor.Outcome `json:"-"`
}

type draft struct {
	item  *entities.TranscriptItem
	timer *time.Timer
}

// Service is the transcript store: it owns loading, mutating and saving
// items and the per-item editor sessions.
type Service struct {
	repo     repositories.TranscriptRepository
	editor   *editor.Editor
	edits    *cache.MemoryStore
	pusher   PushScheduler
	debounce time.Duration
	editTTL  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	drafts   map[string]*draft
	sessions map[string]*Session
}

// NewService creates a transcript service. pusher and logger may be nil.
func NewService(
	repo repositories.TranscriptRepository,
	ed *editor.Editor,
	edits *cache.MemoryStore,
	pusher PushScheduler,
	cfg config.EditorConfig,
	logger *zap.Logger,
) *Service {
	if edits == nil {
		edits = cache.NewMemoryStore()
	}
	return &Service{
		repo:     repo,
		editor:   ed,
		edits:    edits,
		pusher:   pusher,
		debounce: cfg.SaveDebounce,
		editTTL:  cfg.EditTTL,
		logger:   logger,
		drafts:   make(map[string]*draft),
		sessions: make(map[string]*Session),
	}
}

// SetPusher wires the cloud backup once it exists
func (s *Service) SetPusher(p PushScheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pusher = p
}

func (s *Service) schedulePush() {
	s.mu.Lock()
	p := s.pusher
	s.mu.Unlock()
	if p != nil {
		p.SchedulePush()
	}
}

// Editor exposes the speaker logic used by the store
func (s *Service) Editor() *editor.Editor {
	return s.editor
}

// List returns every item newest first, including unsaved drafts
func (s *Service) List(ctx context.Context) ([]*entities.TranscriptItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	s.mu.Lock()
	for i, item := range items {
		if d, ok := s.drafts[item.ID]; ok {
			items[i] = d.item.Clone()
		}
	}
	s.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

// Get returns the current version of an item
func (s *Service) Get(ctx context.Context, id string) (*entities.TranscriptItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.current(ctx, id)
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// current must be called with mu held
func (s *Service) current(ctx context.Context, id string) (*entities.TranscriptItem, error) {
	if d, ok := s.drafts[id]; ok {
		return d.item, nil
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrTranscriptNotFound, id)
	}
	return item, nil
}

// DisplayText returns the text shown in the editor for an item
func (s *Service) DisplayText(ctx context.Context, id string) (string, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.editor.DisplayText(item), nil
}

// Speakers lists the speakers of an item with their display names
func (s *Service) Speakers(ctx context.Context, id string) ([]Speaker, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := editor.AllSpeakers(item)
	out := make([]Speaker, 0, len(ids))
	for _, sid := range ids {
		out = append(out, Speaker{ID: sid, Name: s.editor.SpeakerName(item, sid)})
	}
	return out, nil
}

// CreateBlank creates an empty item
func (s *Service) CreateBlank(ctx context.Context, title string) (*entities.TranscriptItem, error) {
	item := entities.NewTranscriptItem(title, time.Now())
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("📝 Transcript created", zap.String("item_id", item.ID))
	}
	s.schedulePush()
	return item, nil
}

// Delete removes a single item
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, err := s.current(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.dropDraft(id)
	delete(s.sessions, id)
	s.edits.Delete(id)
	err := s.repo.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Transcript deleted", zap.String("item_id", id))
	}
	s.schedulePush()
	return nil
}

// DeleteAll clears the archive
func (s *Service) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	for id := range s.drafts {
		s.dropDraft(id)
		s.edits.Delete(id)
	}
	s.sessions = make(map[string]*Session)
	err := s.repo.DeleteAll(ctx)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to delete transcripts: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ All transcripts deleted")
	}
	s.schedulePush()
	return nil
}

// Dispatch applies an editor action and persists the result immediately.
// Any unsaved draft of the item is folded into the same save.
func (s *Service) Dispatch(ctx context.Context, id string, action editor.Action) (*editor.Outcome, error) {
	s.mu.Lock()
	item, err := s.current(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out, err := s.editor.Reduce(item, action)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !out.Changed {
		s.mu.Unlock()
		return out, nil
	}
	if err := s.repo.Save(ctx, out.Item); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}
	s.dropDraft(id)
	s.edits.Delete(id)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("✏️ Transcript updated",
			zap.String("item_id", id),
			zap.String("action", string(action.Type)),
			zap.String("speaker_id", out.SpeakerID),
		)
	}
	s.schedulePush()
	return out, nil
}

// EditContent records a free-text edit. The save is debounced: every edit
// restarts the item's timer and only the last content is written.
func (s *Service) EditContent(ctx context.Context, id, content string) (*entities.TranscriptItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.current(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.editor.Reduce(item, editor.Action{Type: editor.ActionEditContent, Content: content})
	if err != nil {
		return nil, err
	}

	d, ok := s.drafts[id]
	if !ok {
		d = &draft{}
		d.timer = time.AfterFunc(s.debounce, func() {
			if err := s.Flush(context.Background(), id); err != nil && s.logger != nil {
				s.logger.Error("❌ Debounced save failed", zap.String("item_id", id), zap.Error(err))
			}
		})
		s.drafts[id] = d
	} else {
		d.timer.Reset(s.debounce)
	}
	d.item = out.Item
	s.edits.Set(id, "content", s.editTTL)

	return out.Item.Clone(), nil
}

// Flush saves an item's pending draft now and cancels its timer
func (s *Service) Flush(ctx context.Context, id string) error {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.edits.Delete(id)
		s.mu.Unlock()
		return nil
	}
	d.timer.Stop()
	if err := s.repo.Save(ctx, d.item); err != nil {
		d.timer.Reset(s.debounce)
		s.mu.Unlock()
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	delete(s.drafts, id)
	s.edits.Delete(id)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("💾 Draft saved", zap.String("item_id", id))
	}
	s.schedulePush()
	return nil
}

// FlushAll saves every pending draft
func (s *Service) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.drafts))
	for id := range s.drafts {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := s.Flush(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// dropDraft must be called with mu held
func (s *Service) dropDraft(id string) {
	if d, ok := s.drafts[id]; ok {
		d.timer.Stop()
		delete(s.drafts, id)
	}
}

// session must be called with mu held
func (s *Service) session(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ItemID: id}
		s.sessions[id] = sess
	}
	return sess
}

// Session returns a copy of the editor session of an item
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.current(ctx, id); err != nil {
		return nil, err
	}
	cp := *s.session(id)
	return &cp, nil
}

// SetSpeakerMode turns speaker mode on or off for an item
func (s *Service) SetSpeakerMode(ctx context.Context, id string, on bool) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.current(ctx, id); err != nil {
		return nil, err
	}
	sess := s.session(id)
	sess.SpeakerMode = on
	cp := *sess
	return &cp, nil
}

// HandleKey processes a key pressed in the editor. Enter in speaker mode
// commits the typed line as a new speaker and always leaves the mode, even
// when the commit fails; Escape leaves speaker mode. Enter
// outside speaker mode is not consumed and returns a nil Outcome.
func (s *Service) HandleKey(ctx context.Context, id, key string, caret, scrollTop int) (*KeyResult, error) {
	s.mu.Lock()
	if _, err := s.current(ctx, id); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	sess := s.session(id)
	mode := sess.SpeakerMode
	s.mu.Unlock()

	result := &KeyResult{}
	switch key {
	case KeyEscape:
	case KeyEnter:
		if mode {
			out, err := s.Dispatch(ctx, id, editor.Action{
				Type:      editor.ActionSpeakerModeCommit,
				Position:  &caret,
				ScrollTop: scrollTop,
			})
			if err != nil {
				s.mu.Lock()
				s.session(id).SpeakerMode = false
				s.mu.Unlock()
				return nil, err
			}
			result.Outcome = out
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	s.mu.Lock()
	sess = s.session(id)
	sess.SpeakerMode = false
	cp := *sess
	s.mu.Unlock()
	result.Session = &cp
	return result, nil
}

// BeginTitleEdit marks the item's title as being edited. Cloud pulls are
// held off until EndTitleEdit or RenameTitle.
func (s *Service) BeginTitleEdit(ctx context.Context, id string) (*Session, error) {
	return s.setTitleEditing(ctx, id, true)
}

// EndTitleEdit closes the title editor without saving
func (s *Service) EndTitleEdit(ctx context.Context, id string) (*Session, error) {
	return s.setTitleEditing(ctx, id, false)
}

func (s *Service) setTitleEditing(ctx context.Context, id string, on bool) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.current(ctx, id); err != nil {
		return nil, err
	}
	sess := s.session(id)
	sess.TitleEditing = on
	cp := *sess
	return &cp, nil
}

// RenameTitle saves a new title and closes the title editor. A blank title
// is rejected and leaves the item unchanged.
func (s *Service) RenameTitle(ctx context.Context, id, title string) (*entities.TranscriptItem, error) {
	out, err := s.Dispatch(ctx, id, editor.Action{Type: editor.ActionRenameTitle, Title: title})
	if _, endErr := s.EndTitleEdit(ctx, id); endErr != nil && err == nil {
		err = endErr
	}
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// EditsInFlight reports whether any item has unsaved or in-progress edits
func (s *Service) EditsInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.drafts) > 0 || s.edits.Len() > 0 {
		return true
	}
	for _, sess := range s.sessions {
		if sess.TitleEditing {
			return true
		}
	}
	return false
}

// IsEditing reports whether the item has unsaved or in-progress edits
func (s *Service) IsEditing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; ok {
		return true
	}
	if s.edits.Has(id) {
		return true
	}
	sess, ok := s.sessions[id]
	return ok && sess.TitleEditing
}
