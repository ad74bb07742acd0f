// Package editor implements speaker reconciliation for transcript content:
// detecting speakers, resolving display names, rewriting line-start labels
// and inserting new ones. Every operation works on a copy of the item and
// never touches persistence.
package editor

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Editor errors
var (
	ErrSpeakerNotFound      = errors.New("speaker not found")
	ErrEmptyName            = errors.New("speaker name is empty")
	ErrInvalidName          = errors.New("invalid speaker name")
	ErrConfirmationRequired = errors.New("deleting a speaker requires confirmation")
	ErrInvalidMerge         = errors.New("source and target must be two different speakers")
	ErrEmptyTitle           = errors.New("title is empty")
	ErrUnknownAction        = errors.New("unknown editor action")
)

// Editor holds the locale-dependent parts of speaker handling
type Editor struct {
	locale language.Tag
	now    func() time.Time
	newID  func() string
}

// Option configures an Editor
type Option func(*Editor)

// WithClock overrides the time source used to refresh item dates
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithIDGenerator overrides synthetic speaker id generation
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) { e.newID = gen }
}

// New creates an Editor for the given locale
func New(locale language.Tag, opts ...Option) *Editor {
	e := &Editor{
		locale: locale,
		now:    time.Now,
		newID:  NewSpeakerID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Locale returns the editor locale
func (e *Editor) Locale() language.Tag {
	return e.locale
}

// NewSpeakerID generates a synthetic id for a manually added speaker
func NewSpeakerID() string {
	return "spk_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
