package editor

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// ActionType names a mutation of a transcript item
type ActionType string

const (
	ActionEditContent       ActionType = "EDIT_CONTENT"
	ActionRenameTitle       ActionType = "RENAME_TITLE"
	ActionRenameSpeaker     ActionType = "RENAME_SPEAKER"
	ActionDeleteSpeaker     ActionType = "DELETE_SPEAKER"
	ActionMergeSpeakers     ActionType = "MERGE_SPEAKERS"
	ActionInsertLabel       ActionType = "INSERT_LABEL"
	ActionAddSpeaker        ActionType = "ADD_SPEAKER"
	ActionSpeakerModeCommit ActionType = "SPEAKER_MODE_COMMIT"
)

// Action is a single editor mutation. Only the fields relevant to Type are read.
type Action struct {
	Type      ActionType
	SpeakerID string
	Name      string
	Source    string
	Target    string
	Confirmed bool
	Position  *int
	ScrollTop int
	Content   string
	Title     string
}

// Outcome is the result of applying an Action
type Outcome struct {
	Item        *entities.TranscriptItem
	SpeakerID   string
	SpeakerName string
	Cursor      *Cursor
	// Changed is false when the action was a no-op (empty speaker-mode line)
	Changed bool
}

// Reduce applies action to a copy of item. On success the copy's date is
// refreshed; the input item is never modified.
func (e *Editor) Reduce(item *entities.TranscriptItem, action Action) (*Outcome, error) {
	if item == nil {
		return nil, entities.ErrTranscriptNotFound
	}
	next := item.Clone()
	out := &Outcome{Item: next, Changed: true}

	switch action.Type {
	case ActionEditContent:
		next.Content = action.Content
		next.Utterances = nil

	case ActionRenameTitle:
		title := strings.TrimSpace(action.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		next.Title = title

	case ActionRenameSpeaker:
		id, name, err := e.RenameSpeaker(next, action.SpeakerID, action.Name)
		if err != nil {
			return nil, err
		}
		out.SpeakerID, out.SpeakerName = id, name

	case ActionDeleteSpeaker:
		if err := e.DeleteSpeaker(next, action.SpeakerID, action.Confirmed); err != nil {
			return nil, err
		}
		out.SpeakerID = action.SpeakerID

	case ActionMergeSpeakers:
		if err := e.MergeSpeakers(next, action.Source, action.Target); err != nil {
			return nil, err
		}
		out.SpeakerID = action.Target

	case ActionInsertLabel:
		if action.Position == nil {
			return nil, fmt.Errorf("%w: insert requires a position", ErrUnknownAction)
		}
		cursor, err := e.InsertAtCursor(next, action.SpeakerID, *action.Position, action.ScrollTop)
		if err != nil {
			return nil, err
		}
		out.SpeakerID = action.SpeakerID
		out.Cursor = &cursor

	case ActionAddSpeaker:
		id, name, cursor, err := e.AddNewSpeaker(next, action.Name, action.Position, action.ScrollTop)
		if err != nil {
			return nil, err
		}
		out.SpeakerID, out.SpeakerName, out.Cursor = id, name, cursor

	case ActionSpeakerModeCommit:
		caret := 0
		if action.Position != nil {
			caret = *action.Position
		}
		id, name, cursor, changed, err := e.CommitSpeakerMode(next, caret, action.ScrollTop)
		if err != nil {
			return nil, err
		}
		out.SpeakerID, out.SpeakerName, out.Cursor, out.Changed = id, name, &cursor, changed
		if !changed {
			out.Item = item
			return out, nil
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}

	next.Touch(e.now())
	return out, nil
}
