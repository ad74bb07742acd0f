package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// Cursor is the editor viewport state a client restores after a splice
type Cursor struct {
	Caret     int `json:"caret"`
	ScrollTop int `json:"scroll_top"`
}

// labelBlock is the text inserted for a speaker turn
func labelBlock(name string) string {
	return "\n\n" + name + ":\n"
}

// InsertAtCursor splices a label block for id at position (a rune offset,
// clamped to content). The returned cursor puts the caret at the end of the
// block and keeps the scroll offset the client had before the splice.
func (e *Editor) InsertAtCursor(item *entities.TranscriptItem, id string, position, scrollTop int) (Cursor, error) {
	e.materialize(item)
	if !HasSpeaker(item, id) {
		return Cursor{}, fmt.Errorf("%w: %s", ErrSpeakerNotFound, id)
	}
	return e.splice(item, e.Upper(labelFor(item, id)), position, scrollTop), nil
}

func (e *Editor) splice(item *entities.TranscriptItem, name string, position, scrollTop int) Cursor {
	block := labelBlock(name)
	at := byteOffset(item.Content, position)
	item.Content = item.Content[:at] + block + item.Content[at:]
	return Cursor{
		Caret:     runeOffset(item.Content, at) + utf8.RuneCountInString(block),
		ScrollTop: scrollTop,
	}
}

// AddNewSpeaker registers a manually added speaker under a synthetic id. The
// name is upper-cased and de-duplicated. When position is set a label block
// is also inserted there; otherwise content is left alone.
func (e *Editor) AddNewSpeaker(item *entities.TranscriptItem, name string, position *int, scrollTop int) (string, string, *Cursor, error) {
	normalized, err := e.NormalizeName(name)
	if err != nil {
		return "", "", nil, err
	}
	e.materialize(item)

	finalName := UniqueName(item, "", normalized)
	id := e.newID()
	item.SpeakerNames[id] = finalName

	if position == nil {
		return id, finalName, nil, nil
	}
	cursor := e.splice(item, finalName, *position, scrollTop)
	return id, finalName, &cursor, nil
}

// CommitSpeakerMode handles Enter while speaker mode is on: the text typed
// since the start of the caret's line becomes a new speaker and is replaced
// by "NAME:\n". It reports false, leaving item untouched, when nothing was
// typed.
func (e *Editor) CommitSpeakerMode(item *entities.TranscriptItem, caret, scrollTop int) (string, string, Cursor, bool, error) {
	e.materialize(item)

	at := byteOffset(item.Content, caret)
	lineStart := strings.LastIndex(item.Content[:at], "\n") + 1
	typed := strings.TrimSpace(item.Content[lineStart:at])
	if typed == "" {
		return "", "", Cursor{Caret: caret, ScrollTop: scrollTop}, false, nil
	}

	normalized, err := e.NormalizeName(typed)
	if err != nil {
		return "", "", Cursor{}, false, err
	}
	finalName := UniqueName(item, "", normalized)
	id := e.newID()
	item.SpeakerNames[id] = finalName

	block := finalName + ":\n"
	item.Content = item.Content[:lineStart] + block + item.Content[at:]
	return id, finalName, Cursor{
		Caret:     runeOffset(item.Content, lineStart) + utf8.RuneCountInString(block),
		ScrollTop: scrollTop,
	}, true, nil
}
