package editor

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// RenameSpeaker renames id to newName, rewriting every line-start label.
// A name colliding with another speaker is suffixed (_1, _2, ...). An
// implicit speaker receives a synthetic id; the id actually used is returned.
func (e *Editor) RenameSpeaker(item *entities.TranscriptItem, id, newName string) (string, string, error) {
	newName = strings.TrimSpace(newName)
	if err := validateName(newName); err != nil {
		return "", "", err
	}
	e.materialize(item)
	if !HasSpeaker(item, id) {
		return "", "", fmt.Errorf("%w: %s", ErrSpeakerNotFound, id)
	}

	oldLabel := labelFor(item, id)
	finalName := UniqueName(item, id, newName)

	item.Content = labelLinePattern(oldLabel, "").ReplaceAllLiteralString(item.Content, finalName+":")

	key := id
	if _, ok := item.SpeakerNames[id]; !ok {
		key = e.newID()
	}
	item.SpeakerNames[key] = finalName
	return key, finalName, nil
}

// DeleteSpeaker drops id from the speaker map and strips its labels from
// content, keeping the text that followed each label.
func (e *Editor) DeleteSpeaker(item *entities.TranscriptItem, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	e.materialize(item)
	if !HasSpeaker(item, id) {
		return fmt.Errorf("%w: %s", ErrSpeakerNotFound, id)
	}

	label := labelFor(item, id)
	delete(item.SpeakerNames, id)
	item.Content = labelLinePattern(label, `[ \t]*(\r?\n)?`).ReplaceAllLiteralString(item.Content, "")
	return nil
}

// MergeSpeakers relabels every source label as target and forgets source
func (e *Editor) MergeSpeakers(item *entities.TranscriptItem, source, target string) error {
	if source == "" || target == "" || source == target {
		return ErrInvalidMerge
	}
	e.materialize(item)
	if !HasSpeaker(item, source) {
		return fmt.Errorf("%w: %s", ErrSpeakerNotFound, source)
	}
	if !HasSpeaker(item, target) {
		return fmt.Errorf("%w: %s", ErrSpeakerNotFound, target)
	}

	sourceLabel := labelFor(item, source)
	targetLabel := labelFor(item, target)
	if sourceLabel == targetLabel {
		delete(item.SpeakerNames, source)
		return nil
	}

	item.Content = labelLinePattern(sourceLabel, "").ReplaceAllLiteralString(item.Content, targetLabel+":")
	delete(item.SpeakerNames, source)
	return nil
}
