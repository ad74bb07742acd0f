package transcription

import (
	"strings"
	"time"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/pkg/ai"
)

// Assemble turns a finished transcript into an editor item. Utterances are
// cleaned, junk is dropped, and each diarization label gets an ordinal
// display name in order of first appearance.
func Assemble(ed *editor.Editor, cleaner *Cleaner, tr *ai.Transcript, title string, now time.Time) *entities.TranscriptItem {
	item := entities.NewTranscriptItem(title, now)
	item.ID = entities.CompletedItemID(tr.ID, now)
	item.AssemblyID = tr.ID

	for i, u := range tr.Utterances {
		if IsJunk(u.Text, i) {
			continue
		}
		text := cleaner.Clean(u.Text)
		if text == "" {
			continue
		}
		speaker := strings.TrimSpace(u.Speaker)
		if speaker == "" {
			speaker = "A"
		}
		if _, ok := item.SpeakerNames[speaker]; !ok {
			item.SpeakerNames[speaker] = ed.OrdinalName(len(item.SpeakerNames))
		}
		item.Utterances = append(item.Utterances, entities.Utterance{Speaker: speaker, Text: text})
	}

	if len(item.Utterances) > 0 {
		item.Content = ed.RenderUtterances(item, item.Utterances)
	} else {
		item.Content = cleaner.Clean(tr.Text)
	}
	return item
}
