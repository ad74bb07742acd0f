package editor

import (
	"strings"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// DisplayText is the text shown in the editor: a render of the diarized
// utterances while they exist, the stored content otherwise.
func (e *Editor) DisplayText(item *entities.TranscriptItem) string {
	if item == nil {
		return ""
	}
	if len(item.Utterances) == 0 {
		return item.Content
	}
	return e.RenderUtterances(item, item.Utterances)
}

// RenderUtterances formats utterances as "NAME:\ntext\n" blocks separated by
// a blank line.
func (e *Editor) RenderUtterances(item *entities.TranscriptItem, utterances []entities.Utterance) string {
	blocks := make([]string, 0, len(utterances))
	for _, u := range utterances {
		blocks = append(blocks, e.Upper(e.SpeakerName(item, u.Speaker))+":\n"+strings.TrimSpace(u.Text)+"\n")
	}
	return strings.Join(blocks, "\n")
}

// materialize turns a diarized item into plain content before it is edited
func (e *Editor) materialize(item *entities.TranscriptItem) {
	if item.SpeakerNames == nil {
		item.SpeakerNames = map[string]string{}
	}
	if len(item.Utterances) == 0 {
		return
	}
	item.Content = e.RenderUtterances(item, item.Utterances)
	item.Utterances = nil
}
