package transcript

import (
	"time"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	transcriptUsecase "github.com/johnquangdev/lasto/internal/usecase/transcript"
)

// TranscriptResponse is an item as shown in the archive
type TranscriptResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Date         time.Time         `json:"date"`
	Content      string            `json:"content"`
	SpeakerNames map[string]string `json:"speaker_names"`
	Processing   bool              `json:"processing"`
}

// NewTranscriptResponse converts an entity
func NewTranscriptResponse(item *entities.TranscriptItem) *TranscriptResponse {
	if item == nil {
		return nil
	}
	return &TranscriptResponse{
		ID:           item.ID,
		Title:        item.Title,
		Date:         item.Date,
		Content:      item.Content,
		SpeakerNames: item.SpeakerNames,
		Processing:   item.Processing,
	}
}

// NewTranscriptListResponse converts a list of entities
func NewTranscriptListResponse(items []*entities.TranscriptItem) []*TranscriptResponse {
	out := make([]*TranscriptResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewTranscriptResponse(item))
	}
	return out
}

// TextResponse is the rendered display text of an item
type TextResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CursorResponse tells the editor where to put the caret after an insert
type CursorResponse struct {
	Caret     int `json:"caret"`
	ScrollTop int `json:"scroll_top"`
}

// EditResponse is returned by every editor mutation
type EditResponse struct {
	Transcript  *TranscriptResponse `json:"transcript"`
	SpeakerID   string              `json:"speaker_id,omitempty"`
	SpeakerName string              `json:"speaker_name,omitempty"`
	Cursor      *CursorResponse     `json:"cursor,omitempty"`
	Changed     bool                `json:"changed"`
}

// NewEditResponse converts an editor outcome
func NewEditResponse(out *editor.Outcome) *EditResponse {
	if out == nil {
		return nil
	}
	resp := &EditResponse{
		Transcript:  NewTranscriptResponse(out.Item),
		SpeakerID:   out.SpeakerID,
		SpeakerName: out.SpeakerName,
		Changed:     out.Changed,
	}
	if out.Cursor != nil {
		resp.Cursor = &CursorResponse{Caret: out.Cursor.Caret, ScrollTop: out.Cursor.ScrollTop}
	}
	return resp
}

// KeyResponse is returned for a forwarded key press
type KeyResponse struct {
	Session *transcriptUsecase.Session `json:"session"`
	Edit    *EditResponse              `json:"edit,omitempty"`
}
