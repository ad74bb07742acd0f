package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Utterance is one diarized speech segment
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptItem is one recording in the editor archive
type TranscriptItem struct {
	ID           string                         `json:"id" gorm:"type:varchar(128);primaryKey"`
	Title        string                         `json:"title" gorm:"type:varchar(512);not null"`
	Date         time.Time                      `json:"date" gorm:"not null;index"`
	Content      string                         `json:"content" gorm:"type:text"`
	Utterances   datatypes.JSONSlice[Utterance] `json:"utterances"`
	SpeakerNames map[string]string              `json:"speakerNames" gorm:"type:text;serializer:json"`
	Processing   bool                           `json:"isProcessing,omitempty" gorm:"default:false"`
	AssemblyID   string                         `json:"assemblyId,omitempty" gorm:"type:varchar(128);index"`
}

// TableName specifies the table name for GORM
func (TranscriptItem) TableName() string {
	return "transcript_items"
}

// DefaultTitle is used when neither a file name nor a page title is known
const DefaultTitle = "Untitled"

// NewTranscriptItem creates an empty item for a blank editor
func NewTranscriptItem(title string, now time.Time) *TranscriptItem {
	if title == "" {
		title = DefaultTitle
	}
	return &TranscriptItem{
		ID:           "item-" + uuid.NewString(),
		Title:        title,
		Date:         now.UTC(),
		SpeakerNames: map[string]string{},
	}
}

// NewPendingItem creates the placeholder shown while a job is in flight
func NewPendingItem(title string, now time.Time) *TranscriptItem {
	item := NewTranscriptItem(title, now)
	item.ID = fmt.Sprintf("pending-%d", now.UnixMilli())
	item.Processing = true
	return item
}

// CompletedItemID derives the id of an item produced by a finished job
func CompletedItemID(transcriptID string, now time.Time) string {
	return fmt.Sprintf("%s-%d", transcriptID, now.UnixMilli())
}

// Clone returns a deep copy so reducers never mutate shared state
func (t *TranscriptItem) Clone() *TranscriptItem {
	if t == nil {
		return nil
	}
	c := *t
	if t.Utterances != nil {
		c.Utterances = append(datatypes.JSONSlice[Utterance]{}, t.Utterances...)
	}
	c.SpeakerNames = make(map[string]string, len(t.SpeakerNames))
	for k, v := range t.SpeakerNames {
		c.SpeakerNames[k] = v
	}
	return &c
}

// Touch refreshes the sort key after a mutation
func (t *TranscriptItem) Touch(now time.Time) {
	t.Date = now.UTC()
}
