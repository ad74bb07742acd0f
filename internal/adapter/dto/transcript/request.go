package transcript

// CreateTranscriptRequest opens a blank editor
type CreateTranscriptRequest struct {
	Title string `json:"title" validate:"omitempty,max=512"`
}

// DeleteAllRequest must carry confirm=true to wipe the archive
type DeleteAllRequest struct {
	Confirm bool `query:"confirm"`
}

// RenameTitleRequest renames an item
type RenameTitleRequest struct {
	Title string `json:"title" validate:"required,max=512"`
}

// EditContentRequest carries a full-text edit from the editor
type EditContentRequest struct {
	Content string `json:"content"`
}

// RenameSpeakerRequest renames one speaker everywhere in the item
type RenameSpeakerRequest struct {
	Name string `json:"name" validate:"required"`
}

// DeleteSpeakerRequest removes a speaker's label blocks
type DeleteSpeakerRequest struct {
	Confirm bool `query:"confirm"`
}

// MergeSpeakersRequest relabels source's blocks as target
type MergeSpeakersRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// AddSpeakerRequest creates a new speaker, optionally inserting its label
type AddSpeakerRequest struct {
	Name      string `json:"name" validate:"required"`
	Position  *int   `json:"position,omitempty" validate:"omitempty,min=0"`
	ScrollTop int    `json:"scroll_top"`
}

// InsertLabelRequest inserts an existing speaker's label at the caret
type InsertLabelRequest struct {
	SpeakerID string `json:"speaker_id" validate:"required"`
	Position  int    `json:"position" validate:"min=0"`
	ScrollTop int    `json:"scroll_top"`
}

// SpeakerModeRequest toggles speaker mode
type SpeakerModeRequest struct {
	Enabled bool `json:"enabled"`
}

// KeyRequest forwards a key press from the editor
type KeyRequest struct {
	Key       string `json:"key" validate:"required,oneof=Enter Escape"`
	Caret     int    `json:"caret" validate:"min=0"`
	ScrollTop int    `json:"scroll_top"`
}

// SubmitURLRequest starts a transcription from a remote recording
type SubmitURLRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title" validate:"omitempty,max=512"`
}
