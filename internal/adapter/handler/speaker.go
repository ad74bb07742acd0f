package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/adapter/dto/transcript"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	transcriptUsecase "github.com/johnquangdev/lasto/internal/usecase/transcript"
)

// Speaker handles speaker management inside a transcript
type Speaker struct {
	svc    *transcriptUsecase.Service
	logger *zap.Logger
}

// NewSpeakerHandler creates a new speaker handler
func NewSpeakerHandler(svc *transcriptUsecase.Service, logger *zap.Logger) *Speaker {
	return &Speaker{svc: svc, logger: logger}
}

func (h *Speaker) dispatch(c echo.Context, action editor.Action) error {
	out, err := h.svc.Dispatch(c.Request().Context(), c.Param("id"), action)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.NewEditResponse(out))
}

// List handles GET /transcripts/:id/speakers
// @Summary      List speakers
// @Description  Speakers in order of first appearance, with display names
// @Tags         Speakers
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {array}   transcriptUsecase.Speaker
// @Router       /transcripts/{id}/speakers [get]
func (h *Speaker) List(c echo.Context) error {
	speakers, err := h.svc.Speakers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, speakers)
}

// Add handles POST /transcripts/:id/speakers
// @Summary      Add a speaker
// @Description  Creates a speaker and, when position is given, inserts its label at the caret
// @Tags         Speakers
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Item ID"
// @Param        request  body      transcript.AddSpeakerRequest  true  "Speaker"
// @Success      200      {object}  transcript.EditResponse
// @Router       /transcripts/{id}/speakers [post]
func (h *Speaker) Add(c echo.Context) error {
	var req transcript.AddSpeakerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.dispatch(c, editor.Action{
		Type:      editor.ActionAddSpeaker,
		Name:      req.Name,
		Position:  req.Position,
		ScrollTop: req.ScrollTop,
	})
}

// Rename handles PUT /transcripts/:id/speakers/:speakerId
// @Summary      Rename a speaker
// @Tags         Speakers
// @Accept       json
// @Produce      json
// @Param        id         path      string                           true  "Item ID"
// @Param        speakerId  path      string                           true  "Speaker ID or label"
// @Param        request    body      transcript.RenameSpeakerRequest  true  "New name"
// @Success      200        {object}  transcript.EditResponse
// @Failure      404        {object}  map[string]interface{}  "Speaker not found"
// @Router       /transcripts/{id}/speakers/{speakerId} [put]
func (h *Speaker) Rename(c echo.Context) error {
	var req transcript.RenameSpeakerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.dispatch(c, editor.Action{
		Type:      editor.ActionRenameSpeaker,
		SpeakerID: speakerParam(c),
		Name:      req.Name,
	})
}

// Delete handles DELETE /transcripts/:id/speakers/:speakerId?confirm=true
func (h *Speaker) Delete(c echo.Context) error {
	var req transcript.DeleteSpeakerRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	return h.dispatch(c, editor.Action{
		Type:      editor.ActionDeleteSpeaker,
		SpeakerID: speakerParam(c),
		Confirmed: req.Confirm,
	})
}

// Merge handles POST /transcripts/:id/speakers/merge
func (h *Speaker) Merge(c echo.Context) error {
	var req transcript.MergeSpeakersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.dispatch(c, editor.Action{
		Type:   editor.ActionMergeSpeakers,
		Source: req.Source,
		Target: req.Target,
	})
}

// InsertLabel handles POST /transcripts/:id/labels
func (h *Speaker) InsertLabel(c echo.Context) error {
	var req transcript.InsertLabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	position := req.Position
	return h.dispatch(c, editor.Action{
		Type:      editor.ActionInsertLabel,
		SpeakerID: req.SpeakerID,
		Position:  &position,
		ScrollTop: req.ScrollTop,
	})
}

// SpeakerMode handles POST /transcripts/:id/speaker-mode
func (h *Speaker) SpeakerMode(c echo.Context) error {
	var req transcript.SpeakerModeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	session, err := h.svc.SetSpeakerMode(c.Request().Context(), c.Param("id"), req.Enabled)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, session)
}

// Key handles POST /transcripts/:id/speaker-mode/keys
// @Summary      Forward a key press
// @Description  Enter in speaker mode turns the caret line into a speaker label; Escape leaves speaker mode
// @Tags         Speakers
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Item ID"
// @Param        request  body      transcript.KeyRequest  true  "Key"
// @Success      200      {object}  transcript.KeyResponse
// @Router       /transcripts/{id}/speaker-mode/keys [post]
func (h *Speaker) Key(c echo.Context) error {
	var req transcript.KeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	res, err := h.svc.HandleKey(c.Request().Context(), c.Param("id"), req.Key, req.Caret, req.ScrollTop)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.KeyResponse{
		Session: res.Session,
		Edit:    transcript.NewEditResponse(res.Outcome),
	})
}
