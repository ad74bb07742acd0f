package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/adapter/dto/common"
	"github.com/johnquangdev/lasto/internal/adapter/dto/transcript"
	transcriptUsecase "github.com/johnquangdev/lasto/internal/usecase/transcript"
)

// Transcript handles archive and editor HTTP requests
type Transcript struct {
	svc    *transcriptUsecase.Service
	logger *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(svc *transcriptUsecase.Service, logger *zap.Logger) *Transcript {
	return &Transcript{svc: svc, logger: logger}
}

// List handles GET /transcripts
// @Summary      List transcripts
// @Description  Returns every item of the archive, newest first, including pending imports
// @Tags         Transcripts
// @Produce      json
// @Success      200  {object}  common.ListResponse
// @Router       /transcripts [get]
func (h *Transcript) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Data: transcript.NewTranscriptListResponse(items), Total: len(items)})
}

// Create handles POST /transcripts
// @Summary      Create a blank transcript
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        request  body      transcript.CreateTranscriptRequest  false  "Optional title"
// @Success      201      {object}  transcript.TranscriptResponse
// @Router       /transcripts [post]
func (h *Transcript) Create(c echo.Context) error {
	var req transcript.CreateTranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.svc.CreateBlank(c.Request().Context(), req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, transcript.NewTranscriptResponse(item))
}

// DeleteAll handles DELETE /transcripts?confirm=true
// @Summary      Delete the whole archive
// @Tags         Transcripts
// @Param        confirm  query  bool  true  "Must be true"
// @Success      200
// @Failure      428  {object}  map[string]interface{}  "Confirmation missing"
// @Router       /transcripts [delete]
func (h *Transcript) DeleteAll(c echo.Context) error {
	var req transcript.DeleteAllRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if !req.Confirm {
		return HandleError(h.logger, c, errors.ErrConfirmationRequired("delete_all"))
	}
	if err := h.svc.DeleteAll(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"deleted": true})
}

// Get handles GET /transcripts/:id
// @Summary      Get a transcript
// @Tags         Transcripts
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  transcript.TranscriptResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /transcripts/{id} [get]
func (h *Transcript) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.NewTranscriptResponse(item))
}

// Delete handles DELETE /transcripts/:id
func (h *Transcript) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"deleted": c.Param("id")})
}

// Text handles GET /transcripts/:id/text
// @Summary      Get display text
// @Description  Returns the content with speaker ids replaced by display names
// @Tags         Transcripts
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  transcript.TextResponse
// @Router       /transcripts/{id}/text [get]
func (h *Transcript) Text(c echo.Context) error {
	id := c.Param("id")
	text, err := h.svc.DisplayText(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.TextResponse{ID: id, Text: text})
}

// RenameTitle handles PATCH /transcripts/:id/title
func (h *Transcript) RenameTitle(c echo.Context) error {
	var req transcript.RenameTitleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.svc.RenameTitle(c.Request().Context(), c.Param("id"), req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.NewTranscriptResponse(item))
}

// BeginTitleEdit handles POST /transcripts/:id/title-edit
func (h *Transcript) BeginTitleEdit(c echo.Context) error {
	session, err := h.svc.BeginTitleEdit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, session)
}

// EndTitleEdit handles DELETE /transcripts/:id/title-edit
func (h *Transcript) EndTitleEdit(c echo.Context) error {
	session, err := h.svc.EndTitleEdit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, session)
}

// EditContent handles PUT /transcripts/:id/content
// @Summary      Edit transcript text
// @Description  Stores the edited text; the save to the database is debounced
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Item ID"
// @Param        request  body      transcript.EditContentRequest  true  "Full content"
// @Success      200      {object}  transcript.TranscriptResponse
// @Router       /transcripts/{id}/content [put]
func (h *Transcript) EditContent(c echo.Context) error {
	var req transcript.EditContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.svc.EditContent(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.NewTranscriptResponse(item))
}

// Flush handles POST /transcripts/:id/flush, sent when the editor loses focus
func (h *Transcript) Flush(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.svc.Flush(ctx, id); err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptUpdateFailed(id, err))
	}
	item, err := h.svc.Get(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcript.NewTranscriptResponse(item))
}
