package handler

import (
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/adapter/dto/common"
	"github.com/johnquangdev/lasto/internal/adapter/dto/transcript"
	"github.com/johnquangdev/lasto/internal/usecase/transcription"
)

// Job handles transcription job requests
type Job struct {
	svc    *transcription.Service
	logger *zap.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(svc *transcription.Service, logger *zap.Logger) *Job {
	return &Job{svc: svc, logger: logger}
}

// Upload handles POST /jobs/upload
// @Summary      Transcribe an uploaded recording
// @Description  Uploads the audio to AssemblyAI and starts polling; a pending item appears in the archive until the job ends
// @Tags         Jobs
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Audio or video file"
// @Param        title  formData  string  false  "Title, defaults to the file name"
// @Success      202    {object}  entities.TranscriptionJob
// @Failure      401    {object}  map[string]interface{}  "AssemblyAI key missing or rejected"
// @Failure      502    {object}  map[string]interface{}  "Transcription failed"
// @Router       /jobs/upload [post]
func (h *Job) Upload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field \"file\" is required"))
	}
	file, err := header.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer file.Close()

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	job, err := h.svc.SubmitFile(c.Request().Context(), title, file)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleAccepted(h.logger, c, job)
}

// SubmitURL handles POST /jobs/url
// @Summary      Transcribe a remote recording
// @Description  Accepts direct links and Google Drive share links; YouTube is not supported
// @Tags         Jobs
// @Accept       json
// @Produce      json
// @Param        request  body      transcript.SubmitURLRequest  true  "Recording URL"
// @Success      202      {object}  entities.TranscriptionJob
// @Failure      422      {object}  map[string]interface{}  "Unsupported source"
// @Router       /jobs/url [post]
func (h *Job) SubmitURL(c echo.Context) error {
	var req transcript.SubmitURLRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	job, err := h.svc.SubmitURL(c.Request().Context(), req.Title, req.URL)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleAccepted(h.logger, c, job)
}

// Get handles GET /jobs/:id
func (h *Job) Get(c echo.Context) error {
	job, err := h.svc.Job(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, job)
}

// List handles GET /jobs
func (h *Job) List(c echo.Context) error {
	jobs := h.svc.Jobs()
	return HandleSuccess(h.logger, c, common.ListResponse{Data: jobs, Total: len(jobs)})
}
