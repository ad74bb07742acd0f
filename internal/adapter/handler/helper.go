package handler

import (
	stdErrors "errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/internal/usecase/transcript"
	"github.com/johnquangdev/lasto/internal/usecase/transcription"
	"github.com/johnquangdev/lasto/pkg/ai"
	pkgvalidator "github.com/johnquangdev/lasto/pkg/validator"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// speakerParam returns the decoded :speakerId path parameter. Labels may
// contain characters such as "/" that only survive the path percent-encoded.
func speakerParam(c echo.Context) string {
	raw := c.Param("speakerId")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// bindAndValidate binds the request into req and runs its validate tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrValidation(err)
		for field, rule := range pkgvalidator.Fields(err) {
			appErr = appErr.WithDetail(field, rule)
		}
		return appErr
	}
	return nil
}

// toAppError maps domain errors to their API representation. Unknown errors
// become internal errors.
func toAppError(c echo.Context, err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, entities.ErrTranscriptNotFound):
		return errors.ErrTranscriptNotFound(c.Param("id"))
	case stdErrors.Is(err, editor.ErrSpeakerNotFound):
		return errors.ErrSpeakerNotFound(speakerParam(c))
	case stdErrors.Is(err, editor.ErrConfirmationRequired):
		return errors.ErrConfirmationRequired(c.Request().Method + " " + c.Path())
	case stdErrors.Is(err, editor.ErrEmptyName), stdErrors.Is(err, editor.ErrInvalidName):
		return errors.ErrInvalidSpeakerName(err)
	case stdErrors.Is(err, editor.ErrInvalidMerge):
		return errors.ErrInvalidMerge(err)
	case stdErrors.Is(err, editor.ErrEmptyTitle),
		stdErrors.Is(err, editor.ErrUnknownAction),
		stdErrors.Is(err, transcript.ErrUnknownKey):
		return errors.ErrValidation(err)
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return errors.ErrJobNotFound(c.Param("id"))
	case stdErrors.Is(err, entities.ErrMissingAPIKey):
		return errors.ErrMissingAPIKey()
	case stdErrors.Is(err, ai.ErrUnsupportedURL):
		return errors.ErrUnsupportedSource(err)
	case stdErrors.Is(err, transcription.ErrTranscriptionFailed):
		return errors.ErrAITranscriptionFailed(err)
	case stdErrors.Is(err, entities.ErrCloudSyncDisabled):
		return errors.ErrCloudSyncDisabled()
	case stdErrors.Is(err, entities.ErrMalformedImport):
		return errors.ErrSettingsImportFailed(err)
	}
	return errors.ErrInternal(err)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated is HandleSuccess with 201 Created
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

// HandleAccepted is HandleSuccess with 202 Accepted
func HandleAccepted(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusAccepted, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(c, err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}
