package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error type returned by handlers
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrValidation(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  "Request validation failed",
	}
}

// Transcript Editor Errors
func ErrTranscriptNotFound(itemID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_TRANSCRIPT_NOT_FOUND,
		Message:  "Transcript not found",
	}.WithDetail("item_id", itemID)
}

func ErrSpeakerNotFound(speakerID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_SPEAKER_NOT_FOUND,
		Message:  "Speaker not found",
	}.WithDetail("speaker_id", speakerID)
}

func ErrConfirmationRequired(action string) AppError {
	return AppError{
		HTTPCode: http.StatusPreconditionRequired,
		Code:     ErrorCode_CONFIRMATION_REQUIRED,
		Message:  "Explicit confirmation required",
	}.WithDetail("action", action)
}

func ErrInvalidSpeakerName(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_SPEAKER_NAME,
		Message:  "Invalid speaker name",
	}
}

func ErrInvalidMerge(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_MERGE,
		Message:  "Speakers cannot be merged",
	}
}

func ErrTranscriptUpdateFailed(itemID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPT_UPDATE_FAILED,
		Message:  "Failed to update transcript",
	}.WithDetail("item_id", itemID)
}

// Transcription Errors
func ErrAITranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_AI_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

func ErrMissingAPIKey() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AI_MISSING_API_KEY,
		Message:  "AssemblyAI API key is not configured",
	}
}

func ErrJobNotFound(jobID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_JOB_NOT_FOUND,
		Message:  "Transcription job not found",
	}.WithDetail("job_id", jobID)
}

func ErrUnsupportedSource(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_UNSUPPORTED_SOURCE,
		Message:  "Audio source is not supported",
	}
}

// Cloud Sync And Settings Errors
func ErrCloudSyncFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_CLOUD_SYNC_FAILED,
		Message:  fmt.Sprintf("Cloud sync failed: %s", operation),
	}
}

func ErrCloudSyncDisabled() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CLOUD_SYNC_DISABLED,
		Message:  "Cloud sync is not configured",
	}
}

func ErrSettingsImportFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_SETTINGS_IMPORT_FAILED,
		Message:  "Invalid key backup file",
	}
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
