package errors

// ErrorCode is the application-level error code sent to clients
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005

	// Transcript editor
	ErrorCode_TRANSCRIPT_NOT_FOUND     ErrorCode = 2000
	ErrorCode_SPEAKER_NOT_FOUND        ErrorCode = 2001
	ErrorCode_CONFIRMATION_REQUIRED    ErrorCode = 2002
	ErrorCode_INVALID_SPEAKER_NAME     ErrorCode = 2003
	ErrorCode_INVALID_MERGE            ErrorCode = 2004
	ErrorCode_TRANSCRIPT_UPDATE_FAILED ErrorCode = 2005

	// Transcription
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 3000
	ErrorCode_AI_MISSING_API_KEY      ErrorCode = 3001
	ErrorCode_JOB_NOT_FOUND           ErrorCode = 3002
	ErrorCode_UNSUPPORTED_SOURCE      ErrorCode = 3003

	// Cloud sync and settings
	ErrorCode_CLOUD_SYNC_FAILED      ErrorCode = 4000
	ErrorCode_CLOUD_SYNC_DISABLED    ErrorCode = 4001
	ErrorCode_SETTINGS_IMPORT_FAILED ErrorCode = 4002

	// Infrastructure
	ErrorCode_DB_QUERY_FAILED ErrorCode = 5000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "HTTP_OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_TRANSCRIPT_NOT_FOUND:     "TRANSCRIPT_NOT_FOUND",
	ErrorCode_SPEAKER_NOT_FOUND:        "SPEAKER_NOT_FOUND",
	ErrorCode_CONFIRMATION_REQUIRED:    "CONFIRMATION_REQUIRED",
	ErrorCode_INVALID_SPEAKER_NAME:     "INVALID_SPEAKER_NAME",
	ErrorCode_INVALID_MERGE:            "INVALID_MERGE",
	ErrorCode_TRANSCRIPT_UPDATE_FAILED: "TRANSCRIPT_UPDATE_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:  "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_MISSING_API_KEY:       "AI_MISSING_API_KEY",
	ErrorCode_JOB_NOT_FOUND:            "JOB_NOT_FOUND",
	ErrorCode_UNSUPPORTED_SOURCE:       "UNSUPPORTED_SOURCE",
	ErrorCode_CLOUD_SYNC_FAILED:        "CLOUD_SYNC_FAILED",
	ErrorCode_CLOUD_SYNC_DISABLED:      "CLOUD_SYNC_DISABLED",
	ErrorCode_SETTINGS_IMPORT_FAILED:   "SETTINGS_IMPORT_FAILED",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
