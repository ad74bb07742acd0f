package entities

import "errors"

// Domain errors
var (
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrJobNotFound        = errors.New("transcription job not found")
	ErrMissingAPIKey      = errors.New("assemblyai api key not configured")
	ErrMalformedImport    = errors.New("malformed key backup")
	ErrCloudSyncDisabled  = errors.New("cloud sync not configured")
	ErrRateLimited        = errors.New("cloud store rate limited")
	ErrRemoteEmpty        = errors.New("cloud store has no data")
)
