package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/lasto/pkg/config"
)

// Transcript statuses reported by AssemblyAI
const (
	StatusQueued     = string(aai.TranscriptStatusQueued)
	StatusProcessing = string(aai.TranscriptStatusProcessing)
	StatusCompleted  = string(aai.TranscriptStatusCompleted)
	StatusError      = string(aai.TranscriptStatusError)
)

// ErrUnsupportedURL is returned for sources that cannot be handed to AssemblyAI
var ErrUnsupportedURL = errors.New("unsupported audio url")

// Utterance is one diarized segment of a finished transcript
type Utterance struct {
	Speaker string
	Text    string
}

// Transcript is the subset of an AssemblyAI transcript the editor needs
type Transcript struct {
	ID         string
	Status     string
	Text       string
	Error      string
	Utterances []Utterance
}

// AssemblyAIClient wraps the official SDK client for one API key
type AssemblyAIClient struct {
	client       *aai.Client
	languageCode string
}

// NewAssemblyAIClient creates an AssemblyAI client for apiKey. Base URL and
// language come from cfg; a nil cfg uses SDK defaults and Polish.
func NewAssemblyAIClient(apiKey string, cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	opts := []aai.ClientOption{
		aai.WithAPIKey(apiKey),
		aai.WithHTTPClient(&http.Client{Timeout: 5 * time.Minute}),
	}
	languageCode := "pl"
	if cfg != nil {
		if cfg.BaseURL != "" {
			opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.LanguageCode != "" {
			languageCode = cfg.LanguageCode
		}
	}
	return &AssemblyAIClient{
		client:       aai.NewClientWithOptions(opts...),
		languageCode: languageCode,
	}
}

// Upload sends raw audio to AssemblyAI and returns the private upload URL
func (c *AssemblyAIClient) Upload(ctx context.Context, audio io.Reader) (string, error) {
	uploadURL, err := c.client.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	return uploadURL, nil
}

// Submit starts a diarized transcription of audioURL and returns the transcript id
func (c *AssemblyAIClient) Submit(ctx context.Context, audioURL string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode(c.languageCode),
		SpeakerLabels: aai.Bool(true),
	}
	transcript, err := c.client.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcript: %w", err)
	}
	if transcript.ID == nil || *transcript.ID == "" {
		return "", errors.New("assemblyai returned no transcript id")
	}
	return *transcript.ID, nil
}

// Get fetches the current state of a transcript
func (c *AssemblyAIClient) Get(ctx context.Context, transcriptID string) (*Transcript, error) {
	transcript, err := c.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	out := &Transcript{
		ID:     transcriptID,
		Status: string(transcript.Status),
	}
	if transcript.Text != nil {
		out.Text = *transcript.Text
	}
	if transcript.Error != nil {
		out.Error = *transcript.Error
	}
	for _, u := range transcript.Utterances {
		utt := Utterance{}
		if u.Speaker != nil {
			utt.Speaker = *u.Speaker
		}
		if u.Text != nil {
			utt.Text = *u.Text
		}
		out.Utterances = append(out.Utterances, utt)
	}
	return out, nil
}

// StatusCode extracts the HTTP status of an AssemblyAI API error, or 0
func StatusCode(err error) int {
	var apiErr aai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var apiErrPtr *aai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is an AssemblyAI 401
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsPermanent reports whether retrying the request cannot help
func IsPermanent(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

var driveFileID = regexp.MustCompile(`[-\w]{25,}`)

// ResolveSourceURL turns a user supplied link into a URL AssemblyAI can
// fetch. Google Drive share links become direct download links; other
// http(s) URLs pass through unchanged.
func ResolveSourceURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "drive.google.com" || host == "docs.google.com":
		id := u.Query().Get("id")
		if id == "" {
			id = driveFileID.FindString(u.Path)
		}
		if id == "" {
			return "", fmt.Errorf("%w: no file id in drive link", ErrUnsupportedURL)
		}
		return "https://drive.google.com/uc?export=download&id=" + id, nil
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be":
		return "", fmt.Errorf("%w: youtube links are not supported", ErrUnsupportedURL)
	}
	return u.String(), nil
}
