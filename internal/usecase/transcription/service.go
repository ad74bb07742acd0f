// Package transcription submits recordings to AssemblyAI, polls them to a
// terminal state and turns finished transcripts into editor items.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/domain/repositories"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/pkg/ai"
	"github.com/johnquangdev/lasto/pkg/config"
)

// ErrTranscriptionFailed wraps provider failures during submission
var ErrTranscriptionFailed = errors.New("transcription failed")

// Client is the provider surface used by the service
type Client interface {
	Upload(ctx context.Context, audio io.Reader) (string, error)
	Submit(ctx context.Context, audioURL string) (string, error)
	Get(ctx context.Context, transcriptID string) (*ai.Transcript, error)
}

// ClientFactory builds a provider client for an API key
type ClientFactory func(apiKey string) Client

// KeyProvider returns the AssemblyAI key currently configured
type KeyProvider interface {
	AssemblyAIKey(ctx context.Context) (string, error)
}

// PushScheduler queues a cloud backup after a local change
type PushScheduler interface {
	SchedulePush()
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBackOff overrides the submit retry policy
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(s *Service) { s.newBackOff = fn }
}

// Service runs transcription jobs
type Service struct {
	repo       repositories.TranscriptRepository
	editor     *editor.Editor
	cleaner    *Cleaner
	jobs       *Registry
	newClient  ClientFactory
	keys       KeyProvider
	pusher     PushScheduler
	poll       config.PollConfig
	logger     *zap.Logger
	now        func() time.Time
	newBackOff func() backoff.BackOff

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a transcription service. Poll loops are bound to an
// internal context that Shutdown cancels.
func NewService(
	repo repositories.TranscriptRepository,
	ed *editor.Editor,
	cleaner *Cleaner,
	newClient ClientFactory,
	keys KeyProvider,
	pusher PushScheduler,
	poll config.PollConfig,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		repo:      repo,
		editor:    ed,
		cleaner:   cleaner,
		newClient: newClient,
		keys:      keys,
		pusher:    pusher,
		poll:      poll,
		logger:    logger,
		now:       time.Now,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 2 * time.Second
			bo.MaxElapsedTime = 30 * time.Second
			bo.MaxInterval = 10 * time.Second
			return bo
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = NewRegistry(s.now)
	return s
}

// Shutdown stops every poll loop and waits for them to exit. Pending items
// stay in the store and are picked up again by Resume.
func (s *Service) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

// Job returns the state of a job
func (s *Service) Job(id string) (entities.TranscriptionJob, error) {
	return s.jobs.Get(id)
}

// Jobs lists all jobs of this process, newest first
func (s *Service) Jobs() []entities.TranscriptionJob {
	return s.jobs.List()
}

func (s *Service) client(ctx context.Context) (Client, error) {
	key, err := s.keys.AssemblyAIKey(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		return nil, entities.ErrMissingAPIKey
	}
	return s.newClient(key), nil
}

// SubmitFile uploads audio and starts a transcription job for it
func (s *Service) SubmitFile(ctx context.Context, title string, audio io.Reader) (entities.TranscriptionJob, error) {
	client, err := s.client(ctx)
	if err != nil {
		return entities.TranscriptionJob{}, err
	}

	job, pending, err := s.start(ctx, title)
	if err != nil {
		return entities.TranscriptionJob{}, err
	}

	if s.logger != nil {
		s.logger.Info("📤 Uploading file to AssemblyAI",
			zap.String("job_id", job.ID),
			zap.String("title", title),
		)
	}
	uploadURL, err := client.Upload(ctx, audio)
	if err != nil {
		s.fail(job.ID, pending.ID, fmt.Sprintf("upload failed: %v", err))
		return entities.TranscriptionJob{}, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	return s.submit(ctx, client, job, pending, uploadURL)
}

// SubmitURL starts a transcription job for a remote recording
func (s *Service) SubmitURL(ctx context.Context, title, rawURL string) (entities.TranscriptionJob, error) {
	audioURL, err := ai.ResolveSourceURL(rawURL)
	if err != nil {
		return entities.TranscriptionJob{}, err
	}
	client, err := s.client(ctx)
	if err != nil {
		return entities.TranscriptionJob{}, err
	}
	if strings.TrimSpace(title) == "" {
		title = titleFromURL(rawURL)
	}

	job, pending, err := s.start(ctx, title)
	if err != nil {
		return entities.TranscriptionJob{}, err
	}
	return s.submit(ctx, client, job, pending, audioURL)
}

// start saves the placeholder item and registers the job
func (s *Service) start(ctx context.Context, title string) (entities.TranscriptionJob, *entities.TranscriptItem, error) {
	pending := entities.NewPendingItem(strings.TrimSpace(title), s.now())
	if err := s.repo.Save(ctx, pending); err != nil {
		return entities.TranscriptionJob{}, nil, fmt.Errorf("failed to save pending item: %w", err)
	}
	return s.jobs.Create(pending.Title, pending.ID), pending, nil
}

func (s *Service) submit(ctx context.Context, client Client, job entities.TranscriptionJob, pending *entities.TranscriptItem, audioURL string) (entities.TranscriptionJob, error) {
	var transcriptID string
	submitFn := func() error {
		id, err := client.Submit(ctx, audioURL)
		if err != nil {
			if ai.IsPermanent(err) {
				return backoff.Permanent(err)
			}
			if s.logger != nil {
				s.logger.Warn("⚠️ Submit to AssemblyAI failed, retrying",
					zap.String("job_id", job.ID),
					zap.Error(err),
				)
			}
			return err
		}
		transcriptID = id
		return nil
	}

	if err := backoff.Retry(submitFn, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		s.fail(job.ID, pending.ID, fmt.Sprintf("failed to submit to AssemblyAI: %v", err))
		if ai.IsUnauthorized(err) {
			return entities.TranscriptionJob{}, fmt.Errorf("%w: %v", entities.ErrMissingAPIKey, err)
		}
		return entities.TranscriptionJob{}, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	pending.AssemblyID = transcriptID
	if err := s.repo.Save(ctx, pending); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to record transcript id on pending item",
			zap.String("item_id", pending.ID),
			zap.Error(err),
		)
	}

	job, _ = s.jobs.Update(job.ID, func(j *entities.TranscriptionJob) {
		j.TranscriptID = transcriptID
		j.Status = entities.JobStatusProcessing
	})

	if s.logger != nil {
		s.logger.Info("✅ Transcription job submitted",
			zap.String("job_id", job.ID),
			zap.String("transcript_id", transcriptID),
		)
	}

	s.wg.Add(1)
	go s.pollUntilDone(client, job.ID, pending.ID, transcriptID)
	return job, nil
}

// Resume restarts polling for pending items left by a previous run. Items
// that never reached the provider are removed.
func (s *Service) Resume(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list transcripts: %w", err)
	}

	resumed := 0
	var client Client
	for _, item := range items {
		if !item.Processing {
			continue
		}
		if item.AssemblyID == "" {
			if err := s.repo.Delete(ctx, item.ID); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to remove stale pending item", zap.String("item_id", item.ID), zap.Error(err))
			}
			continue
		}
		if client == nil {
			if client, err = s.client(ctx); err != nil {
				return resumed, err
			}
		}

		job := s.jobs.Create(item.Title, item.ID)
		job, _ = s.jobs.Update(job.ID, func(j *entities.TranscriptionJob) {
			j.TranscriptID = item.AssemblyID
			j.Status = entities.JobStatusProcessing
		})
		s.wg.Add(1)
		go s.pollUntilDone(client, job.ID, item.ID, item.AssemblyID)
		resumed++
	}

	if resumed > 0 && s.logger != nil {
		s.logger.Info("🔁 Resumed transcription polling", zap.Int("count", resumed))
	}
	return resumed, nil
}

// pollUntilDone polls the provider every interval until the transcript is
// terminal, the deadline passes, the unauthorized budget runs out, or the
// service shuts down.
func (s *Service) pollUntilDone(client Client, jobID, pendingID, transcriptID string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.poll.Timeout)
	defer cancel()

	ticker := time.NewTicker(s.poll.Interval)
	defer ticker.Stop()

	unauthorized := 0
	for {
		select {
		case <-ctx.Done():
			if s.ctx.Err() != nil {
				// shutting down; Resume picks the item up on next start
				return
			}
			s.fail(jobID, pendingID, fmt.Sprintf("transcription did not finish within %s", s.poll.Timeout))
			return

		case <-ticker.C:
			tr, err := client.Get(ctx, transcriptID)
			if err != nil {
				if ai.IsUnauthorized(err) {
					unauthorized++
					if unauthorized >= s.poll.MaxUnauthorized {
						s.fail(jobID, pendingID, "AssemblyAI rejected the API key")
						return
					}
				}
				if s.logger != nil && ctx.Err() == nil {
					s.logger.Warn("⚠️ Failed to poll AssemblyAI",
						zap.String("job_id", jobID),
						zap.String("transcript_id", transcriptID),
						zap.Error(err),
					)
				}
				continue
			}

			switch tr.Status {
			case ai.StatusCompleted:
				s.complete(jobID, pendingID, tr)
				return
			case ai.StatusError:
				msg := "AssemblyAI transcription failed"
				if tr.Error != "" {
					msg = fmt.Sprintf("AssemblyAI error: %s", tr.Error)
				}
				s.fail(jobID, pendingID, msg)
				return
			default:
				s.jobs.Update(jobID, func(j *entities.TranscriptionJob) {
					j.Status = entities.JobStatus(tr.Status)
				})
			}
		}
	}
}

func (s *Service) complete(jobID, pendingID string, tr *ai.Transcript) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	job, err := s.jobs.Get(jobID)
	if err != nil {
		return
	}
	item := Assemble(s.editor, s.cleaner, tr, job.Title, s.now())
	if err := s.repo.Save(ctx, item); err != nil {
		s.fail(jobID, pendingID, fmt.Sprintf("failed to store transcript: %v", err))
		return
	}
	if err := s.repo.Delete(ctx, pendingID); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to remove pending item", zap.String("item_id", pendingID), zap.Error(err))
	}

	s.jobs.Update(jobID, func(j *entities.TranscriptionJob) {
		j.Status = entities.JobStatusCompleted
		j.ItemID = item.ID
	})

	if s.logger != nil {
		s.logger.Info("✅ Transcript stored",
			zap.String("job_id", jobID),
			zap.String("item_id", item.ID),
			zap.Int("utterances", len(item.Utterances)),
		)
	}
	if s.pusher != nil {
		s.pusher.SchedulePush()
	}
}

func (s *Service) fail(jobID, pendingID, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.Delete(ctx, pendingID); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to remove pending item", zap.String("item_id", pendingID), zap.Error(err))
	}
	s.jobs.Update(jobID, func(j *entities.TranscriptionJob) {
		j.Status = entities.JobStatusError
		j.Error = msg
	})

	if s.logger != nil {
		s.logger.Error("❌ Transcription job failed",
			zap.String("job_id", jobID),
			zap.String("error", msg),
		)
	}
}

// titleFromURL uses the last path segment of a link as a default title
func titleFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return entities.DefaultTitle
	}
	if strings.HasSuffix(u.Hostname(), "google.com") {
		return entities.DefaultTitle
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return entities.DefaultTitle
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return base
}
