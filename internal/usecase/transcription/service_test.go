package transcription

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"golang.org/x/text/language"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/pkg/ai"
	"github.com/johnquangdev/lasto/pkg/config"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

type memRepo struct {
	mu    sync.Mutex
	items map[string]*entities.TranscriptItem
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*entities.TranscriptItem{}}
}

func (r *memRepo) Save(_ context.Context, item *entities.TranscriptItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entities.TranscriptItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[id]; ok {
		return it.Clone(), nil
	}
	return nil, nil
}

func (r *memRepo) List(_ context.Context) ([]*entities.TranscriptItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.TranscriptItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = map[string]*entities.TranscriptItem{}
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeClient struct {
	mu         sync.Mutex
	submitErrs []error
	polls      []func() (*ai.Transcript, error)
	submits    int
	gets       int
}

func (f *fakeClient) Upload(_ context.Context, audio io.Reader) (string, error) {
	io.Copy(io.Discard, audio)
	return "https://cdn.example/upload", nil
}

func (f *fakeClient) Submit(_ context.Context, audioURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	if len(f.submitErrs) > 0 {
		err := f.submitErrs[0]
		f.submitErrs = f.submitErrs[1:]
		return "", err
	}
	return "tid", nil
}

func (f *fakeClient) Get(_ context.Context, id string) (*ai.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if len(f.polls) == 0 {
		return &ai.Transcript{ID: id, Status: ai.StatusProcessing}, nil
	}
	next := f.polls[0]
	if len(f.polls) > 1 {
		f.polls = f.polls[1:]
	}
	return next()
}

type staticKey string

func (k staticKey) AssemblyAIKey(context.Context) (string, error) { return string(k), nil }

type countingPusher struct{ n int32 }

func (p *countingPusher) SchedulePush() { atomic.AddInt32(&p.n, 1) }

var fixedNow = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func newTestService(t *testing.T, client *fakeClient, key string, poll config.PollConfig) (*Service, *memRepo, *countingPusher) {
	t.Helper()
	repo := newMemRepo()
	pusher := &countingPusher{}
	svc := NewService(repo, editor.New(language.English), NewCleaner([]string{"yyy"}),
		func(string) Client { return client }, staticKey(key), pusher, poll, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithBackOff(func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3) }),
	)
	t.Cleanup(svc.Shutdown)
	return svc, repo, pusher
}

func fastPoll() config.PollConfig {
	return config.PollConfig{Interval: 5 * time.Millisecond, Timeout: 2 * time.Second, MaxUnauthorized: 2}
}

func waitForJob(t *testing.T, svc *Service, id string) entities.TranscriptionJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Job(id)
		if err != nil {
			t.Fatalf("job lookup failed: %v", err)
		}
		if job.Status.IsTerminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never finished", id)
	return entities.TranscriptionJob{}
}

func completed() (*ai.Transcript, error) {
	return &ai.Transcript{
		ID:     "tid",
		Status: ai.StatusCompleted,
		Utterances: []ai.Utterance{
			{Speaker: "A", Text: "yyy dzień dobry"},
			{Speaker: "B", Text: "cześć"},
		},
	}, nil
}

func TestSubmitFileCompletes(t *testing.T) {
	client := &fakeClient{
		submitErrs: []error{errors.New("connection reset")},
		polls: []func() (*ai.Transcript, error){
			func() (*ai.Transcript, error) { return &ai.Transcript{ID: "tid", Status: ai.StatusQueued}, nil },
			completed,
		},
	}
	svc, repo, pusher := newTestService(t, client, "key", fastPoll())

	job, err := svc.SubmitFile(context.Background(), "call.mp3", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if job.TranscriptID != "tid" || job.Status != entities.JobStatusProcessing {
		t.Fatalf("unexpected job %+v", job)
	}
	if client.submits != 2 {
		t.Fatalf("transient submit error should be retried, submits=%d", client.submits)
	}

	done := waitForJob(t, svc, job.ID)
	if done.Status != entities.JobStatusCompleted {
		t.Fatalf("unexpected job %+v", done)
	}
	item, _ := repo.GetByID(context.Background(), done.ItemID)
	if item == nil || item.ID != "tid-"+itoa(fixedNow.UnixMilli()) {
		t.Fatalf("completed item missing: %+v", done)
	}
	if item.Content != "SPEAKER A:\ndzień dobry\n\nSPEAKER B:\ncześć\n" || item.Title != "call.mp3" {
		t.Fatalf("unexpected item %+v", item)
	}
	if pending, _ := repo.GetByID(context.Background(), job.PendingID); pending != nil {
		t.Fatalf("pending item should be removed")
	}
	if atomic.LoadInt32(&pusher.n) != 1 {
		t.Fatalf("completion should schedule a push")
	}
}

func TestProviderErrorFailsJob(t *testing.T) {
	client := &fakeClient{polls: []func() (*ai.Transcript, error){
		func() (*ai.Transcript, error) {
			return &ai.Transcript{ID: "tid", Status: ai.StatusError, Error: "audio too short"}, nil
		},
	}}
	svc, repo, _ := newTestService(t, client, "key", fastPoll())

	job, err := svc.SubmitURL(context.Background(), "", "https://example.com/rec/meeting%201.mp3")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if job.Title != "meeting 1.mp3" {
		t.Fatalf("title should come from the url, got %q", job.Title)
	}
	done := waitForJob(t, svc, job.ID)
	if done.Status != entities.JobStatusError || done.Error != "AssemblyAI error: audio too short" {
		t.Fatalf("unexpected job %+v", done)
	}
	if repo.count() != 0 {
		t.Fatalf("pending item should be removed on error")
	}
}

func TestUnauthorizedBudget(t *testing.T) {
	client := &fakeClient{polls: []func() (*ai.Transcript, error){
		func() (*ai.Transcript, error) {
			return nil, aai.APIError{Status: http.StatusUnauthorized, Message: "Invalid API key"}
		},
	}}
	svc, _, _ := newTestService(t, client, "key", fastPoll())

	job, err := svc.SubmitURL(context.Background(), "rec", "https://example.com/a.mp3")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	done := waitForJob(t, svc, job.ID)
	if done.Status != entities.JobStatusError || client.gets != 2 {
		t.Fatalf("expected failure after 2 unauthorized polls, got %+v gets=%d", done, client.gets)
	}
}

func TestPollDeadline(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeClient{}, "key",
		config.PollConfig{Interval: 5 * time.Millisecond, Timeout: 40 * time.Millisecond, MaxUnauthorized: 3})

	job, err := svc.SubmitURL(context.Background(), "rec", "https://example.com/a.mp3")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	done := waitForJob(t, svc, job.ID)
	if done.Status != entities.JobStatusError {
		t.Fatalf("expected timeout failure, got %+v", done)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeClient{}, "", fastPoll())
	ctx := context.Background()

	if _, err := svc.SubmitURL(ctx, "", "https://example.com/a.mp3"); !errors.Is(err, entities.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := svc.SubmitURL(ctx, "", "https://youtu.be/abc"); !errors.Is(err, ai.ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("no pending item should be created")
	}

	client := &fakeClient{submitErrs: []error{aai.APIError{Status: http.StatusBadRequest, Message: "bad audio_url"}}}
	svc, repo, _ = newTestService(t, client, "key", fastPoll())
	if _, err := svc.SubmitURL(ctx, "", "https://example.com/a.mp3"); !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
	if client.submits != 1 || repo.count() != 0 {
		t.Fatalf("permanent errors are not retried and leave no pending item")
	}
}

func TestResume(t *testing.T) {
	client := &fakeClient{polls: []func() (*ai.Transcript, error){completed}}
	svc, repo, _ := newTestService(t, client, "key", fastPoll())
	ctx := context.Background()

	inFlight := entities.NewPendingItem("old.mp3", fixedNow.Add(-time.Hour))
	inFlight.AssemblyID = "tid"
	stale := entities.NewPendingItem("stale.mp3", fixedNow.Add(-2*time.Hour))
	repo.Save(ctx, inFlight)
	repo.Save(ctx, stale)

	n, err := svc.Resume(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected one resumed job, got %d %v", n, err)
	}
	jobs := svc.Jobs()
	done := waitForJob(t, svc, jobs[0].ID)
	if done.Status != entities.JobStatusCompleted {
		t.Fatalf("unexpected job %+v", done)
	}
	if repo.count() != 1 {
		t.Fatalf("only the completed item should remain, have %d", repo.count())
	}
}
