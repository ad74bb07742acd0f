package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/pkg/config"
)

var base = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func makeItem(id string, age time.Duration) *entities.TranscriptItem {
	return &entities.TranscriptItem{
		ID:           id,
		Title:        "title " + id,
		Date:         base.Add(-age),
		Content:      "A:\ntext " + id + "\n",
		SpeakerNames: map[string]string{"A": "ANNA"},
	}
}

func TestEncodeChunksAndManifest(t *testing.T) {
	items := make([]*entities.TranscriptItem, 0, 120)
	for i := 0; i < 120; i++ {
		items = append(items, makeItem(fmt.Sprintf("item-%03d", i), time.Duration(i)*time.Minute))
	}
	pending := entities.NewPendingItem("upload", base)
	items = append(items, pending)

	doc, err := Encode(items, 50, base)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var manifest Manifest
	json.Unmarshal(doc[ManifestKey], &manifest)
	if manifest.TotalChunks != 3 || manifest.Timestamp != base.UnixMilli() {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	var last []CompressedItem
	json.Unmarshal(doc["chunk_2"], &last)
	if len(last) != 20 {
		t.Fatalf("expected 20 items in last chunk, got %d", len(last))
	}

	decoded, got, err := Decode(doc)
	if err != nil || got != manifest {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 120 {
		t.Fatalf("pending item must not be backed up, got %d items", len(decoded))
	}
	first := decoded[0]
	if first.ID != "item-000" || first.Content != items[0].Content || !first.Date.Equal(items[0].Date) || first.SpeakerNames["A"] != "ANNA" {
		t.Fatalf("item not preserved: %+v", first)
	}
}

func TestEncodeEmptyArchive(t *testing.T) {
	doc, err := Encode(nil, 50, base)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(doc["chunk_0"]) != "[]" {
		t.Fatalf("empty archive should clear chunk_0, got %s", doc["chunk_0"])
	}
	items, manifest, err := Decode(doc)
	if err != nil || len(items) != 0 || manifest.TotalChunks != 0 {
		t.Fatalf("unexpected decode %v %+v %v", items, manifest, err)
	}
}

func TestDecompressLegacyEntries(t *testing.T) {
	raw := `[{"id":"x","ti":"","da":"2025-01-02T03:04:05.000Z","sn":null,"u":[{"s":"A","t":"one"},{"s":"B","t":"two"}]}]`
	var compressed []CompressedItem
	if err := json.Unmarshal([]byte(raw), &compressed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	items := Decompress(compressed)
	if len(items) != 1 {
		t.Fatalf("expected one item")
	}
	it := items[0]
	if it.Content != "one\ntwo" || it.Title != entities.DefaultTitle || it.SpeakerNames == nil || len(it.Utterances) != 2 {
		t.Fatalf("unexpected item %+v", it)
	}
	if !it.Date.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", it.Date)
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	local := []*entities.TranscriptItem{makeItem("same", time.Hour), makeItem("newer-local", 0), makeItem("editing", time.Hour)}
	remote := []*entities.TranscriptItem{
		makeItem("same", time.Hour),
		makeItem("newer-local", time.Hour),
		makeItem("editing", 0),
		makeItem("only-remote", 2*time.Hour),
		makeItem("updated", 0),
	}
	local = append(local, makeItem("updated", time.Minute))

	got := Merge(local, remote, func(id string) bool { return id == "editing" })
	ids := make([]string, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	sort.Strings(ids)
	if fmt.Sprint(ids) != "[only-remote updated]" {
		t.Fatalf("unexpected merge result %v", ids)
	}
}

type memBackend struct {
	mu     sync.Mutex
	doc    Document
	err    error
	stores int
}

func (b *memBackend) Name() string { return "memory" }

func (b *memBackend) Load(context.Context) (Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if b.doc == nil {
		return nil, entities.ErrRemoteEmpty
	}
	return b.doc, nil
}

func (b *memBackend) Store(_ context.Context, doc Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.doc = doc
	b.stores++
	return nil
}

type memRepo struct {
	mu    sync.Mutex
	items map[string]*entities.TranscriptItem
}

func newMemRepo(items ...*entities.TranscriptItem) *memRepo {
	r := &memRepo{items: map[string]*entities.TranscriptItem{}}
	for _, it := range items {
		r.items[it.ID] = it.Clone()
	}
	return r
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

type guard struct {
	inFlight bool
	editing  map[string]bool
}

func (g guard) EditsInFlight() bool      { return g.inFlight }
func (g guard) IsEditing(id string) bool { return g.editing[id] }

func syncCfg() config.SyncConfig {
	return config.SyncConfig{ChunkSize: 50}
}

func TestPushThenPullOnAnotherDevice(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	laptop := NewSyncer(backend, newMemRepo(makeItem("a", 0), makeItem("b", time.Hour)), nil, syncCfg(), nil)

	if err := laptop.Push(ctx); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if st := laptop.Status(); st.State != StateSynced || st.LastPush == nil {
		t.Fatalf("unexpected status %+v", st)
	}

	phoneRepo := newMemRepo(makeItem("b", 0))
	phone := NewSyncer(backend, phoneRepo, guard{}, syncCfg(), nil)
	n, err := phone.Pull(ctx)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("only the unknown item should be written, got %d", n)
	}
	if b, _ := phoneRepo.GetByID(ctx, "b"); !b.Date.Equal(base) {
		t.Fatalf("newer local item was overwritten")
	}
	if a, _ := phoneRepo.GetByID(ctx, "a"); a == nil {
		t.Fatalf("remote item not added")
	}
}

func TestPullSkippedWhileEditing(t *testing.T) {
	backend := &memBackend{}
	s := NewSyncer(backend, newMemRepo(), guard{inFlight: true}, syncCfg(), nil)
	n, err := s.Pull(context.Background())
	if err != nil || n != 0 || s.Status().State != StateSkipped {
		t.Fatalf("pull should be skipped: %d %v %+v", n, err, s.Status())
	}
}

func TestRateLimitIsNotFatal(t *testing.T) {
	backend := &memBackend{err: fmt.Errorf("pantry: %w", entities.ErrRateLimited)}
	s := NewSyncer(backend, newMemRepo(makeItem("a", 0)), nil, syncCfg(), nil)
	if err := s.Push(context.Background()); err != nil {
		t.Fatalf("rate limit should not fail the push: %v", err)
	}
	if s.Status().State != StateSkipped {
		t.Fatalf("unexpected status %+v", s.Status())
	}

	backend.err = errors.New("boom")
	if err := s.Push(context.Background()); err == nil || s.Status().State != StateError {
		t.Fatalf("other errors should surface")
	}
}

func TestDisabledSyncer(t *testing.T) {
	s := NewSyncer(nil, newMemRepo(), nil, syncCfg(), nil)
	s.SchedulePush()
	if s.Enabled() {
		t.Fatalf("nil backend means disabled")
	}
	if err := s.Push(context.Background()); !errors.Is(err, entities.ErrCloudSyncDisabled) {
		t.Fatalf("expected ErrCloudSyncDisabled, got %v", err)
	}
}

func TestRunHandlesScheduledPush(t *testing.T) {
	backend := &memBackend{}
	s := NewSyncer(backend, newMemRepo(makeItem("a", 0)), nil, syncCfg(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.SchedulePush()
	s.SchedulePush()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		backend.mu.Lock()
		stores := backend.stores
		backend.mu.Unlock()
		if stores > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("scheduled push never ran")
}
