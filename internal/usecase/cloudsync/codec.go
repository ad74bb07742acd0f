package cloudsync

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// ManifestKey names the manifest entry of a backup document
const ManifestKey = "manifest"

// Document is a backup as stored in the cloud: chunk_0..chunk_N plus manifest
type Document map[string]json.RawMessage

// Manifest describes how many chunks a document holds
type Manifest struct {
	TotalChunks int   `json:"totalChunks"`
	Timestamp   int64 `json:"timestamp"`
}

// CompressedUtterance is the short-key form of an utterance
type CompressedUtterance struct {
	S string `json:"s"`
	T string `json:"t"`
}

// CompressedItem is the short-key form of a transcript item
type CompressedItem struct {
	ID           string                `json:"id"`
	Title        string                `json:"ti"`
	Date         string                `json:"da"`
	SpeakerNames map[string]string     `json:"sn"`
	Utterances   []CompressedUtterance `json:"u"`
	Content      string                `json:"c,omitempty"`
}

// ChunkKey returns the document key of chunk i
func ChunkKey(i int) string {
	return fmt.Sprintf("chunk_%d", i)
}

// Compress converts items into their backup form. Pending items are skipped.
func Compress(items []*entities.TranscriptItem) []CompressedItem {
	out := make([]CompressedItem, 0, len(items))
	for _, item := range items {
		if item.Processing {
			continue
		}
		c := CompressedItem{
			ID:           item.ID,
			Title:        item.Title,
			Date:         item.Date.UTC().Format(time.RFC3339Nano),
			SpeakerNames: item.SpeakerNames,
			Utterances:   make([]CompressedUtterance, 0, len(item.Utterances)),
			Content:      item.Content,
		}
		for _, u := range item.Utterances {
			c.Utterances = append(c.Utterances, CompressedUtterance{S: u.Speaker, T: u.Text})
		}
		out = append(out, c)
	}
	return out
}

// Decompress converts backup entries into items. Entries without content
// get one built from their utterance texts joined by newlines.
func Decompress(compressed []CompressedItem) []*entities.TranscriptItem {
	out := make([]*entities.TranscriptItem, 0, len(compressed))
	for _, c := range compressed {
		if c.ID == "" {
			continue
		}
		item := &entities.TranscriptItem{
			ID:           c.ID,
			Title:        c.Title,
			Content:      c.Content,
			SpeakerNames: c.SpeakerNames,
		}
		if item.SpeakerNames == nil {
			item.SpeakerNames = map[string]string{}
		}
		if item.Title == "" {
			item.Title = entities.DefaultTitle
		}
		if t, err := time.Parse(time.RFC3339Nano, c.Date); err == nil {
			item.Date = t.UTC()
		}
		texts := make([]string, 0, len(c.Utterances))
		for _, u := range c.Utterances {
			item.Utterances = append(item.Utterances, entities.Utterance{Speaker: u.S, Text: u.T})
			texts = append(texts, u.T)
		}
		if item.Content == "" {
			item.Content = strings.Join(texts, "\n")
		}
		out = append(out, item)
	}
	return out
}

// Encode builds a backup document from items, chunkSize entries per chunk
func Encode(items []*entities.TranscriptItem, chunkSize int, now time.Time) (Document, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	compressed := Compress(items)
	total := (len(compressed) + chunkSize - 1) / chunkSize

	doc := make(Document, total+1)
	for i := 0; i < total; i++ {
		end := (i + 1) * chunkSize
		if end > len(compressed) {
			end = len(compressed)
		}
		raw, err := json.Marshal(compressed[i*chunkSize : end])
		if err != nil {
			return nil, fmt.Errorf("failed to encode chunk %d: %w", i, err)
		}
		doc[ChunkKey(i)] = raw
	}
	if total == 0 {
		// an empty archive still overwrites the remote chunk
		doc[ChunkKey(0)] = json.RawMessage(`[]`)
	}

	manifest, err := json.Marshal(Manifest{TotalChunks: total, Timestamp: now.UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	doc[ManifestKey] = manifest
	return doc, nil
}

// Decode reads the items of a backup document. Missing chunks are skipped;
// a document without manifest holds no items.
func Decode(doc Document) ([]*entities.TranscriptItem, Manifest, error) {
	var manifest Manifest
	raw, ok := doc[ManifestKey]
	if !ok {
		return nil, manifest, nil
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, manifest, fmt.Errorf("failed to decode manifest: %w", err)
	}

	var compressed []CompressedItem
	for i := 0; i < manifest.TotalChunks; i++ {
		raw, ok := doc[ChunkKey(i)]
		if !ok {
			continue
		}
		var chunk []CompressedItem
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return nil, manifest, fmt.Errorf("failed to decode %s: %w", ChunkKey(i), err)
		}
		compressed = append(compressed, chunk...)
	}
	return Decompress(compressed), manifest, nil
}
