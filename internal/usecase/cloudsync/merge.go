package cloudsync

import (
	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// Merge decides which remote items to write locally. Unknown items are
// added; a known item is replaced only when the remote date is strictly
// newer. Items for which skip returns true are never touched.
func Merge(local, remote []*entities.TranscriptItem, skip func(id string) bool) []*entities.TranscriptItem {
	byID := make(map[string]*entities.TranscriptItem, len(local))
	for _, item := range local {
		byID[item.ID] = item
	}

	var out []*entities.TranscriptItem
	for _, r := range remote {
		if skip != nil && skip(r.ID) {
			continue
		}
		l, ok := byID[r.ID]
		if !ok || r.Date.After(l.Date) {
			out = append(out, r)
		}
	}
	return out
}
