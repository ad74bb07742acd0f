package repositories

import (
	"context"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// TranscriptRepository is the local persistence boundary, keyed by item id
type TranscriptRepository interface {
	// Save inserts or replaces the item
	Save(ctx context.Context, item *entities.TranscriptItem) error
	// GetByID returns nil, nil when the item does not exist
	GetByID(ctx context.Context, id string) (*entities.TranscriptItem, error)
	// List returns every item ordered by date descending
	List(ctx context.Context) ([]*entities.TranscriptItem, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// SettingsRepository persists user keys
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}
