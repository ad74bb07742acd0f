package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/domain/repositories"
)

// TranscriptRepository handles transcript item persistence
type TranscriptRepository struct {
	db *gorm.DB
}

var _ repositories.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Save upserts a transcript item by id
func (r *TranscriptRepository) Save(ctx context.Context, item *entities.TranscriptItem) error {
	if item == nil {
		return errors.New("transcript item cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
}

// GetByID retrieves a transcript item by ID
func (r *TranscriptRepository) GetByID(ctx context.Context, id string) (*entities.TranscriptItem, error) {
	var item entities.TranscriptItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if item.SpeakerNames == nil {
		item.SpeakerNames = map[string]string{}
	}
	return &item, nil
}

// List retrieves all items, newest first
func (r *TranscriptRepository) List(ctx context.Context) ([]*entities.TranscriptItem, error) {
	var items []*entities.TranscriptItem
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete deletes a transcript item
func (r *TranscriptRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.TranscriptItem{}).Error
}

// DeleteAll clears the archive
func (r *TranscriptRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entities.TranscriptItem{}).Error
}

// SettingsRepository stores user keys in the settings table
type SettingsRepository struct {
	db *gorm.DB
}

var _ repositories.SettingsRepository = (*SettingsRepository)(nil)

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll returns every stored setting
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []entities.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Set upserts a single setting
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entities.Setting{Key: key, Value: value}).Error
}
