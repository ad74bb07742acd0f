package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/domain/repositories"
)

// PushScheduler queues a cloud backup after keys change
type PushScheduler interface {
	SchedulePush()
}

// Service manages the user's API keys. Stored values take precedence over
// the ones given at startup.
type Service struct {
	repo     repositories.SettingsRepository
	defaults entities.KeyBackup
	pusher   PushScheduler
	logger   *zap.Logger
}

// NewService creates a settings service. defaults usually come from the
// environment; pusher and logger may be nil.
func NewService(repo repositories.SettingsRepository, defaults entities.KeyBackup, logger *zap.Logger) *Service {
	return &Service{repo: repo, defaults: defaults, logger: logger}
}

// SetPusher wires the cloud syncer once it has been built
func (s *Service) SetPusher(p PushScheduler) {
	s.pusher = p
}

// Export returns the keys currently in effect
func (s *Service) Export(ctx context.Context) (*entities.KeyBackup, error) {
	stored, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	keys := s.defaults
	if v := stored[entities.SettingAssemblyAIKey]; v != "" {
		keys.AssemblyAIKey = v
	}
	if v := stored[entities.SettingPantryID]; v != "" {
		keys.PantryID = v
	}
	return &keys, nil
}

// Import parses a key backup file and stores the keys it carries
func (s *Service) Import(ctx context.Context, raw []byte) (*entities.KeyBackup, error) {
	var backup entities.KeyBackup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedImport, err)
	}
	return s.Update(ctx, backup)
}

// Update stores the non-empty keys of backup. At least one key is required.
func (s *Service) Update(ctx context.Context, backup entities.KeyBackup) (*entities.KeyBackup, error) {
	backup.AssemblyAIKey = strings.TrimSpace(backup.AssemblyAIKey)
	backup.PantryID = strings.TrimSpace(backup.PantryID)
	if backup.AssemblyAIKey == "" && backup.PantryID == "" {
		return nil, entities.ErrMalformedImport
	}

	if backup.AssemblyAIKey != "" {
		if err := s.repo.Set(ctx, entities.SettingAssemblyAIKey, backup.AssemblyAIKey); err != nil {
			return nil, fmt.Errorf("failed to save assemblyai key: %w", err)
		}
	}
	if backup.PantryID != "" {
		if err := s.repo.Set(ctx, entities.SettingPantryID, backup.PantryID); err != nil {
			return nil, fmt.Errorf("failed to save pantry id: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("🔑 Keys updated",
			zap.Bool("assemblyai", backup.AssemblyAIKey != ""),
			zap.Bool("pantry", backup.PantryID != ""))
	}
	if s.pusher != nil && backup.PantryID != "" {
		s.pusher.SchedulePush()
	}
	return s.Export(ctx)
}

// AssemblyAIKey returns the transcription API key in effect
func (s *Service) AssemblyAIKey(ctx context.Context) (string, error) {
	keys, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	return keys.AssemblyAIKey, nil
}

// PantryID returns the cloud store id in effect
func (s *Service) PantryID(ctx context.Context) (string, error) {
	keys, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	return keys.PantryID, nil
}
