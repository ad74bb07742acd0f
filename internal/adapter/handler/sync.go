package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/cloudsync"
)

// Sync exposes manual cloud backup operations
type Sync struct {
	syncer *cloudsync.Syncer
	logger *zap.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncer *cloudsync.Syncer, logger *zap.Logger) *Sync {
	return &Sync{syncer: syncer, logger: logger}
}

func (h *Sync) syncError(c echo.Context, op string, err error) error {
	if stdErrors.Is(err, entities.ErrCloudSyncDisabled) {
		return HandleError(h.logger, c, errors.ErrCloudSyncDisabled())
	}
	return HandleError(h.logger, c, errors.ErrCloudSyncFailed(op, err))
}

// Push handles POST /sync/push
// @Summary      Push the archive
// @Description  Uploads every finished item to the configured cloud store. A rate-limited push is skipped, not failed.
// @Tags         Sync
// @Produce      json
// @Success      200  {object}  cloudsync.Status
// @Failure      409  {object}  map[string]interface{}  "Cloud sync not configured"
// @Router       /sync/push [post]
func (h *Sync) Push(c echo.Context) error {
	if err := h.syncer.Push(c.Request().Context()); err != nil {
		return h.syncError(c, "push", err)
	}
	return HandleSuccess(h.logger, c, h.syncer.Status())
}

// Pull handles POST /sync/pull
func (h *Sync) Pull(c echo.Context) error {
	if _, err := h.syncer.Pull(c.Request().Context()); err != nil {
		return h.syncError(c, "pull", err)
	}
	return HandleSuccess(h.logger, c, h.syncer.Status())
}

// Status handles GET /sync/status
func (h *Sync) Status(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.syncer.Status())
}
