package handler

import (
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/lasto/errors"
	"github.com/johnquangdev/lasto/internal/usecase/settings"
)

// maxBackupSize bounds the key backup file accepted on import
const maxBackupSize = 64 << 10

// Settings handles key export and import
type Settings struct {
	svc    *settings.Service
	logger *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(svc *settings.Service, logger *zap.Logger) *Settings {
	return &Settings{svc: svc, logger: logger}
}

// ExportKeys handles GET /settings/keys
// @Summary      Export keys
// @Description  Returns the AssemblyAI key and Pantry id as a backup document
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  entities.KeyBackup
// @Router       /settings/keys [get]
func (h *Settings) ExportKeys(c echo.Context) error {
	keys, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, keys)
}

// ImportKeys handles POST /settings/keys. The body is the backup file as
// produced by ExportKeys.
// @Summary      Import keys
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        request  body      entities.KeyBackup  true  "Key backup"
// @Success      200      {object}  entities.KeyBackup
// @Failure      400      {object}  map[string]interface{}  "Malformed backup"
// @Router       /settings/keys [post]
func (h *Settings) ImportKeys(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBackupSize))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	keys, err := h.svc.Import(c.Request().Context(), raw)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, keys)
}
