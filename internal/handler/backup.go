package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/backup"
)

// Backupper takes database snapshots on demand.
type Backupper interface {
	RunNow(ctx context.Context) (backup.Result, error)
	Status() backup.Status
}

type BackupHandler struct {
	base
	backups Backupper
}

func NewBackupHandler(backups Backupper, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{base: newBase(nil, 0, logger), backups: backups}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backups.Status())
}

// Run takes a snapshot synchronously and returns where it was stored.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.backups.RunNow(r.Context())
	switch {
	case errors.Is(err, backup.ErrDisabled):
		h.fail(w, r, apperr.Unavailable("backups are not configured"))
	case errors.Is(err, backup.ErrInProgress):
		h.fail(w, r, apperr.Conflict("a backup is already running"))
	case err != nil:
		h.fail(w, r, apperr.StoreFailure("backup failed", err))
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}
