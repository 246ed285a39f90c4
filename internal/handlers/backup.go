package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/services"
)

// restoreBodyLimit caps uploaded backup documents at 32 MiB.
const restoreBodyLimit = 32 << 20

// BackupHandler serves local backup and restore.
type BackupHandler struct {
	Svc *services.BackupService
}

func NewBackupHandler(svc *services.BackupService) *BackupHandler {
	return &BackupHandler{Svc: svc}
}

// Create: POST /backup. Writes a backup file and returns the document.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, path, err := h.Svc.Create()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_backup", nil)
		return
	}
	if path != "" {
		w.Header().Set("X-Backup-Path", path)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Restore: POST /restore. Replaces the store with the uploaded backup.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, restoreBodyLimit))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unreadable_body", nil)
		return
	}
	if err := h.Svc.Restore(payload); err != nil {
		if errors.Is(err, services.ErrInvalidBackup) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_backup", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_restore_backup", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"restored": true})
}
