package handlers

import (
	"net/http"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/services"
)

// ExportHandler serves the spreadsheet exports.
type ExportHandler struct {
	Svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler {
	return &ExportHandler{Svc: svc}
}

// CSV: GET /export/csv
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Svc.CSV()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_export_csv", nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=jobs.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// XLSX: GET /export/xlsx
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.Svc.XLSX()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_export_xlsx", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=jobs.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
