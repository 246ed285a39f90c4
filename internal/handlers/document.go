package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/pdf"
	"github.com/seobrien/jobledger/internal/services"
)

// DocumentHandler serves quote/invoice generation, listing, status updates
// and PDF downloads.
type DocumentHandler struct {
	Docs     *services.DocumentService
	Profiles *services.ProfileService
}

func NewDocumentHandler(docs *services.DocumentService, profiles *services.ProfileService) *DocumentHandler {
	return &DocumentHandler{Docs: docs, Profiles: profiles}
}

// GenerateQuote: POST /jobs/{id}/quote
func (h *DocumentHandler) GenerateQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	quote, err := h.Docs.GenerateQuote(id)
	if err != nil {
		h.generationError(w, err, "failed_to_generate_quote")
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

// GenerateInvoice: POST /jobs/{id}/invoice
func (h *DocumentHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	invoice, err := h.Docs.GenerateInvoice(id)
	if err != nil {
		h.generationError(w, err, "failed_to_generate_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *DocumentHandler) generationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		httpx.JSONError(w, http.StatusNotFound, "job_not_found", nil)
	case errors.Is(err, services.ErrProfileNotConfigured):
		httpx.JSONError(w, http.StatusPreconditionFailed, "business_profile_not_configured", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, fallback, nil)
	}
}

// ListQuotes: GET /quotes
func (h *DocumentHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Docs.GetQuotes()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "total": len(quotes)})
}

// ListInvoices: GET /invoices
func (h *DocumentHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Docs.GetInvoices()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invoices, "total": len(invoices)})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateQuoteStatus: POST /quotes/{id}/status
func (h *DocumentHandler) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	err := h.Docs.UpdateQuoteStatus(id, models.QuoteStatus(req.Status))
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
	case errors.Is(err, services.ErrInvalidQuoteStatus):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
	case errors.Is(err, services.ErrQuoteNotFound):
		httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_quote", nil)
	}
}

// UpdateInvoiceStatus: POST /invoices/{id}/status
func (h *DocumentHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	err := h.Docs.UpdateInvoiceStatus(id, models.InvoiceStatus(req.Status))
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
	case errors.Is(err, services.ErrInvalidInvoiceStatus):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
	case errors.Is(err, services.ErrInvoiceNotFound):
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
	}
}

// QuotePDF: GET /quotes/{id}/pdf
func (h *DocumentHandler) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	quote, err := h.Docs.GetQuote(id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_quote", nil)
		return
	}
	h.servePDF(w, "Quote", quote.Number, quote.Data, quote.CreatedAt, nil)
}

// InvoicePDF: GET /invoices/{id}/pdf
func (h *DocumentHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	invoice, err := h.Docs.GetInvoice(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_invoice", nil)
		return
	}
	due := invoice.CreatedAt.Add(30 * 24 * time.Hour)
	h.servePDF(w, "Invoice", invoice.Number, invoice.Data, invoice.CreatedAt, &due)
}

// servePDF renders the frozen snapshot and streams it as a download.
func (h *DocumentHandler) servePDF(w http.ResponseWriter, docType, number string, snapshot []byte, issued time.Time, due *time.Time) {
	var job models.Job
	if err := json.Unmarshal(snapshot, &job); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "corrupt_snapshot", nil)
		return
	}
	profile, err := h.Profiles.GetBusinessProfile()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	data, err := pdf.Render(pdf.Document{
		Type:      docType,
		Number:    number,
		IssueDate: issued,
		DueDate:   due,
		Job:       &job,
		Profile:   profile,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_render_pdf", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.pdf", docType, number))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
