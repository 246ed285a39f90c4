package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
)

func newDocumentHandler(db *gorm.DB) *DocumentHandler {
	return NewDocumentHandler(services.NewDocumentService(db), services.NewProfileService(db))
}

func seedProfile(t *testing.T, db *gorm.DB) {
	t.Helper()
	profile := models.BusinessProfile{ID: models.BusinessProfileID, Name: "Test Trades Ltd"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func seedJob(t *testing.T, db *gorm.DB) *models.Job {
	t.Helper()
	customer := seedCustomer(t, db)
	job, err := services.NewJobService(db).SaveJob(&models.Job{
		CustomerID: customer.ID,
		JobTitle:   "Boiler service",
		Labour:     []models.LabourItem{{Description: "Service", Hours: 2, Rate: 60}},
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestGenerateQuote(t *testing.T) {
	db := setupTestDB(t)
	seedProfile(t, db)
	job := seedJob(t, db)
	h := newDocumentHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/jobs/1/quote", nil)
	req.SetPathValue("id", jsonUint(job.ID))
	w := httptest.NewRecorder()
	h.GenerateQuote(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var quote models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := models.FormatDocumentNumber(models.QuoteNumberPrefix, time.Now().Year(), 1)
	if quote.Number != want {
		t.Fatalf("expected number %s, got %s", want, quote.Number)
	}

	reloaded, err := services.NewJobService(db).GetJob(job.ID)
	if err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if reloaded.Status != models.JobStatusQuoted {
		t.Fatalf("expected status Quoted, got %s", reloaded.Status)
	}
}

func TestGenerateInvoiceWithoutProfile(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db)
	h := newDocumentHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/jobs/1/invoice", nil)
	req.SetPathValue("id", jsonUint(job.ID))
	w := httptest.NewRecorder()
	h.GenerateInvoice(w, req)
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "business_profile_not_configured") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestGenerateQuoteJobNotFound(t *testing.T) {
	db := setupTestDB(t)
	seedProfile(t, db)
	h := newDocumentHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/jobs/99/quote", nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	h.GenerateQuote(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	db := setupTestDB(t)
	seedProfile(t, db)
	job := seedJob(t, db)
	h := newDocumentHandler(db)

	invoice, err := h.Docs.GenerateInvoice(job.ID)
	if err != nil {
		t.Fatalf("generate invoice: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/invoices/1/status", strings.NewReader(`{"status":"Paid"}`))
	req.SetPathValue("id", jsonUint(invoice.ID))
	w := httptest.NewRecorder()
	h.UpdateInvoiceStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	// Unknown statuses are rejected before touching the store.
	req2 := httptest.NewRequest(http.MethodPost, "/invoices/1/status", strings.NewReader(`{"status":"Overdue"}`))
	req2.SetPathValue("id", jsonUint(invoice.ID))
	w2 := httptest.NewRecorder()
	h.UpdateInvoiceStatus(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w2.Code)
	}
}

func TestInvoicePDFDownload(t *testing.T) {
	db := setupTestDB(t)
	seedProfile(t, db)
	job := seedJob(t, db)
	h := newDocumentHandler(db)

	invoice, err := h.Docs.GenerateInvoice(job.ID)
	if err != nil {
		t.Fatalf("generate invoice: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/invoices/1/pdf", nil)
	req.SetPathValue("id", jsonUint(invoice.ID))
	w := httptest.NewRecorder()
	h.InvoicePDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("response is not a PDF (%d bytes)", w.Body.Len())
	}
}
