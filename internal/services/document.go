package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

var (
	ErrQuoteNotFound        = errors.New("quote_not_found")
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrInvalidQuoteStatus   = errors.New("invalid_quote_status")
	ErrInvalidInvoiceStatus = errors.New("invalid_invoice_status")
	ErrProfileNotConfigured = errors.New("business_profile_not_configured")
)

// DocumentService manages the quote/invoice lifecycle: numbering, frozen
// snapshots and status updates. Store errors propagate to the caller
// unchanged; there are no retries here.
type DocumentService struct {
	DB *gorm.DB

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{DB: db, now: time.Now}
}

// GenerateQuote freezes the current state of a job into a numbered quote
// and moves the job to status Quoted. Allowed from any job status.
func (s *DocumentService) GenerateQuote(jobID uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		job, snapshot, err := s.snapshotJob(tx, jobID)
		if err != nil {
			return err
		}
		index, err := nextDocumentNumber(tx, "quote", s.now().Year())
		if err != nil {
			return err
		}
		quote = models.Quote{
			JobID:  job.ID,
			Number: models.FormatDocumentNumber(models.QuoteNumberPrefix, s.now().Year(), index),
			Status: models.QuoteStatusDraft,
			Total:  job.Total,
			Data:   snapshot,
		}
		if err := tx.Create(&quote).Error; err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return setJobStatus(tx, job.ID, models.JobStatusQuoted)
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GenerateInvoice freezes the current state of a job into a numbered
// invoice (status Unpaid) and moves the job to status Invoiced.
func (s *DocumentService) GenerateInvoice(jobID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		job, snapshot, err := s.snapshotJob(tx, jobID)
		if err != nil {
			return err
		}
		index, err := nextDocumentNumber(tx, "invoice", s.now().Year())
		if err != nil {
			return err
		}
		invoice = models.Invoice{
			JobID:  job.ID,
			Number: models.FormatDocumentNumber(models.InvoiceNumberPrefix, s.now().Year(), index),
			Status: models.InvoiceStatusUnpaid,
			Total:  job.Total,
			Data:   snapshot,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return setJobStatus(tx, job.ID, models.JobStatusInvoiced)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// snapshotJob loads the job with children inside the transaction, checks
// the business profile precondition, recomputes and persists the job's
// totals, and returns the job plus its deep-copied JSON snapshot.
func (s *DocumentService) snapshotJob(tx *gorm.DB, jobID uint) (*models.Job, datatypes.JSON, error) {
	var profileCount int64
	if err := tx.Model(&models.BusinessProfile{}).Count(&profileCount).Error; err != nil {
		return nil, nil, fmt.Errorf("check business profile: %w", err)
	}
	if profileCount == 0 {
		return nil, nil, ErrProfileNotConfigured
	}

	var job models.Job
	err := tx.Preload("Customer").
		Preload("Labour", childByID).
		Preload("Materials", childByID).
		First(&job, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrJobNotFound
		}
		return nil, nil, fmt.Errorf("load job %d: %w", jobID, err)
	}

	totals := ApplyTotals(&job)
	updates := map[string]any{
		"sub_total":  totals.SubTotal,
		"tax_amount": totals.TaxAmount,
		"total":      totals.Total,
	}
	if err := tx.Model(&models.Job{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
		return nil, nil, fmt.Errorf("persist job totals: %w", err)
	}

	snapshot, err := json.Marshal(&job)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot job %d: %w", job.ID, err)
	}
	return &job, datatypes.JSON(snapshot), nil
}

func setJobStatus(tx *gorm.DB, jobID uint, status models.JobStatus) error {
	if err := tx.Model(&models.Job{}).Where("id = ?", jobID).Update("status", status).Error; err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// nextDocumentNumber allocates the next sequential index for the given
// document type and year. The counter row is incremented and re-read inside
// the caller's transaction, replacing the racy count+1 scheme the original
// clients used.
func nextDocumentNumber(tx *gorm.DB, docType string, year int) (int64, error) {
	counter := models.DocumentCounter{DocType: docType, Year: year}
	if err := tx.Where(models.DocumentCounter{DocType: docType, Year: year}).
		FirstOrCreate(&counter).Error; err != nil {
		return 0, fmt.Errorf("load %s counter: %w", docType, err)
	}
	if err := tx.Model(&models.DocumentCounter{}).
		Where("doc_type = ? AND year = ?", docType, year).
		UpdateColumn("counter", gorm.Expr("counter + 1")).Error; err != nil {
		return 0, fmt.Errorf("increment %s counter: %w", docType, err)
	}
	if err := tx.Where("doc_type = ? AND year = ?", docType, year).
		First(&counter).Error; err != nil {
		return 0, fmt.Errorf("read %s counter: %w", docType, err)
	}
	return counter.Counter, nil
}

// GetQuotes returns all quotes, newest first.
func (s *DocumentService) GetQuotes() ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.DB.Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// GetInvoices returns all invoices, newest first.
func (s *DocumentService) GetInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.DB.Order("created_at DESC, id DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// GetQuote loads a single quote.
func (s *DocumentService) GetQuote(id uint) (*models.Quote, error) {
	var quote models.Quote
	if err := s.DB.First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("load quote %d: %w", id, err)
	}
	return &quote, nil
}

// GetInvoice loads a single invoice.
func (s *DocumentService) GetInvoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("load invoice %d: %w", id, err)
	}
	return &invoice, nil
}

// UpdateQuoteStatus overwrites a quote's status field. The snapshot is
// untouched.
func (s *DocumentService) UpdateQuoteStatus(id uint, status models.QuoteStatus) error {
	switch status {
	case models.QuoteStatusDraft, models.QuoteStatusSent,
		models.QuoteStatusAccepted, models.QuoteStatusRejected:
	default:
		return ErrInvalidQuoteStatus
	}
	result := s.DB.Model(&models.Quote{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update quote %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// UpdateInvoiceStatus overwrites an invoice's status field (Unpaid/Paid).
// The snapshot is untouched.
func (s *DocumentService) UpdateInvoiceStatus(id uint, status models.InvoiceStatus) error {
	switch status {
	case models.InvoiceStatusUnpaid, models.InvoiceStatusPaid:
	default:
		return ErrInvalidInvoiceStatus
	}
	result := s.DB.Model(&models.Invoice{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update invoice %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// GetRevenue sums the totals of paid invoices.
func (s *DocumentService) GetRevenue() (float64, error) {
	var revenue float64
	err := s.DB.Model(&models.Invoice{}).
		Where("status = ?", models.InvoiceStatusPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return revenue, nil
}
