package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// QuoteStatus represents the status of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "Draft"
	QuoteStatusSent     QuoteStatus = "Sent"
	QuoteStatusAccepted QuoteStatus = "Accepted"
	QuoteStatusRejected QuoteStatus = "Rejected"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "Unpaid"
	InvoiceStatusPaid   InvoiceStatus = "Paid"
)

// Number prefixes for generated documents.
const (
	QuoteNumberPrefix   = "QT"
	InvoiceNumberPrefix = "INV"
)

// Quote is a frozen snapshot of a job at generation time. Data holds the
// job as it existed when the quote was issued and never changes afterward,
// no matter how the job is edited.
type Quote struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     uint           `gorm:"index;not null" json:"jobId"`
	Job       *Job           `gorm:"foreignKey:JobID" json:"-"`
	Number    string         `gorm:"size:50;uniqueIndex" json:"quoteNumber"`
	Status    QuoteStatus    `gorm:"size:20;default:'Draft'" json:"status"`
	Total     float64        `json:"total"`
	Data      datatypes.JSON `json:"quoteData"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Invoice mirrors Quote with its own numbering sequence and status set.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     uint           `gorm:"index;not null" json:"jobId"`
	Job       *Job           `gorm:"foreignKey:JobID" json:"-"`
	Number    string         `gorm:"size:50;uniqueIndex" json:"invoiceNumber"`
	Status    InvoiceStatus  `gorm:"size:20;default:'Unpaid'" json:"status"`
	Total     float64        `json:"total"`
	Data      datatypes.JSON `json:"invoiceData"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DocumentCounter is the authoritative numbering source, one row per
// (docType, year). Allocation is a single increment-and-read inside the
// generation transaction, so concurrent writers cannot mint duplicates.
type DocumentCounter struct {
	ID      uint   `gorm:"primaryKey"`
	DocType string `gorm:"size:20;not null;uniqueIndex:idx_document_counters_type_year,priority:1"`
	Year    int    `gorm:"not null;uniqueIndex:idx_document_counters_type_year,priority:2"`
	Counter int64  `gorm:"not null;default:0"`
}

// FormatDocumentNumber renders a sequential index as a human-readable
// document number, e.g. QT-2025-0001.
func FormatDocumentNumber(prefix string, year int, index int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, index)
}
