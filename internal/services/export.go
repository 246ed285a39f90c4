package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

// exportHeader is the column order shared by the CSV and XLSX exports.
var exportHeader = []string{
	"jobId", "jobTitle", "customerName", "status",
	"totalCost", "invoiceNumber", "invoiceStatus", "date",
}

// ExportRow is one job in the flat export table. Invoice columns come from
// the most recently generated invoice and are blank when there is none.
type ExportRow struct {
	JobID         uint
	JobTitle      string
	CustomerName  string
	Status        string
	TotalCost     float64
	InvoiceNumber string
	InvoiceStatus string
	Date          string
}

// ExportService flattens jobs into spreadsheet rows.
type ExportService struct{ DB *gorm.DB }

func NewExportService(db *gorm.DB) *ExportService { return &ExportService{DB: db} }

// Rows builds the export table, one row per job, newest job first.
func (s *ExportService) Rows() ([]ExportRow, error) {
	var jobs []models.Job
	if err := s.DB.Preload("Customer").Order("created_at DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	var invoices []models.Invoice
	if err := s.DB.Order("created_at ASC, id ASC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	// Ascending scan leaves the latest invoice per job in the map.
	latest := make(map[uint]models.Invoice, len(invoices))
	for _, invoice := range invoices {
		latest[invoice.JobID] = invoice
	}

	rows := make([]ExportRow, 0, len(jobs))
	for _, job := range jobs {
		row := ExportRow{
			JobID:     job.ID,
			JobTitle:  job.JobTitle,
			Status:    string(job.Status),
			TotalCost: job.Total,
			Date:      job.CreatedAt.Format("2006-01-02"),
		}
		if job.Customer != nil {
			row.CustomerName = job.Customer.Name
		}
		if invoice, ok := latest[job.ID]; ok {
			row.InvoiceNumber = invoice.Number
			row.InvoiceStatus = string(invoice.Status)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CSV renders the export table as CSV with a header row.
func (s *ExportService) CSV() ([]byte, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.JobID), 10),
			row.JobTitle,
			row.CustomerName,
			row.Status,
			strconv.FormatFloat(row.TotalCost, 'f', 2, 64),
			row.InvoiceNumber,
			row.InvoiceStatus,
			row.Date,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the export table as a single-sheet workbook.
func (s *ExportService) XLSX() ([]byte, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Jobs"
	f.SetSheetName("Sheet1", sheet)
	for i, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
	}
	for r, row := range rows {
		values := []any{
			row.JobID, row.JobTitle, row.CustomerName, row.Status,
			row.TotalCost, row.InvoiceNumber, row.InvoiceStatus, row.Date,
		}
		for c, value := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
