package services

import "github.com/seobrien/jobledger/internal/models"

// DefaultTaxRate is the VAT percentage applied when a job has no rate set.
const DefaultTaxRate = 13.5

// Totals is the result of the totals computation. EffectiveTaxRate is the
// rate actually used, so callers can redisplay it when the job had none.
type Totals struct {
	SubTotal         float64 `json:"subTotal"`
	TaxAmount        float64 `json:"taxAmount"`
	Total            float64 `json:"total"`
	EffectiveTaxRate float64 `json:"effectiveTaxRate"`
}

// ComputeTotals derives subtotal, tax and total from line items and a tax
// rate percentage. It is pure and never fails: empty slices contribute
// nothing, a nil rate resolves to DefaultTaxRate, and negative inputs pass
// through arithmetically (input validation belongs to the form layer).
func ComputeTotals(labour []models.LabourItem, materials []models.MaterialItem, taxRate *float64) Totals {
	var labourTotal float64
	for _, item := range labour {
		labourTotal += item.Hours * item.Rate
	}
	var materialsTotal float64
	for _, item := range materials {
		materialsTotal += item.Quantity * item.Cost
	}
	subTotal := labourTotal + materialsTotal

	rate := DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}
	taxAmount := subTotal * rate / 100

	return Totals{
		SubTotal:         subTotal,
		TaxAmount:        taxAmount,
		Total:            subTotal + taxAmount,
		EffectiveTaxRate: rate,
	}
}

// ComputeJobTotals applies ComputeTotals to a job. A nil job yields zero
// totals with the default rate.
func ComputeJobTotals(job *models.Job) Totals {
	if job == nil {
		return ComputeTotals(nil, nil, nil)
	}
	return ComputeTotals(job.Labour, job.Materials, job.TaxRate)
}

// ApplyTotals recomputes a job's derived fields in place. Every write path
// calls this before persisting so stored totals always match the line items.
func ApplyTotals(job *models.Job) Totals {
	totals := ComputeJobTotals(job)
	if job != nil {
		job.SubTotal = totals.SubTotal
		job.TaxAmount = totals.TaxAmount
		job.Total = totals.Total
	}
	return totals
}
