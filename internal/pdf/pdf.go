// Package pdf renders frozen job snapshots as quote/invoice documents.
// It consumes only snapshot data; a job edited after generation never
// changes a previously rendered document.
package pdf

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
)

// Document is the input to Render: the snapshot job (with customer and
// line items as frozen at generation time) plus the current business
// identity.
type Document struct {
	Type      string // "Quote" or "Invoice"
	Number    string
	IssueDate time.Time
	DueDate   *time.Time
	Job       *models.Job
	Profile   *models.BusinessProfile
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("€%.2f", amount)
}

// Render lays out the document and returns the PDF bytes. An unrenderable
// logo degrades to placeholder text instead of failing the document.
func Render(doc Document) ([]byte, error) {
	if doc.Job == nil {
		return nil, fmt.Errorf("render %s: missing job snapshot", doc.Type)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	addHeader(m, doc)
	addBillTo(m, doc.Job.Customer)
	addItemsTable(m, doc.Job)
	addTotals(m, doc.Job)

	m.AddRows(
		row.New(8),
		row.New(5).Add(text.NewCol(12, "Thank you for your business!",
			props.Text{Size: 9, Style: fontstyle.Italic})),
	)

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", doc.Type, doc.Number, err)
	}
	return document.GetBytes(), nil
}

func addHeader(m core.Maroto, doc Document) {
	identity := col.New(6)
	identity.Add(logoOrName(doc.Profile)...)

	title := strings.ToUpper(doc.Type)
	m.AddRows(row.New(18).Add(
		col.New(6).Add(text.New(title, props.Text{Size: 20, Style: fontstyle.Bold})),
		identity,
	))

	profile := doc.Profile
	if profile != nil {
		for _, detail := range []string{profile.Address, profile.Email, profile.Phone, profile.VATNumber} {
			if detail == "" {
				continue
			}
			m.AddRows(row.New(4).Add(
				col.New(6),
				text.NewCol(6, detail, props.Text{Size: 8, Align: align.Right}),
			))
		}
	}

	m.AddRows(
		row.New(6),
		row.New(5).Add(text.NewCol(12, fmt.Sprintf("%s Number: %s", doc.Type, doc.Number),
			props.Text{Size: 11})),
		row.New(5).Add(text.NewCol(12, "Date of Issue: "+doc.IssueDate.Format("02/01/2006"),
			props.Text{Size: 11})),
	)
	if doc.DueDate != nil {
		m.AddRows(row.New(5).Add(text.NewCol(12, "Due Date: "+doc.DueDate.Format("02/01/2006"),
			props.Text{Size: 11})))
	}
}

// logoOrName builds the identity block: the logo when it decodes, the
// business name as placeholder text when it does not.
func logoOrName(profile *models.BusinessProfile) []core.Component {
	name := "Your Business Name"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	nameText := text.New(name, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right})

	if profile == nil || profile.Logo == "" {
		return []core.Component{nameText}
	}
	raw, ext, ok := decodeLogo(profile.Logo)
	if !ok {
		return []core.Component{nameText}
	}
	return []core.Component{
		image.NewFromBase64(raw, ext, props.Rect{Percent: 60, Left: 40}),
	}
}

// decodeLogo accepts a bare base64 string or a data URI and verifies it
// decodes before handing it to the renderer.
func decodeLogo(logo string) (string, extension.Type, bool) {
	ext := extension.Png
	raw := logo
	if strings.HasPrefix(logo, "data:") {
		mediaType, after, found := strings.Cut(logo, ";base64,")
		if !found {
			return "", ext, false
		}
		if strings.Contains(mediaType, "jpeg") || strings.Contains(mediaType, "jpg") {
			ext = extension.Jpg
		}
		raw = after
	}
	if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
		return "", ext, false
	}
	return raw, ext, true
}

func addBillTo(m core.Maroto, customer *models.Customer) {
	name, address, email := "N/A", "N/A", "N/A"
	if customer != nil {
		if customer.Name != "" {
			name = customer.Name
		}
		if customer.Address != "" {
			address = customer.Address
		}
		if customer.Email != "" {
			email = customer.Email
		}
	}
	m.AddRows(
		row.New(8),
		row.New(5).Add(text.NewCol(12, "Bill To:", props.Text{Size: 11, Style: fontstyle.Bold})),
		row.New(5).Add(text.NewCol(12, name, props.Text{Size: 10})),
		row.New(5).Add(text.NewCol(12, address, props.Text{Size: 10})),
		row.New(5).Add(text.NewCol(12, email, props.Text{Size: 10})),
		row.New(4),
	)
}

func addItemsTable(m core.Maroto, job *models.Job) {
	header := props.Text{Size: 10, Style: fontstyle.Bold}
	m.AddRows(
		row.New(6).Add(
			text.NewCol(6, "Description", header),
			text.NewCol(2, "Qty/Hours", header),
			text.NewCol(2, "Unit Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
		line.NewRow(2),
	)

	cell := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}
	for _, item := range job.Labour {
		m.AddRows(row.New(5).Add(
			text.NewCol(6, item.Description, cell),
			text.NewCol(2, fmt.Sprintf("%g hrs", item.Hours), cell),
			text.NewCol(2, formatCurrency(item.Rate), right),
			text.NewCol(2, formatCurrency(item.Hours*item.Rate), right),
		))
	}
	for _, item := range job.Materials {
		m.AddRows(row.New(5).Add(
			text.NewCol(6, item.Name, cell),
			text.NewCol(2, fmt.Sprintf("%g", item.Quantity), cell),
			text.NewCol(2, formatCurrency(item.Cost), right),
			text.NewCol(2, formatCurrency(item.Quantity*item.Cost), right),
		))
	}
	m.AddRows(line.NewRow(2))
}

func addTotals(m core.Maroto, job *models.Job) {
	totals := services.ComputeJobTotals(job)
	label := props.Text{Size: 10, Align: align.Right}
	value := props.Text{Size: 10, Align: align.Right}
	m.AddRows(
		row.New(5).Add(
			col.New(8),
			text.NewCol(2, "Subtotal:", label),
			text.NewCol(2, formatCurrency(totals.SubTotal), value),
		),
		row.New(5).Add(
			col.New(8),
			text.NewCol(2, fmt.Sprintf("VAT @ %g%%:", totals.EffectiveTaxRate), label),
			text.NewCol(2, formatCurrency(totals.TaxAmount), value),
		),
		row.New(7).Add(
			col.New(8),
			text.NewCol(2, "Total:", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, formatCurrency(totals.Total), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
}
