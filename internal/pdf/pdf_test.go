package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/seobrien/jobledger/internal/models"
)

func testJob() *models.Job {
	return &models.Job{
		JobTitle: "Roof repair",
		Customer: &models.Customer{Name: "Pat Doyle", Address: "4 Mill Lane"},
		Labour:   []models.LabourItem{{Description: "Slates", Hours: 6, Rate: 45}},
		Materials: []models.MaterialItem{
			{Name: "Felt", Quantity: 3, Cost: 22},
		},
		SubTotal:  336,
		TaxAmount: 45.36,
		Total:     381.36,
	}
}

func TestRenderProducesPDF(t *testing.T) {
	due := time.Now().Add(30 * 24 * time.Hour)
	out, err := Render(Document{
		Type:      "Invoice",
		Number:    "INV-2026-0001",
		IssueDate: time.Now(),
		DueDate:   &due,
		Job:       testJob(),
		Profile:   &models.BusinessProfile{Name: "Test Trades Ltd", VATNumber: "IE1234567X"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF") {
		t.Fatalf("output is not a PDF (%d bytes)", len(out))
	}
}

func TestRenderDegradesOnBadLogo(t *testing.T) {
	out, err := Render(Document{
		Type:      "Quote",
		Number:    "QT-2026-0001",
		IssueDate: time.Now(),
		Job:       testJob(),
		Profile: &models.BusinessProfile{
			Name: "Test Trades Ltd",
			Logo: "data:image/png;base64,not-valid-base64!!!",
		},
	})
	if err != nil {
		t.Fatalf("render with bad logo: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF") {
		t.Fatalf("output is not a PDF (%d bytes)", len(out))
	}
}

func TestRenderMissingCustomer(t *testing.T) {
	job := testJob()
	job.Customer = nil
	out, err := Render(Document{
		Type:      "Quote",
		Number:    "QT-2026-0002",
		IssueDate: time.Now(),
		Job:       job,
		Profile:   &models.BusinessProfile{Name: "Test Trades Ltd"},
	})
	if err != nil {
		t.Fatalf("render without customer: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
}
