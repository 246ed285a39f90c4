package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
)

func seedCustomer(t *testing.T, db *gorm.DB) models.Customer {
	t.Helper()
	customer := models.Customer{Name: "Test Customer"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func TestJobCreateComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	h := NewJobHandler(services.NewJobService(db))
	customer := seedCustomer(t, db)

	body := `{
		"customerId": ` + jsonUint(customer.ID) + `,
		"jobTitle": "Garden wall",
		"labour": [{"description": "Blockwork", "hours": 8, "rate": 35}],
		"materials": [{"name": "Blocks", "quantity": 100, "cost": 1.2}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var job models.Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 8*35 + 100*1.2 = 400, default VAT 13.5%.
	if job.SubTotal != 400 {
		t.Fatalf("expected subTotal 400, got %v", job.SubTotal)
	}
	if job.Status != models.JobStatusNew {
		t.Fatalf("expected status New, got %s", job.Status)
	}
}

func TestJobCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	h := NewJobHandler(services.NewJobService(db))

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{"jobTitle": ""}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
	if _, ok := resp.Details["jobTitle"]; !ok {
		t.Fatalf("expected jobTitle violation, got %v", resp.Details)
	}
	if _, ok := resp.Details["customerId"]; !ok {
		t.Fatalf("expected customerId violation, got %v", resp.Details)
	}
}

func TestJobCreateRejectsNegativeTaxRate(t *testing.T) {
	db := setupTestDB(t)
	h := NewJobHandler(services.NewJobService(db))
	customer := seedCustomer(t, db)

	body := `{"customerId": ` + jsonUint(customer.ID) + `, "jobTitle": "Bad rate", "taxRate": -5}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["taxRate"] != "must_not_be_negative" {
		t.Fatalf("expected taxRate violation, got %v", resp.Details)
	}
}

func TestJobUpdateReplacesChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewJobService(db)
	h := NewJobHandler(svc)
	customer := seedCustomer(t, db)

	job, err := svc.SaveJob(&models.Job{
		CustomerID: customer.ID,
		JobTitle:   "Initial",
		Labour:     []models.LabourItem{{Description: "Old", Hours: 1, Rate: 10}},
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}

	body := `{
		"customerId": ` + jsonUint(customer.ID) + `,
		"jobTitle": "Updated",
		"labour": [{"description": "New", "hours": 2, "rate": 20}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/jobs/1", strings.NewReader(body))
	req.SetPathValue("id", jsonUint(job.ID))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	reloaded, err := svc.GetJob(job.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.JobTitle != "Updated" {
		t.Fatalf("title not updated: %s", reloaded.JobTitle)
	}
	if len(reloaded.Labour) != 1 || reloaded.Labour[0].Description != "New" {
		t.Fatalf("children not replaced: %+v", reloaded.Labour)
	}
	if reloaded.SubTotal != 40 {
		t.Fatalf("totals not recomputed: %v", reloaded.SubTotal)
	}
}

func TestJobUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	h := NewJobHandler(services.NewJobService(db))
	customer := seedCustomer(t, db)

	body := `{"customerId": ` + jsonUint(customer.ID) + `, "jobTitle": "Ghost"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs/42", strings.NewReader(body))
	req.SetPathValue("id", "42")
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", w.Code, w.Body.String())
	}
}

func jsonUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
