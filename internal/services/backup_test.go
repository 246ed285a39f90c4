package services

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/seobrien/jobledger/internal/models"
)

func TestBackupRoundTrip(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedProfile(t, db)
	jobs := NewJobService(db)

	mary := seedCustomer(t, db, "Mary")
	pat := seedCustomer(t, db, "Pat")

	specs := []struct {
		customer models.Customer
		title    string
		hours    float64
		rate     float64
		quantity float64
		cost     float64
	}{
		{mary, "Kitchen", 2, 50, 3, 10},
		{pat, "Bathroom", 8, 45, 1, 120},
		{mary, "Roof", 12, 55, 40, 3.5},
	}
	for _, spec := range specs {
		_, err := jobs.SaveJob(&models.Job{
			CustomerID: spec.customer.ID,
			JobTitle:   spec.title,
			Labour:     []models.LabourItem{{Description: "Work", Hours: spec.hours, Rate: spec.rate}},
			Materials:  []models.MaterialItem{{Name: "Stock", Quantity: spec.quantity, Cost: spec.cost}},
		})
		if err != nil {
			t.Fatalf("save %s: %v", spec.title, err)
		}
	}

	backup := NewBackupService(db, "")
	payload, path, err := backup.Create()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no file with empty dir, got %q", path)
	}

	var doc Backup
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if len(doc.Data.Customers) != 2 || len(doc.Data.Jobs) != 3 {
		t.Fatalf("backup contents: %d customers, %d jobs", len(doc.Data.Customers), len(doc.Data.Jobs))
	}
	if doc.Data.Profile.Name != "Test Trades Ltd" {
		t.Fatalf("profile missing from backup: %+v", doc.Data.Profile)
	}

	// Restore into a second, unrelated store.
	target := setupTestDB(t, t.Name()+"_target")
	if err := NewBackupService(target, "").Restore(payload); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored, err := NewJobService(target).GetJobs()
	if err != nil {
		t.Fatalf("list restored jobs: %v", err)
	}
	if len(restored) != 3 {
		t.Fatalf("expected 3 restored jobs, got %d", len(restored))
	}
	stored := make(map[string]float64, len(doc.Data.Jobs))
	for _, job := range doc.Data.Jobs {
		stored[job.JobTitle] = job.Total
	}
	for _, job := range restored {
		recomputed := ComputeJobTotals(&job)
		if !approxEqual(job.Total, recomputed.Total) {
			t.Fatalf("restored job %q: stored total %v != recomputed %v", job.JobTitle, job.Total, recomputed.Total)
		}
		if !approxEqual(job.Total, stored[job.JobTitle]) {
			t.Fatalf("restored job %q: total %v does not match backup's %v", job.JobTitle, job.Total, stored[job.JobTitle])
		}
		if job.Customer == nil {
			t.Fatalf("restored job %q lost its customer reference", job.JobTitle)
		}
	}
}

func TestRestoreThenCreateAssignsFreshIDs(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedProfile(t, db)
	customer := seedCustomer(t, db, "Existing")
	jobs := NewJobService(db)
	if _, err := jobs.SaveJob(&models.Job{CustomerID: customer.ID, JobTitle: "Existing job"}); err != nil {
		t.Fatalf("seed job: %v", err)
	}

	svc := NewBackupService(db, "")
	payload, _, err := svc.Create()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := svc.Restore(payload); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// Inserts after a restore must draw ids past the restored rows.
	created, err := NewCustomerService(db).AddCustomer(&models.Customer{Name: "After Restore"})
	if err != nil {
		t.Fatalf("add customer after restore: %v", err)
	}
	if created.ID <= customer.ID {
		t.Fatalf("new customer id %d collides with restored id %d", created.ID, customer.ID)
	}
	newJob, err := jobs.SaveJob(&models.Job{CustomerID: created.ID, JobTitle: "After restore"})
	if err != nil {
		t.Fatalf("save job after restore: %v", err)
	}
	restoredJobs, err := jobs.GetJobs()
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(restoredJobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(restoredJobs))
	}
	for _, job := range restoredJobs {
		if job.JobTitle == "Existing job" && job.ID == newJob.ID {
			t.Fatalf("new job reused restored id %d", job.ID)
		}
	}
}

func TestBackupWritesFile(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedProfile(t, db)

	dir := t.TempDir()
	_, path, err := NewBackupService(db, dir).Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("backup written outside dir: %q", path)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup file: %v", err)
	}
	var doc Backup
	if err := json.Unmarshal(contents, &doc); err != nil {
		t.Fatalf("backup file not valid JSON: %v", err)
	}
	if doc.CreatedAt == "" {
		t.Fatalf("createdAt missing")
	}
}

func TestRestoreClearsExistingData(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedProfile(t, db)
	jobs := NewJobService(db)
	old := seedCustomer(t, db, "Old")
	if _, err := jobs.SaveJob(&models.Job{CustomerID: old.ID, JobTitle: "Stale"}); err != nil {
		t.Fatalf("seed stale job: %v", err)
	}

	payload := []byte(`{
		"createdAt": "2025-01-01T00:00:00Z",
		"data": {
			"customers": [{"id": 1, "name": "Fresh"}],
			"jobs": [{"id": 1, "customerId": 1, "jobTitle": "Clean slate", "status": "New",
				"labour": [{"hours": 1, "rate": 100}], "materials": []}],
			"profile": {"name": "Restored Ltd"},
			"settings": {"theme": "dark"}
		}
	}`)
	if err := NewBackupService(db, "").Restore(payload); err != nil {
		t.Fatalf("restore: %v", err)
	}

	listed, err := jobs.GetJobs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].JobTitle != "Clean slate" {
		t.Fatalf("stale data survived restore: %+v", listed)
	}
	if !approxEqual(listed[0].Total, 113.5) {
		t.Fatalf("restored totals not recomputed: %v", listed[0].Total)
	}

	profiles := NewProfileService(db)
	profile, err := profiles.GetBusinessProfile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Name != "Restored Ltd" {
		t.Fatalf("profile not restored: %q", profile.Name)
	}
	settings, err := profiles.GetAppSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings["theme"] != "dark" {
		t.Fatalf("setting not restored: %q", settings["theme"])
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewBackupService(db, "")
	if err := svc.Restore([]byte("not json")); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
	if err := svc.Restore([]byte(`{"createdAt":"x","data":{}}`)); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup for empty data, got %v", err)
	}
}
