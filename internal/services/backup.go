package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

var ErrInvalidBackup = errors.New("invalid_backup")

// Backup is the on-disk backup document.
type Backup struct {
	CreatedAt string     `json:"createdAt"`
	Data      BackupData `json:"data"`
}

// BackupData carries every user-owned record.
type BackupData struct {
	Customers []models.Customer      `json:"customers"`
	Jobs      []models.Job           `json:"jobs"`
	Profile   models.BusinessProfile `json:"profile"`
	Settings  map[string]string      `json:"settings"`
}

// BackupService snapshots the whole store to a JSON document and restores
// from one. Dir is where Create writes backup files; an empty Dir skips the
// file write and only returns the bytes.
type BackupService struct {
	DB  *gorm.DB
	Dir string
}

func NewBackupService(db *gorm.DB, dir string) *BackupService {
	return &BackupService{DB: db, Dir: dir}
}

// Create serializes customers, jobs (with children), the business profile
// and settings. Returns the JSON bytes and, when Dir is set, the path of
// the written file.
func (s *BackupService) Create() ([]byte, string, error) {
	jobs := NewJobService(s.DB)
	profiles := NewProfileService(s.DB)
	customers := NewCustomerService(s.DB)

	customerList, err := customers.GetCustomers()
	if err != nil {
		return nil, "", err
	}
	jobList, err := jobs.GetJobs()
	if err != nil {
		return nil, "", err
	}
	profile, err := profiles.GetBusinessProfile()
	if err != nil {
		return nil, "", err
	}
	settings, err := profiles.GetAppSettings()
	if err != nil {
		return nil, "", err
	}

	backup := Backup{
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Data: BackupData{
			Customers: customerList,
			Jobs:      jobList,
			Profile:   *profile,
			Settings:  settings,
		},
	}
	payload, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode backup: %w", err)
	}

	var path string
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create backup dir: %w", err)
		}
		name := fmt.Sprintf("backup-%s-%s.json",
			time.Now().Format("20060102-150405"), uuid.NewString()[:8])
		path = filepath.Join(s.Dir, name)
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return nil, "", fmt.Errorf("write backup file: %w", err)
		}
	}
	return payload, path, nil
}

// Restore replaces the store contents with a backup document. Children are
// cleared before parents to respect ownership constraints, then customers
// and jobs are reinserted with their original ids so references survive.
// Job totals are recomputed on insert rather than trusted from the file.
func (s *BackupService) Restore(payload []byte) error {
	var backup Backup
	if err := json.Unmarshal(payload, &backup); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if backup.Data.Customers == nil && backup.Data.Jobs == nil {
		return ErrInvalidBackup
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Children first, parents last.
		clearOrder := []any{
			&models.LabourItem{}, &models.MaterialItem{}, &models.Task{},
			&models.Vendor{}, &models.JobImage{}, &models.Quote{},
			&models.Invoice{}, &models.Job{}, &models.Customer{},
		}
		for _, model := range clearOrder {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear table %T: %w", model, err)
			}
		}

		for i := range backup.Data.Customers {
			customer := backup.Data.Customers[i]
			if err := tx.Create(&customer).Error; err != nil {
				return fmt.Errorf("restore customer %q: %w", customer.Name, err)
			}
		}
		for i := range backup.Data.Jobs {
			job := backup.Data.Jobs[i]
			job.Customer = nil
			for j := range job.Labour {
				job.Labour[j].ID = 0
				job.Labour[j].JobID = job.ID
			}
			for j := range job.Materials {
				job.Materials[j].ID = 0
				job.Materials[j].JobID = job.ID
			}
			for j := range job.Tasks {
				job.Tasks[j].ID = 0
				job.Tasks[j].JobID = job.ID
			}
			for j := range job.Vendors {
				job.Vendors[j].ID = 0
				job.Vendors[j].JobID = job.ID
			}
			for j := range job.Images {
				job.Images[j].ID = 0
				job.Images[j].JobID = job.ID
			}
			ApplyTotals(&job)
			if err := tx.Create(&job).Error; err != nil {
				return fmt.Errorf("restore job %q: %w", job.JobTitle, err)
			}
		}

		if err := syncIDSequences(tx); err != nil {
			return err
		}

		if backup.Data.Profile.Name != "" {
			profile := backup.Data.Profile
			profile.ID = models.BusinessProfileID
			if err := tx.Save(&profile).Error; err != nil {
				return fmt.Errorf("restore business profile: %w", err)
			}
		}
		for key, value := range backup.Data.Settings {
			setting := models.AppSetting{Key: key, Value: value}
			if err := tx.Save(&setting).Error; err != nil {
				return fmt.Errorf("restore setting %q: %w", key, err)
			}
		}
		return nil
	})
}

// syncIDSequences advances the customers and jobs id sequences past the
// restored rows. PostgreSQL does not move a sequence when rows are inserted
// with explicit ids, so without this the next insert draws an id that
// collides with a restored row. SQLite allocates rowids from the table
// itself and needs nothing.
func syncIDSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"customers", "jobs"} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 1) FROM %s), 1))",
			table, table)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("sync %s id sequence: %w", table, err)
		}
	}
	return nil
}
