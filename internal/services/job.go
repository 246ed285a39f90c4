package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

var ErrJobNotFound = errors.New("job_not_found")

// JobService owns job persistence. Saving a job rewrites its child line
// items wholesale inside one transaction and always recomputes the derived
// totals before the parent row is written.
type JobService struct{ DB *gorm.DB }

func NewJobService(db *gorm.DB) *JobService { return &JobService{DB: db} }

// childByID orders preloaded children by insertion order.
func childByID(db *gorm.DB) *gorm.DB { return db.Order("id") }

// withChildren preloads every child collection plus the customer.
func (s *JobService) withChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").
		Preload("Labour", childByID).
		Preload("Materials", childByID).
		Preload("Tasks", childByID).
		Preload("Vendors", childByID).
		Preload("Images", childByID)
}

// GetJobs returns all jobs, newest first, with children populated.
func (s *JobService) GetJobs() ([]models.Job, error) {
	var jobs []models.Job
	if err := s.withChildren(s.DB).Order("created_at DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetJob loads a single job with children populated.
func (s *JobService) GetJob(id uint) (*models.Job, error) {
	var job models.Job
	if err := s.withChildren(s.DB).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job %d: %w", id, err)
	}
	return &job, nil
}

// SaveJob creates or updates a job. New jobs start in status New unless the
// caller sets one. On update the children are replaced with the payload's
// (delete-all, reinsert) and the parent row is rewritten, all in a single
// transaction so a crash cannot leave partial children behind. Stored
// totals are the recomputation result; any client-supplied totals are
// ignored.
func (s *JobService) SaveJob(job *models.Job) (*models.Job, error) {
	if job.ID == 0 {
		return s.createJob(job)
	}
	return s.updateJob(job)
}

func (s *JobService) createJob(job *models.Job) (*models.Job, error) {
	if job.Status == "" {
		job.Status = models.JobStatusNew
	}
	job.Customer = nil
	resetChildIDs(job)
	ApplyTotals(job)
	if err := s.DB.Create(job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return s.GetJob(job.ID)
}

func (s *JobService) updateJob(job *models.Job) (*models.Job, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Job
		if err := tx.First(&existing, job.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("load job %d: %w", job.ID, err)
		}
		if job.Status == "" {
			job.Status = existing.Status
		}
		if err := deleteJobChildren(tx, job.ID); err != nil {
			return err
		}
		totals := ApplyTotals(job)
		updates := map[string]any{
			"customer_id":    job.CustomerID,
			"job_title":      job.JobTitle,
			"status":         job.Status,
			"date_requested": job.DateRequested,
			"tax_rate":       job.TaxRate,
			"sub_total":      totals.SubTotal,
			"tax_amount":     totals.TaxAmount,
			"total":          totals.Total,
		}
		if err := tx.Model(&models.Job{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update job %d: %w", job.ID, err)
		}
		return insertJobChildren(tx, job)
	})
	if err != nil {
		return nil, err
	}
	return s.GetJob(job.ID)
}

// deleteJobChildren clears every child row of a job.
func deleteJobChildren(tx *gorm.DB, jobID uint) error {
	for _, model := range []any{
		&models.LabourItem{}, &models.MaterialItem{}, &models.Task{},
		&models.Vendor{}, &models.JobImage{},
	} {
		if err := tx.Where("job_id = ?", jobID).Delete(model).Error; err != nil {
			return fmt.Errorf("clear job children: %w", err)
		}
	}
	return nil
}

// insertJobChildren reinserts the payload children in order with fresh ids.
func insertJobChildren(tx *gorm.DB, job *models.Job) error {
	resetChildIDs(job)
	if len(job.Labour) > 0 {
		if err := tx.Create(&job.Labour).Error; err != nil {
			return fmt.Errorf("insert labour: %w", err)
		}
	}
	if len(job.Materials) > 0 {
		if err := tx.Create(&job.Materials).Error; err != nil {
			return fmt.Errorf("insert materials: %w", err)
		}
	}
	if len(job.Tasks) > 0 {
		if err := tx.Create(&job.Tasks).Error; err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
	}
	if len(job.Vendors) > 0 {
		if err := tx.Create(&job.Vendors).Error; err != nil {
			return fmt.Errorf("insert vendors: %w", err)
		}
	}
	if len(job.Images) > 0 {
		if err := tx.Create(&job.Images).Error; err != nil {
			return fmt.Errorf("insert images: %w", err)
		}
	}
	return nil
}

// resetChildIDs zeroes child primary keys and points them at the parent so
// reinsertion allocates fresh rows in payload order.
func resetChildIDs(job *models.Job) {
	for i := range job.Labour {
		job.Labour[i].ID = 0
		job.Labour[i].JobID = job.ID
	}
	for i := range job.Materials {
		job.Materials[i].ID = 0
		job.Materials[i].JobID = job.ID
	}
	for i := range job.Tasks {
		job.Tasks[i].ID = 0
		job.Tasks[i].JobID = job.ID
	}
	for i := range job.Vendors {
		job.Vendors[i].ID = 0
		job.Vendors[i].JobID = job.ID
	}
	for i := range job.Images {
		job.Images[i].ID = 0
		job.Images[i].JobID = job.ID
	}
}
