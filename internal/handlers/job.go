package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
	"github.com/seobrien/jobledger/internal/validation"
)

// JobHandler serves the job endpoints.
type JobHandler struct {
	Svc *services.JobService
}

func NewJobHandler(svc *services.JobService) *JobHandler {
	return &JobHandler{Svc: svc}
}

// List: GET /jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.GetJobs()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_jobs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": jobs, "total": len(jobs)})
}

// View: GET /jobs/{id}
func (h *JobHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	job, err := h.Svc.GetJob(id)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "job_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_job", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

// Create: POST /jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateJob(&job); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	job.ID = 0
	saved, err := h.Svc.SaveJob(&job)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_job", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

// Update: POST /jobs/{id}. Replaces the job fields and all children.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateJob(&job); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	job.ID = id
	saved, err := h.Svc.SaveJob(&job)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "job_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_job", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func validateJob(job *models.Job) validation.Violations {
	v := validation.Violations{}
	validation.Required("jobTitle", job.JobTitle, v)
	validation.RequiredID("customerId", job.CustomerID, v)
	if job.TaxRate != nil {
		validation.NonNegativeFloat("taxRate", *job.TaxRate, v)
	}
	return v
}
