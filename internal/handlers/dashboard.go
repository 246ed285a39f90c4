package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
)

// DashboardHandler serves summary stats for the landing screen.
type DashboardHandler struct {
	DB   *gorm.DB
	Docs *services.DocumentService
}

func NewDashboardHandler(db *gorm.DB, docs *services.DocumentService) *DashboardHandler {
	return &DashboardHandler{DB: db, Docs: docs}
}

// Stats: GET /dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var customerCount, jobCount, quoteCount, invoiceCount int64
	for _, c := range []struct {
		model any
		dst   *int64
	}{
		{&models.Customer{}, &customerCount},
		{&models.Job{}, &jobCount},
		{&models.Quote{}, &quoteCount},
		{&models.Invoice{}, &invoiceCount},
	} {
		if err := h.DB.Model(c.model).Count(c.dst).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
			return
		}
	}

	revenue, err := h.Docs.GetRevenue()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}

	var recentJobs []models.Job
	if err := h.DB.Preload("Customer").Order("created_at DESC, id DESC").Limit(5).Find(&recentJobs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers":  customerCount,
		"jobs":       jobCount,
		"quotes":     quoteCount,
		"invoices":   invoiceCount,
		"revenue":    revenue,
		"recentJobs": recentJobs,
	})
}
