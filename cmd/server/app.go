package main

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/config"
	"github.com/seobrien/jobledger/internal/handlers"
	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
}

// NewApp wires services and handlers and configures every route.
func NewApp(db *gorm.DB, cfg *config.Config) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
	}

	jobSvc := services.NewJobService(db)
	customerSvc := services.NewCustomerService(db)
	profileSvc := services.NewProfileService(db)
	documentSvc := services.NewDocumentService(db)
	backupSvc := services.NewBackupService(db, cfg.App.BackupDir)
	exportSvc := services.NewExportService(db)

	ch := handlers.NewCustomerHandler(customerSvc)
	jh := handlers.NewJobHandler(jobSvc)
	dh := handlers.NewDocumentHandler(documentSvc, profileSvc)
	ph := handlers.NewProfileHandler(profileSvc)
	bh := handlers.NewBackupHandler(backupSvc)
	eh := handlers.NewExportHandler(exportSvc)
	dash := handlers.NewDashboardHandler(db, documentSvc)

	// Customers
	app.mux.HandleFunc("GET /customers", ch.List)
	app.mux.HandleFunc("POST /customers", ch.Create)
	app.mux.HandleFunc("GET /customers/{id}", ch.View)
	app.mux.HandleFunc("POST /customers/{id}", ch.Update)

	// Jobs
	app.mux.HandleFunc("GET /jobs", jh.List)
	app.mux.HandleFunc("POST /jobs", jh.Create)
	app.mux.HandleFunc("GET /jobs/{id}", jh.View)
	app.mux.HandleFunc("POST /jobs/{id}", jh.Update)

	// Documents
	app.mux.HandleFunc("POST /jobs/{id}/quote", dh.GenerateQuote)
	app.mux.HandleFunc("POST /jobs/{id}/invoice", dh.GenerateInvoice)
	app.mux.HandleFunc("GET /quotes", dh.ListQuotes)
	app.mux.HandleFunc("GET /invoices", dh.ListInvoices)
	app.mux.HandleFunc("POST /quotes/{id}/status", dh.UpdateQuoteStatus)
	app.mux.HandleFunc("POST /invoices/{id}/status", dh.UpdateInvoiceStatus)
	app.mux.HandleFunc("GET /quotes/{id}/pdf", dh.QuotePDF)
	app.mux.HandleFunc("GET /invoices/{id}/pdf", dh.InvoicePDF)

	// Business profile & settings
	app.mux.HandleFunc("GET /profile", ph.View)
	app.mux.HandleFunc("POST /profile", ph.Update)
	app.mux.HandleFunc("GET /settings", ph.Settings)
	app.mux.HandleFunc("POST /settings/{key}", ph.UpdateSetting)

	// Backup & export
	app.mux.HandleFunc("POST /backup", bh.Create)
	app.mux.HandleFunc("POST /restore", bh.Restore)
	app.mux.HandleFunc("GET /export/csv", eh.CSV)
	app.mux.HandleFunc("GET /export/xlsx", eh.XLSX)

	// Dashboard & health
	app.mux.HandleFunc("GET /dashboard", dash.Stats)
	app.mux.HandleFunc("GET /healthz", app.health)

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Exec("SELECT 1").Error; err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "db_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withLogging adds request logging middleware with a per-request id.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %s", requestID[:8], r.Method, r.URL.Path, time.Since(start))
	})
}
