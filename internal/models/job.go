package models

import "time"

// JobStatus tracks where a job sits in the quote/invoice workflow.
type JobStatus string

const (
	JobStatusNew        JobStatus = "New"
	JobStatusQuoted     JobStatus = "Quoted"
	JobStatusApproved   JobStatus = "Approved"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusInvoiced   JobStatus = "Invoiced"
	JobStatusPaid       JobStatus = "Paid"
)

// Job is a unit of billable work for a customer. SubTotal, TaxAmount and
// Total are derived: they are recomputed from the line items and tax rate
// on every write and must never be taken from a client payload.
type Job struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	JobTitle      string    `gorm:"not null" json:"jobTitle"`
	Status        JobStatus `gorm:"size:20;default:'New'" json:"status"`
	DateRequested string    `json:"dateRequested,omitempty"`

	// TaxRate is a percentage. A nil rate means "not set" and falls back to
	// the default; an explicit 0 is a genuine zero-rated job.
	TaxRate *float64 `json:"taxRate,omitempty"`

	SubTotal  float64 `json:"subTotal"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`

	Labour    []LabourItem   `gorm:"foreignKey:JobID" json:"labour"`
	Materials []MaterialItem `gorm:"foreignKey:JobID" json:"materials"`
	Tasks     []Task         `gorm:"foreignKey:JobID" json:"tasks,omitempty"`
	Vendors   []Vendor       `gorm:"foreignKey:JobID" json:"vendors,omitempty"`
	Images    []JobImage     `gorm:"foreignKey:JobID" json:"images,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LabourItem contributes hours*rate to the job subtotal.
// Order within a job is insertion order (ascending id).
type LabourItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	JobID       uint    `gorm:"index;not null" json:"jobId"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
}

func (LabourItem) TableName() string { return "labour" }

// MaterialItem contributes quantity*cost to the job subtotal.
type MaterialItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	JobID    uint    `gorm:"index;not null" json:"jobId"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

func (MaterialItem) TableName() string { return "materials" }

// Task is a checklist entry on a job.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	JobID       uint   `gorm:"index;not null" json:"jobId"`
	Description string `gorm:"not null" json:"description"`
	Completed   bool   `gorm:"default:false" json:"completed"`
}

// Vendor is a supplier attached to a job.
type Vendor struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	JobID   uint   `gorm:"index;not null" json:"jobId"`
	Name    string `gorm:"not null" json:"name"`
	Contact string `json:"contact,omitempty"`
}

// JobImage is a photo attachment reference (before/after shots etc.).
// The file itself lives outside the store; only the path is tracked.
type JobImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	JobID     uint   `gorm:"index;not null" json:"jobId"`
	Type      string `json:"type,omitempty"`
	ImagePath string `json:"imagePath"`
}
