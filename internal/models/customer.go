package models

import "time"

// Customer is a billing contact. Jobs hold a non-owning reference to it;
// there is no delete path, so historical jobs always resolve their customer.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;index" json:"name"`
	CompanyName  string    `json:"companyName,omitempty"`
	RoleTitle    string    `json:"roleTitle,omitempty"`
	Email        string    `json:"email,omitempty"`
	PhoneNumbers string    `json:"phoneNumbers,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
