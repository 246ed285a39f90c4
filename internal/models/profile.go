package models

// BusinessProfileID is the fixed primary key of the singleton profile row.
const BusinessProfileID = 1

// BusinessProfile is the business identity printed on quotes and invoices.
// A single row (id=1) is created with defaults on first initialization and
// only ever updated after that.
type BusinessProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	VATNumber string `json:"vatNumber,omitempty"`
	// Logo is a base64-encoded image, optionally with a data URI prefix.
	Logo string `gorm:"type:text" json:"logo,omitempty"`
}

func (BusinessProfile) TableName() string { return "business_profile" }
