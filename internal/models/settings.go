package models

// AppSetting is a single key/value application setting.
type AppSetting struct {
	Key   string `gorm:"primaryKey;size:100" json:"key"`
	Value string `json:"value"`
}

func (AppSetting) TableName() string { return "app_settings" }

// DefaultSettings are seeded on first initialization; existing keys are
// never overwritten.
func DefaultSettings() []AppSetting {
	return []AppSetting{
		{Key: "reminders", Value: "daily"},
		{Key: "theme", Value: "light"},
		{Key: "backupLocation", Value: ""},
	}
}
