package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

// Seed creates the business profile singleton and default settings on
// first initialization. Existing rows are never overwritten.
func Seed(db *gorm.DB) error {
	var profile models.BusinessProfile
	err := db.First(&profile, models.BusinessProfileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.BusinessProfile{
			ID:   models.BusinessProfileID,
			Name: "Your Business Name",
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("seed business profile: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check business profile: %w", err)
	}

	for _, setting := range models.DefaultSettings() {
		var existing models.AppSetting
		err := db.Where("key = ?", setting.Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&setting).Error; err != nil {
				return fmt.Errorf("seed setting %q: %w", setting.Key, err)
			}
		} else if err != nil {
			return fmt.Errorf("check setting %q: %w", setting.Key, err)
		}
	}
	return nil
}
