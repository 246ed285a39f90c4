package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seobrien/jobledger/internal/models"
)

// ProfileService manages the business profile singleton and the app
// settings map.
type ProfileService struct{ DB *gorm.DB }

func NewProfileService(db *gorm.DB) *ProfileService { return &ProfileService{DB: db} }

// GetBusinessProfile returns the singleton profile row. The row is seeded
// at startup, so a missing row is a store error, not a normal condition.
func (s *ProfileService) GetBusinessProfile() (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	if err := s.DB.First(&profile, models.BusinessProfileID).Error; err != nil {
		return nil, fmt.Errorf("load business profile: %w", err)
	}
	return &profile, nil
}

// UpdateBusinessProfile overwrites the singleton profile row.
func (s *ProfileService) UpdateBusinessProfile(profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	profile.ID = models.BusinessProfileID
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("update business profile: %w", err)
	}
	return s.GetBusinessProfile()
}

// GetAppSettings returns all settings as a key/value map.
func (s *ProfileService) GetAppSettings() (map[string]string, error) {
	var settings []models.AppSetting
	if err := s.DB.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// UpdateAppSetting upserts a single setting key.
func (s *ProfileService) UpdateAppSetting(key, value string) error {
	setting := models.AppSetting{Key: key, Value: value}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("update setting %q: %w", key, err)
	}
	return nil
}
