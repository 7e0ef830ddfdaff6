package models

import (
	"time"

	"gorm.io/gorm"
)

// Integration platform and status constants
const (
	PlatformWordPress = "wordpress"

	IntegrationStatusActive   = "active"
	IntegrationStatusInactive = "inactive"
)

// Integration stores per-project credentials for one publish target
// platform. Articles reach their integration by project+platform lookup,
// not by a direct foreign key.
type Integration struct {
	gorm.Model
	ProjectID uint    `gorm:"not null;index"`
	Project   Project `gorm:"constraint:OnDelete:CASCADE;"`
	Platform  string  `gorm:"not null;default:'wordpress';index"`
	SiteURL   string  `gorm:"not null"`
	Username  string  `gorm:"not null"`

	// AppPassword is stored AES-256-GCM encrypted. Decrypt before use.
	AppPassword string `gorm:"not null"`

	Status       string `gorm:"not null;default:'active';index"`
	LastTestedAt *time.Time
}
