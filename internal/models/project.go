package models

import "gorm.io/gorm"

// Project owns articles, settings, and publish-target integrations. Its
// descriptive fields are fed into the generation prompt as context.
type Project struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Website     string `gorm:"not null;default:''"`
	Description string `gorm:"type:text"`
	Audience    string `gorm:"not null;default:''"`
	Tone        string `gorm:"not null;default:'professional'"`

	// Associations
	Articles     []Article     `gorm:"constraint:OnDelete:CASCADE;"`
	Integrations []Integration `gorm:"constraint:OnDelete:CASCADE;"`
	ContentIdeas []ContentIdea `gorm:"constraint:OnDelete:CASCADE;"`
}
