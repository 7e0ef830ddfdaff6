package models

import "gorm.io/gorm"

// GenerationLog status constants
const (
	GenerationLogStatusFailed    = "failed"
	GenerationLogStatusSucceeded = "succeeded"
)

// GenerationLog is an append-only record of generation outcomes. It exists
// for observability and is never read back by the pipelines.
type GenerationLog struct {
	gorm.Model
	ProjectID uint   `gorm:"not null;index"`
	ArticleID uint   `gorm:"not null;index"`
	Status    string `gorm:"not null"`
	Attempts  int    `gorm:"not null;default:0"`
	Error     string `gorm:"type:text"`
}
