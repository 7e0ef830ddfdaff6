package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArticleSettings is the per-project generation and automation configuration.
// At most one row exists per project (enforced by the unique index).
type ArticleSettings struct {
	gorm.Model
	ProjectID uint    `gorm:"not null;uniqueIndex"`
	Project   Project `gorm:"constraint:OnDelete:CASCADE;"`

	// Automation toggles
	AutoGenerate bool `gorm:"not null;default:false"`
	AutoPublish  bool `gorm:"not null;default:false"`

	// Scheduling preferences
	PublishTime     string         `gorm:"not null;default:'09:00'"` // HH:MM, project-local
	PreferredDays   datatypes.JSON `gorm:"type:jsonb"`               // e.g. ["monday","wednesday"]
	ArticlesPerWeek int            `gorm:"not null;default:3"`

	// Generation knobs
	Language      string `gorm:"not null;default:'en'"`
	MinWords      int    `gorm:"not null;default:800"`
	MaxWords      int    `gorm:"not null;default:1500"`
	InternalLinks bool   `gorm:"not null;default:true"`
	StockImages   bool   `gorm:"not null;default:true"`
	EmbedVideo    bool   `gorm:"not null;default:false"`

	// ExtraSettings holds platform-specific options validated against the
	// platform catalog's JSON schema.
	ExtraSettings datatypes.JSON `gorm:"type:jsonb"`
}
