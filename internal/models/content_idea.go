package models

import "gorm.io/gorm"

// ContentIdea is an unconsumed work item the generation routine draws from.
// ArticleID is set once when the idea is consumed and not changed afterwards.
type ContentIdea struct {
	gorm.Model
	ProjectID   uint    `gorm:"not null;index"`
	Project     Project `gorm:"constraint:OnDelete:CASCADE;"`
	Keyword     string  `gorm:"not null"`
	ContentType string  `gorm:"not null;default:'blog_post'"`
	Difficulty  int     `gorm:"not null;default:0"`
	ArticleID   *uint   `gorm:"index"`
}
