package models

import (
	"time"

	"gorm.io/gorm"
)

// Article status constants
const (
	ArticleStatusDraft      = "draft"
	ArticleStatusScheduled  = "scheduled"
	ArticleStatusGenerating = "generating"
	ArticleStatusPublished  = "published"
)

// Article represents a generated SEO article and its publish lifecycle.
//
// The publish fields (CMSPostID, PublishedURL, PublishedAt) are set together
// in a single update when the article transitions to published, and only
// then. The pipeline never hard-deletes articles.
type Article struct {
	gorm.Model
	ProjectID       uint       `gorm:"not null;index"`
	Project         Project    `gorm:"constraint:OnDelete:CASCADE;"`
	Title           string     `gorm:"not null"`
	Slug            string     `gorm:"not null;default:''"`
	Content         string     `gorm:"type:text"`
	MetaDescription string     `gorm:"type:text"`
	Status          string     `gorm:"not null;default:'draft';index"`
	ScheduledAt     *time.Time `gorm:"index"`

	// Publish metadata, populated by the publish pipeline.
	CMSPostID    string `gorm:"column:cms_post_id;not null;default:''"`
	PublishedURL string `gorm:"not null;default:''"`
	PublishedAt  *time.Time
}

// IsDue reports whether the article is eligible for immediate publication.
func (a *Article) IsDue(now time.Time) bool {
	return a.Status == ArticleStatusScheduled && a.ScheduledAt != nil && !a.ScheduledAt.After(now)
}
