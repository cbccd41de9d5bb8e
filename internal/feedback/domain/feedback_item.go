package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Feedback source type tags. Reviews and articles mirror into the unified
// feedback table under one of these.
const (
	FeedbackGoogleReview = "google_review"
	FeedbackCSVReview    = "csv_review"
	FeedbackArticle      = "article"
	FeedbackBlog         = "blog"
	FeedbackPress        = "press"
	FeedbackSocial       = "social"
)

// FeedbackItem is the unified record spanning reviews, articles and social
// posts. It is written as a secondary mirror whenever a Review or Article is
// stored and is never updated or deleted by the pipeline. The de-duplicating
// key is (clinic_id, source_type, metadata.external_id).
type FeedbackItem struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	ClinicID   string         `json:"clinic_id" gorm:"index;not null"`
	SourceType string         `json:"source_type" gorm:"index;not null"`
	Text       string         `json:"text" gorm:"type:text"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for GORM
func (FeedbackItem) TableName() string {
	return "feedback_items"
}
