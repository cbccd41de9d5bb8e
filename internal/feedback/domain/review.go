package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Review is a single customer review pulled from an external source
// (Google Places, CSV upload). (ExternalID, ClinicID) is the natural key.
type Review struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	ExternalID   string         `json:"external_id" gorm:"uniqueIndex:idx_review_natural;not null"`
	ClinicID     string         `json:"clinic_id" gorm:"uniqueIndex:idx_review_natural;index;not null"`
	Author       string         `json:"author"`
	Rating       int            `json:"rating"`
	Text         string         `json:"text" gorm:"type:text"`
	PublishedAt  time.Time      `json:"published_at" gorm:"index"`
	ResponseText *string        `json:"response_text,omitempty" gorm:"type:text"`
	ResponseAt   *time.Time     `json:"response_at,omitempty"`
	Raw          datatypes.JSON `json:"raw,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}
