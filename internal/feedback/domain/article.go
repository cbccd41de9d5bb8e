package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Article source categories
const (
	SourceBlog    = "blog"
	SourcePress   = "press"
	SourceArticle = "article"
	SourceSocial  = "social"
)

// Article is a scraped news article, blog post or social post.
// The URL is the natural key; ExternalID mirrors it for consistency
// with Review storage.
type Article struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	ExternalID  string         `json:"external_id" gorm:"not null"`
	SourceType  string         `json:"source_type" gorm:"index;not null"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	URL         string         `json:"url" gorm:"uniqueIndex;not null"`
	Author      *string        `json:"author,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty" gorm:"index"`
	Content     string         `json:"content" gorm:"type:text"`
	RawHTML     *string        `json:"raw_html,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// ValidSourceType reports whether s is one of the known article source categories.
func ValidSourceType(s string) bool {
	switch s {
	case SourceBlog, SourcePress, SourceArticle, SourceSocial:
		return true
	}
	return false
}
