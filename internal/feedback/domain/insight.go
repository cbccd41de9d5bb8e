package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Web-search insight providers
const (
	ProviderTavily     = "tavily"
	ProviderPerplexity = "perplexity"
)

// SearchInsight is a cached response from an external web-search/answer API,
// keyed by (provider, scope). Upserted by the insight ingestion job, read by
// the chat endpoint when article/press/social sources are in play.
type SearchInsight struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Provider    string         `json:"provider" gorm:"uniqueIndex:idx_insight_scope;not null"`
	Scope       string         `json:"scope" gorm:"uniqueIndex:idx_insight_scope;not null"`
	Response    string         `json:"response" gorm:"type:text"`
	Citations   datatypes.JSON `json:"citations,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

// TableName specifies the table name for GORM
func (SearchInsight) TableName() string {
	return "search_insights"
}
