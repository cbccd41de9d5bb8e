package domain

import "time"

// Summary time scopes. Each cached summary covers one of these windows.
const (
	ScopeLast7Days  = "last_7_days"
	ScopeLast30Days = "last_30_days"
	ScopeLast90Days = "last_90_days"
	ScopeAllTime    = "all_time"
)

// AllScopes lists the time windows the batch generator iterates.
var AllScopes = []string{ScopeLast7Days, ScopeLast30Days, ScopeLast90Days, ScopeAllTime}

// SummaryFreshness is how long a cached summary is served before the
// generator considers it stale.
const SummaryFreshness = 24 * time.Hour

// BrandSummary is a cached LLM-generated summary for one
// (clinic, source type, time window) scope. Nil ClinicID means all clinics;
// nil SourceType means all sources. Overwritten in place by the generator,
// read-only to the chat endpoint.
type BrandSummary struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ClinicID    *string   `json:"clinic_id,omitempty" gorm:"uniqueIndex:idx_summary_scope"`
	SourceType  *string   `json:"source_type,omitempty" gorm:"uniqueIndex:idx_summary_scope"`
	Scope       string    `json:"scope" gorm:"uniqueIndex:idx_summary_scope;not null"`
	Summary     string    `json:"summary" gorm:"type:text"`
	ItemCount   int       `json:"item_count"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// TableName specifies the table name for GORM
func (BrandSummary) TableName() string {
	return "brand_summaries"
}

// Fresh reports whether the summary is younger than the freshness window.
func (s *BrandSummary) Fresh(now time.Time) bool {
	return now.Sub(s.RefreshedAt) < SummaryFreshness
}

// ScopeWindow translates a scope label into its inclusive start time.
// The second return is false for all_time (no lower bound).
func ScopeWindow(scope string, now time.Time) (time.Time, bool) {
	switch scope {
	case ScopeLast7Days:
		return now.AddDate(0, 0, -7), true
	case ScopeLast30Days:
		return now.AddDate(0, 0, -30), true
	case ScopeLast90Days:
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}
