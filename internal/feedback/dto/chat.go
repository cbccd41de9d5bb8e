package dto

// ChatRequest is a free-text question plus optional retrieval filters.
// Explicit filters override detection from the question text.
type ChatRequest struct {
	Question    string   `json:"question" binding:"required"`
	Sources     []string `json:"sources,omitempty"`
	ClinicID    string   `json:"clinic_id,omitempty"`
	DateFrom    string   `json:"date_from,omitempty"` // YYYY-MM-DD, inclusive
	DateTo      string   `json:"date_to,omitempty"`   // YYYY-MM-DD, inclusive
	AnalyzeAll  bool     `json:"analyze_all,omitempty"`
	UseFallback bool     `json:"use_fallback,omitempty"`
}

// ChatResponse carries the model's answer verbatim plus retrieval telemetry.
type ChatResponse struct {
	Answer       string   `json:"answer"`
	ClinicID     string   `json:"clinic_id,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	SummaryCount int      `json:"summary_count"`
	SnippetCount int      `json:"snippet_count"`
	InsightCount int      `json:"insight_count"`
	UsedFallback bool     `json:"used_fallback"`
}
