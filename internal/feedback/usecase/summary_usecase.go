package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/pkg/ai"
	"brandpulse-backend/pkg/logger"
)

// Summary generation statuses
const (
	StatusSkipped = "skipped"
	StatusEmpty   = "empty"
	StatusSuccess = "success"
	StatusError   = "error"
)

// emptyScopePlaceholder is stored when a scope has no matching feedback, so
// the chat endpoint can say so instead of fabricating.
const emptyScopePlaceholder = "No feedback has been recorded for this scope yet."

// summaryItemCap bounds how many feedback items feed a single summary call.
const summaryItemCap = 200

// summaryTextBudget bounds the grouped text handed to the model, in bytes.
const summaryTextBudget = 12000

// batchSourceTypes are the per-source summary slices the batch driver
// iterates, in addition to the nil all-sources slice.
var batchSourceTypes = []string{
	domain.FeedbackGoogleReview,
	domain.FeedbackArticle,
	domain.FeedbackPress,
	domain.FeedbackBlog,
	domain.FeedbackSocial,
}

// ScopeKey identifies one summary scope in batch reports.
type ScopeKey struct {
	ClinicID   *string `json:"clinic_id,omitempty"`
	SourceType *string `json:"source_type,omitempty"`
	Scope      string  `json:"scope"`
}

// SummaryResult is the outcome of generating one scope.
type SummaryResult struct {
	Key       ScopeKey `json:"key"`
	Status    string   `json:"status"`
	ItemCount int      `json:"item_count"`
	Error     string   `json:"error,omitempty"`
}

// BatchReport describes a (possibly partial) batch run. When the wall-clock
// budget runs out mid-batch, Remaining lists the unprocessed scopes and the
// caller is expected to re-invoke until it is empty.
type BatchReport struct {
	Processed int             `json:"processed"`
	Total     int             `json:"total"`
	Results   []SummaryResult `json:"results"`
	Remaining []ScopeKey      `json:"remaining"`
}

// SummaryUsecase generates and refreshes cached brand summaries.
type SummaryUsecase struct {
	feedbackRepo repository.FeedbackRepository
	summaryRepo  repository.SummaryRepository
	model        ai.Generator
	log          *logger.Logger
	now          func() time.Time
}

func NewSummaryUsecase(
	feedbackRepo repository.FeedbackRepository,
	summaryRepo repository.SummaryRepository,
	model ai.Generator,
	log *logger.Logger,
) *SummaryUsecase {
	return &SummaryUsecase{
		feedbackRepo: feedbackRepo,
		summaryRepo:  summaryRepo,
		model:        model,
		log:          log,
		now:          time.Now,
	}
}

// SetClock replaces the wall clock. For tests.
func (u *SummaryUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// GenerateSummary refreshes one scope. A fresh existing summary (younger
// than the freshness window) is skipped unless force is set. An empty scope
// stores a placeholder. Model or storage failures leave any existing summary
// unchanged and report the error.
func (u *SummaryUsecase) GenerateSummary(ctx context.Context, clinicID *string, sourceType *string, scope string, force bool) SummaryResult {
	key := ScopeKey{ClinicID: clinicID, SourceType: sourceType, Scope: scope}

	existing, err := u.summaryRepo.Get(clinicID, sourceType, scope)
	if err != nil {
		return SummaryResult{Key: key, Status: StatusError, Error: err.Error()}
	}
	if existing != nil && existing.Fresh(u.now()) && !force {
		return SummaryResult{Key: key, Status: StatusSkipped, ItemCount: existing.ItemCount}
	}

	var from *time.Time
	if start, bounded := domain.ScopeWindow(scope, u.now()); bounded {
		from = &start
	}

	items, err := u.feedbackRepo.ListForScope(clinicID, sourceType, from, summaryItemCap)
	if err != nil {
		return SummaryResult{Key: key, Status: StatusError, Error: err.Error()}
	}

	if len(items) == 0 {
		record := &domain.BrandSummary{
			ClinicID:   clinicID,
			SourceType: sourceType,
			Scope:      scope,
			Summary:    emptyScopePlaceholder,
			ItemCount:  0,
		}
		if err := u.summaryRepo.Upsert(record); err != nil {
			return SummaryResult{Key: key, Status: StatusError, Error: err.Error()}
		}
		return SummaryResult{Key: key, Status: StatusEmpty}
	}

	prompt := buildSummaryPrompt(key, items)
	text, err := u.model.Generate(ctx, prompt)
	if err != nil {
		u.log.Warn("summary generation failed", "scope", scope, "error", err)
		return SummaryResult{Key: key, Status: StatusError, Error: err.Error()}
	}

	record := &domain.BrandSummary{
		ClinicID:   clinicID,
		SourceType: sourceType,
		Scope:      scope,
		Summary:    strings.TrimSpace(text),
		ItemCount:  len(items),
	}
	if err := u.summaryRepo.Upsert(record); err != nil {
		return SummaryResult{Key: key, Status: StatusError, Error: err.Error()}
	}
	return SummaryResult{Key: key, Status: StatusSuccess, ItemCount: len(items)}
}

// GenerateAll iterates clinic x source-type x time-window combinations under
// a wall-clock budget. It never times out uncontrolled: exceeding the budget
// stops the iteration and reports the remaining scopes instead.
func (u *SummaryUsecase) GenerateAll(ctx context.Context, budget time.Duration, force bool) BatchReport {
	keys := u.allScopeKeys()
	report := BatchReport{Total: len(keys)}
	start := u.now()

	for i, key := range keys {
		if budget > 0 && u.now().Sub(start) >= budget {
			report.Remaining = keys[i:]
			break
		}
		result := u.GenerateSummary(ctx, key.ClinicID, key.SourceType, key.Scope, force)
		report.Results = append(report.Results, result)
		report.Processed++
	}
	if report.Remaining == nil {
		report.Remaining = []ScopeKey{}
	}
	return report
}

func (u *SummaryUsecase) allScopeKeys() []ScopeKey {
	clinics := []*string{nil}
	for _, id := range domain.ClinicIDs() {
		id := id
		clinics = append(clinics, &id)
	}
	sources := []*string{nil}
	for _, s := range batchSourceTypes {
		s := s
		sources = append(sources, &s)
	}

	var keys []ScopeKey
	for _, clinic := range clinics {
		for _, source := range sources {
			for _, scope := range domain.AllScopes {
				keys = append(keys, ScopeKey{ClinicID: clinic, SourceType: source, Scope: scope})
			}
		}
	}
	return keys
}

func buildSummaryPrompt(key ScopeKey, items []*domain.FeedbackItem) string {
	var sb strings.Builder
	sb.WriteString("You are a brand-intelligence analyst. Summarize the customer feedback below.\n")
	sb.WriteString("Lead with quantified findings (counts, recurring themes). Mention notable praise and complaints. ")
	sb.WriteString("Do not invent anything that is not in the feedback. Keep it under 200 words.\n\n")

	sb.WriteString(fmt.Sprintf("Scope: %s", key.Scope))
	if key.ClinicID != nil {
		sb.WriteString(", clinic: " + *key.ClinicID)
	}
	if key.SourceType != nil {
		sb.WriteString(", source: " + *key.SourceType)
	}
	sb.WriteString(fmt.Sprintf(", items: %d\n\nFEEDBACK:\n", len(items)))

	for _, item := range items {
		line := fmt.Sprintf("- [%s/%s] %s\n", item.ClinicID, item.SourceType, item.Text)
		if sb.Len()+len(line) > summaryTextBudget {
			break
		}
		sb.WriteString(line)
	}
	sb.WriteString("\nSUMMARY:")
	return sb.String()
}
