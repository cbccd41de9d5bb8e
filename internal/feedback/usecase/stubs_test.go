package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/pkg/ai"
)

// In-memory repository doubles shared by the usecase tests. Each field with a
// Fn suffix overrides the default behavior for one call site.

type stubFeedbackRepo struct {
	items          []*domain.FeedbackItem
	countErr       error
	searchErr      error
	searchCalls    []repository.SnippetFilter
	listScopeCalls int
}

func (s *stubFeedbackRepo) Mirror(clinicID, sourceType, externalID, text string) error {
	s.items = append(s.items, &domain.FeedbackItem{
		ClinicID:   clinicID,
		SourceType: sourceType,
		Text:       text,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *stubFeedbackRepo) SearchSnippets(filter repository.SnippetFilter) ([]*domain.FeedbackItem, error) {
	s.searchCalls = append(s.searchCalls, filter)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []*domain.FeedbackItem
	for _, item := range s.items {
		if filter.ClinicID != "" && item.ClinicID != filter.ClinicID {
			continue
		}
		matched := false
		for _, kw := range filter.Keywords {
			if strings.Contains(strings.ToLower(item.Text), strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, item)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *stubFeedbackRepo) CountForScope(clinicID *string, sourceType *string, from *time.Time) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for _, item := range s.items {
		if clinicID != nil && item.ClinicID != *clinicID {
			continue
		}
		if sourceType != nil && item.SourceType != *sourceType {
			continue
		}
		n++
	}
	return n, nil
}

func (s *stubFeedbackRepo) ListForScope(clinicID *string, sourceType *string, from *time.Time, limit int) ([]*domain.FeedbackItem, error) {
	s.listScopeCalls++
	var out []*domain.FeedbackItem
	for _, item := range s.items {
		if clinicID != nil && item.ClinicID != *clinicID {
			continue
		}
		if sourceType != nil && item.SourceType != *sourceType {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubSummaryRepo struct {
	summaries map[string]*domain.BrandSummary
	upserts   int
	now       func() time.Time
}

func newStubSummaryRepo() *stubSummaryRepo {
	return &stubSummaryRepo{summaries: make(map[string]*domain.BrandSummary)}
}

func summaryKey(clinicID *string, sourceType *string, scope string) string {
	c, s := "", ""
	if clinicID != nil {
		c = *clinicID
	}
	if sourceType != nil {
		s = *sourceType
	}
	return c + "|" + s + "|" + scope
}

func (s *stubSummaryRepo) Get(clinicID *string, sourceType *string, scope string) (*domain.BrandSummary, error) {
	return s.summaries[summaryKey(clinicID, sourceType, scope)], nil
}

func (s *stubSummaryRepo) Upsert(summary *domain.BrandSummary) error {
	s.upserts++
	if summary.RefreshedAt.IsZero() {
		if s.now != nil {
			summary.RefreshedAt = s.now()
		} else {
			summary.RefreshedAt = time.Now()
		}
	}
	s.summaries[summaryKey(summary.ClinicID, summary.SourceType, summary.Scope)] = summary
	return nil
}

type stubInsightRepo struct {
	insights []*domain.SearchInsight
	listErr  error
}

func (s *stubInsightRepo) Upsert(insight *domain.SearchInsight) error {
	s.insights = append(s.insights, insight)
	return nil
}

func (s *stubInsightRepo) ListByScope(scope string) ([]*domain.SearchInsight, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*domain.SearchInsight
	for _, ins := range s.insights {
		if ins.Scope == scope {
			out = append(out, ins)
		}
	}
	return out, nil
}

type stubReviewRepo struct {
	reviews  []*domain.Review
	stored   []*domain.Review
	storeErr error
	seen     map[string]bool
}

func (s *stubReviewRepo) StoreIfAbsent(review *domain.Review, feedbackSource string) (bool, error) {
	if s.storeErr != nil {
		return false, s.storeErr
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	key := review.ClinicID + "|" + review.ExternalID
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	s.stored = append(s.stored, review)
	s.reviews = append(s.reviews, review)
	return true, nil
}

func (s *stubReviewRepo) CountAll() (int64, error) {
	return int64(len(s.reviews)), nil
}

func (s *stubReviewRepo) ListPage(offset, limit int) ([]*domain.Review, error) {
	if offset >= len(s.reviews) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.reviews) {
		end = len(s.reviews)
	}
	return s.reviews[offset:end], nil
}

func (s *stubReviewRepo) RepairPublishedDates() (int64, error) {
	return 0, nil
}

// echoModel records prompts and answers with a fixed string, or an error.
type echoModel struct {
	answer  string
	err     error
	prompts []string
	calls   int
	onCall  func()
}

func (m *echoModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.onCall != nil {
		m.onCall()
	}
	if m.err != nil {
		return "", m.err
	}
	if m.answer != "" {
		return m.answer, nil
	}
	return fmt.Sprintf("answer %d", m.calls), nil
}

var _ ai.Generator = (*echoModel)(nil)
var _ repository.FeedbackRepository = (*stubFeedbackRepo)(nil)
var _ repository.SummaryRepository = (*stubSummaryRepo)(nil)
var _ repository.InsightRepository = (*stubInsightRepo)(nil)
var _ repository.ReviewRepository = (*stubReviewRepo)(nil)
