package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/logger"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// summaryFixture wires a SummaryUsecase against stubs with a deterministic
// clock. Every model call advances the clock by one second, so wall-clock
// budget behavior is reproducible.
func summaryFixture(items []*domain.FeedbackItem) (*SummaryUsecase, *stubSummaryRepo, *echoModel, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	model := &echoModel{answer: "Mostly positive feedback about staff."}
	model.onCall = func() { clock.Advance(time.Second) }

	feedbackRepo := &stubFeedbackRepo{items: items}
	summaryRepo := newStubSummaryRepo()
	summaryRepo.now = clock.Now

	u := NewSummaryUsecase(feedbackRepo, summaryRepo, model, logger.NewNop())
	u.SetClock(clock.Now)
	return u, summaryRepo, model, clock
}

func maryleboneItems(n int) []*domain.FeedbackItem {
	items := make([]*domain.FeedbackItem, n)
	for i := range items {
		items[i] = &domain.FeedbackItem{
			ClinicID:   "marylebone",
			SourceType: domain.FeedbackGoogleReview,
			Text:       "Lovely hygienist, easy booking.",
		}
	}
	return items
}

func TestGenerateSummary_StoresAndSkipsWhenFresh(t *testing.T) {
	u, summaryRepo, model, _ := summaryFixture(maryleboneItems(3))
	clinic := "marylebone"

	first := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false)
	require.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, 3, first.ItemCount)
	assert.Equal(t, 1, model.calls)

	stored, err := summaryRepo.Get(&clinic, nil, domain.ScopeAllTime)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Mostly positive feedback about staff.", stored.Summary)

	second := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, 1, model.calls, "fresh summary must not hit the model")

	forced := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, true)
	assert.Equal(t, StatusSuccess, forced.Status)
	assert.Equal(t, 2, model.calls)
}

func TestGenerateSummary_StaleSummaryRegenerates(t *testing.T) {
	u, _, model, clock := summaryFixture(maryleboneItems(1))
	clinic := "marylebone"

	require.Equal(t, StatusSuccess, u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false).Status)
	clock.Advance(25 * time.Hour)

	result := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 2, model.calls)
}

func TestGenerateSummary_EmptyScopeStoresPlaceholder(t *testing.T) {
	u, summaryRepo, model, _ := summaryFixture(nil)
	clinic := "kensington"

	result := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeLast7Days, false)
	assert.Equal(t, StatusEmpty, result.Status)
	assert.Equal(t, 0, model.calls)

	stored, err := summaryRepo.Get(&clinic, nil, domain.ScopeLast7Days)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Contains(t, stored.Summary, "No feedback has been recorded")
}

func TestGenerateSummary_ModelErrorLeavesExistingSummary(t *testing.T) {
	u, summaryRepo, model, clock := summaryFixture(maryleboneItems(2))
	clinic := "marylebone"

	require.Equal(t, StatusSuccess, u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false).Status)
	clock.Advance(25 * time.Hour)
	model.err = errors.New("model unavailable")

	result := u.GenerateSummary(context.Background(), &clinic, nil, domain.ScopeAllTime, false)
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Error, "model unavailable")

	stored, err := summaryRepo.Get(&clinic, nil, domain.ScopeAllTime)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Mostly positive feedback about staff.", stored.Summary, "failed refresh must not clobber the cached summary")
}

func TestGenerateAll_BudgetStopsEarlyAndReportsRemaining(t *testing.T) {
	u, _, _, _ := summaryFixture(maryleboneItems(1))

	report := u.GenerateAll(context.Background(), 5*time.Second, false)

	assert.Less(t, report.Processed, report.Total, "a short budget must leave scopes unprocessed")
	assert.NotEmpty(t, report.Remaining)
	assert.Equal(t, report.Total, report.Processed+len(report.Remaining))
	assert.Len(t, report.Results, report.Processed)
}

func TestGenerateAll_ReinvokeDrainsRemaining(t *testing.T) {
	u, summaryRepo, _, _ := summaryFixture(maryleboneItems(1))

	var total, successes int
	for i := 0; i < 50; i++ {
		report := u.GenerateAll(context.Background(), 5*time.Second, false)
		total = report.Total
		for _, r := range report.Results {
			if r.Status == StatusSuccess {
				successes++
			}
		}
		if len(report.Remaining) == 0 {
			break
		}
	}

	assert.Equal(t, 120, total, "nil+4 clinics crossed with nil+5 sources and 4 windows")
	// One feedback item for (marylebone, google_review) backs four scope
	// pairs across four windows; everything else stores the empty placeholder.
	assert.Equal(t, 16, successes)
	assert.Equal(t, 120, summaryRepo.upserts, "each scope is written exactly once across the runs")
	assert.Len(t, summaryRepo.summaries, 120, "every scope ends up with a stored row")
}

func TestGenerateAll_ZeroBudgetMeansUnlimited(t *testing.T) {
	u, summaryRepo, _, _ := summaryFixture(maryleboneItems(1))

	report := u.GenerateAll(context.Background(), 0, false)
	assert.Equal(t, report.Total, report.Processed)
	assert.Empty(t, report.Remaining)
	assert.Len(t, summaryRepo.summaries, 120)
}
