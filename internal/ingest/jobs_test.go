package ingest

import (
	"context"
	"errors"
	"testing"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/gnews"
	"brandpulse-backend/pkg/logger"
	"brandpulse-backend/pkg/perplexity"
	"brandpulse-backend/pkg/places"
	"brandpulse-backend/pkg/tavily"
)

type stubArticleRepo struct {
	stored []*domain.Article
	seen   map[string]bool
	err    error
}

func (s *stubArticleRepo) StoreIfAbsent(article *domain.Article) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[article.URL] {
		return false, nil
	}
	s.seen[article.URL] = true
	s.stored = append(s.stored, article)
	return true, nil
}

type stubReviewRepo struct {
	stored int
	seen   map[string]bool
}

func (s *stubReviewRepo) StoreIfAbsent(review *domain.Review, feedbackSource string) (bool, error) {
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	key := review.ClinicID + "|" + review.ExternalID
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	s.stored++
	return true, nil
}

func (s *stubReviewRepo) CountAll() (int64, error) { return int64(s.stored), nil }

func (s *stubReviewRepo) ListPage(offset, limit int) ([]*domain.Review, error) { return nil, nil }

func (s *stubReviewRepo) RepairPublishedDates() (int64, error) { return 0, nil }

type stubNewsSearcher struct {
	byQuery map[string][]gnews.Article
	err     error
}

func (s *stubNewsSearcher) Search(ctx context.Context, query string, max int) ([]gnews.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byQuery[query], nil
}

func TestNewsJob_DeduplicatesURLsAcrossQueries(t *testing.T) {
	searcher := &stubNewsSearcher{byQuery: map[string][]gnews.Article{
		"brand": {
			{Title: "Expansion", URL: "https://news.example.com/expansion?utm_source=feed"},
			{Title: "Award", URL: "https://news.example.com/award"},
		},
		"brand reviews": {
			// Same story, different tracking params.
			{Title: "Expansion", URL: "https://news.example.com/expansion?ref=partner"},
			{Title: "New hire", URL: "https://news.example.com/new-hire"},
		},
	}}

	repo := &stubArticleRepo{}
	job, err := NewNewsJob(searcher, repo, []string{"brand", "brand reviews"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewNewsJob: %v", err)
	}
	// Skip the page fetch against example.com.
	job.httpClient = nil

	report := job.Run(context.Background())
	if report.Added != 3 {
		t.Errorf("added = %d, want 3", report.Added)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (tracked duplicate)", report.Skipped)
	}
	if len(report.Errors) != 0 {
		t.Errorf("errors = %v", report.Errors)
	}
}

func TestNewsJob_QueryFailureContinuesRun(t *testing.T) {
	searcher := &stubNewsSearcher{err: errors.New("503 from api")}
	repo := &stubArticleRepo{}
	job, err := NewNewsJob(searcher, repo, []string{"brand"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewNewsJob: %v", err)
	}

	report := job.Run(context.Background())
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(report.Errors))
	}
	if report.Errors[0].ID != "brand" {
		t.Errorf("error id = %q", report.Errors[0].ID)
	}
}

type stubWebSearcher struct {
	resp *tavily.Response
	err  error
}

func (s *stubWebSearcher) Search(ctx context.Context, query string, maxResults int, includeDomains []string) (*tavily.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestLinkedInJob_StoresSocialArticles(t *testing.T) {
	searcher := &stubWebSearcher{resp: &tavily.Response{
		Results: []tavily.Result{
			{Title: "Post one", URL: "https://linkedin.com/posts/one", Content: "We opened a new clinic"},
			{Title: "Post one again", URL: "https://linkedin.com/posts/one/", Content: "dup"},
			{Title: "Post two", URL: "https://linkedin.com/posts/two", Content: "Hiring hygienists"},
		},
	}}

	repo := &stubArticleRepo{}
	job, err := NewLinkedInJob(searcher, repo, []string{"brand"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewLinkedInJob: %v", err)
	}

	report := job.Run(context.Background())
	if report.Added != 2 {
		t.Errorf("added = %d, want 2 (trailing-slash duplicate collapsed)", report.Added)
	}
	for _, a := range repo.stored {
		if a.SourceType != domain.SourceSocial {
			t.Errorf("source type = %q, want social", a.SourceType)
		}
	}
}

type stubInsightRepo struct {
	upserts []*domain.SearchInsight
}

func (s *stubInsightRepo) Upsert(insight *domain.SearchInsight) error {
	s.upserts = append(s.upserts, insight)
	return nil
}

func (s *stubInsightRepo) ListByScope(scope string) ([]*domain.SearchInsight, error) {
	return s.upserts, nil
}

type stubAnswerClient struct {
	answer *perplexity.Answer
	err    error
}

func (s *stubAnswerClient) Ask(ctx context.Context, question string) (*perplexity.Answer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func TestInsightJob_RefreshesEachConfiguredProvider(t *testing.T) {
	searcher := &stubWebSearcher{resp: &tavily.Response{
		Answer:  "Coverage is mostly positive.",
		Query:   "brand online",
		Results: []tavily.Result{{URL: "https://example.com/a"}},
	}}
	asker := &stubAnswerClient{answer: &perplexity.Answer{
		Text:      "Recent mentions focus on the expansion.",
		Citations: []string{"https://example.com/b"},
		Model:     "sonar",
	}}

	repo := &stubInsightRepo{}
	job, err := NewInsightJob(searcher, asker, repo, "brand online", "brand", logger.NewNop())
	if err != nil {
		t.Fatalf("NewInsightJob: %v", err)
	}

	report := job.Run(context.Background())
	if report.Added != 2 {
		t.Fatalf("added = %d, want 2", report.Added)
	}
	if len(repo.upserts) != 2 {
		t.Fatalf("upserts = %d, want 2", len(repo.upserts))
	}
	providers := map[string]bool{}
	for _, ins := range repo.upserts {
		providers[ins.Provider] = true
		if ins.Scope != "brand" {
			t.Errorf("scope = %q", ins.Scope)
		}
	}
	if !providers[domain.ProviderTavily] || !providers[domain.ProviderPerplexity] {
		t.Errorf("providers = %v", providers)
	}
}

func TestInsightJob_SingleProviderCountsOtherAsSkipped(t *testing.T) {
	searcher := &stubWebSearcher{resp: &tavily.Response{Answer: "ok"}}
	repo := &stubInsightRepo{}
	job, err := NewInsightJob(searcher, nil, repo, "q", "brand", logger.NewNop())
	if err != nil {
		t.Fatalf("NewInsightJob: %v", err)
	}

	report := job.Run(context.Background())
	if report.Added != 1 || report.Skipped != 1 {
		t.Errorf("added/skipped = %d/%d, want 1/1", report.Added, report.Skipped)
	}
}

type stubReviewFetcher struct {
	reviews map[string][]places.Review
	err     error
}

func (s *stubReviewFetcher) FetchReviews(ctx context.Context, placeID string) ([]places.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reviews[placeID], nil
}

func TestPlacesJob_StoresPerClinicReviews(t *testing.T) {
	fetcher := &stubReviewFetcher{reviews: map[string][]places.Review{
		"ChIJmarylebone": {
			{AuthorName: "Pat", Rating: 5, Text: "Great clean", Time: 1714557600},
			{AuthorName: "Sam", Rating: 0, Text: "broken rating", Time: 1714557601},
		},
		"ChIJkensington": {
			{AuthorName: "Ale", Rating: 4, Text: "Good visit", Time: 1714557602},
		},
	}}

	repo := &stubReviewRepo{}
	job, err := NewPlacesJob(fetcher, repo, logger.NewNop())
	if err != nil {
		t.Fatalf("NewPlacesJob: %v", err)
	}

	report := job.Run(context.Background())
	if report.Added != 2 {
		t.Errorf("added = %d, want 2", report.Added)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (zero rating rejected)", report.Skipped)
	}
	if repo.stored != 2 {
		t.Errorf("stored = %d", repo.stored)
	}
}
