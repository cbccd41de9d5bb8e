package ingest

import (
	"context"
	"fmt"

	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/internal/feedback/usecase"
	"brandpulse-backend/pkg/keywords"
	"brandpulse-backend/pkg/logger"
	"brandpulse-backend/pkg/tavily"
)

// WebSearcher is the slice of the Tavily client the jobs need.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int, includeDomains []string) (*tavily.Response, error)
}

// LinkedInJob proxies LinkedIn-post collection through a web-search API
// restricted to linkedin.com, since LinkedIn offers no public post API.
type LinkedInJob struct {
	client      WebSearcher
	articleRepo repository.ArticleRepository
	queries     []string
	log         *logger.Logger
}

// NewLinkedInJob fails fast when the search credential is missing.
func NewLinkedInJob(client WebSearcher, articleRepo repository.ArticleRepository, queries []string, log *logger.Logger) (*LinkedInJob, error) {
	if client == nil {
		return nil, fmt.Errorf("linkedin job requires a configured Tavily API client")
	}
	return &LinkedInJob{client: client, articleRepo: articleRepo, queries: queries, log: log}, nil
}

func (j *LinkedInJob) Run(ctx context.Context) *Report {
	report := &Report{}
	seen := map[string]struct{}{}

	for _, query := range j.queries {
		resp, err := j.client.Search(ctx, query, 10, []string{"linkedin.com"})
		if err != nil {
			report.addError(query, err)
			continue
		}

		for _, hit := range resp.Results {
			normalized := keywords.NormalizeURL(hit.URL)
			if normalized == "" {
				report.Skipped++
				continue
			}
			if _, dup := seen[normalized]; dup {
				report.Skipped++
				continue
			}
			seen[normalized] = struct{}{}

			article := usecase.NormalizeArticle(map[string]any{
				"url":         hit.URL,
				"title":       hit.Title,
				"content":     hit.Content,
				"source_type": "social",
			})
			if article == nil {
				report.Skipped++
				continue
			}

			stored, err := j.articleRepo.StoreIfAbsent(article)
			if err != nil {
				report.addError(hit.URL, err)
				continue
			}
			if stored {
				report.Added++
			} else {
				report.Skipped++
			}
		}
	}

	j.log.Info("linkedin ingestion finished", "added", report.Added, "skipped", report.Skipped, "errors", len(report.Errors))
	return report
}
