package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/internal/feedback/usecase"
	"brandpulse-backend/pkg/gnews"
	"brandpulse-backend/pkg/keywords"
	"brandpulse-backend/pkg/logger"
)

// maxArticleBody caps how much of a fetched page is kept as raw HTML.
const maxArticleBody = 512 * 1024

// NewsSearcher is the slice of the GNews client the job needs.
type NewsSearcher interface {
	Search(ctx context.Context, query string, max int) ([]gnews.Article, error)
}

// NewsJob searches the news API for each configured query term and stores
// the resulting articles. URLs are deduplicated across terms within a run.
type NewsJob struct {
	client      NewsSearcher
	articleRepo repository.ArticleRepository
	httpClient  *http.Client
	queries     []string
	log         *logger.Logger
}

// NewNewsJob fails fast when the news API credential is missing.
func NewNewsJob(client NewsSearcher, articleRepo repository.ArticleRepository, queries []string, log *logger.Logger) (*NewsJob, error) {
	if client == nil {
		return nil, fmt.Errorf("news job requires a configured GNews API client")
	}
	return &NewsJob{
		client:      client,
		articleRepo: articleRepo,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		queries:     queries,
		log:         log,
	}, nil
}

func (j *NewsJob) Run(ctx context.Context) *Report {
	report := &Report{}
	seen := map[string]struct{}{}

	for _, query := range j.queries {
		articles, err := j.client.Search(ctx, query, 10)
		if err != nil {
			report.addError(query, err)
			continue
		}

		for _, hit := range articles {
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

			input := map[string]any{
				"url":          hit.URL,
				"title":        hit.Title,
				"description":  hit.Description,
				"content":      hit.Content,
				"published_at": hit.PublishedAt,
				"source_type":  "article",
				"source_name":  hit.Source.Name,
			}
			if html := j.fetchPage(ctx, hit.URL); html != "" {
				input["raw_html"] = html
			}

			article := usecase.NormalizeArticle(input)
			if article == nil {
				j.log.Debug("article rejected by normalizer", "url", hit.URL)
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

	j.log.Info("news ingestion finished", "added", report.Added, "skipped", report.Skipped, "errors", len(report.Errors))
	return report
}

// fetchPage best-effort downloads the article page so the normalizer can
// extract cleaned text. Failures just mean we keep the API-provided excerpt.
func (j *NewsJob) fetchPage(ctx context.Context, url string) string {
	if j.httpClient == nil {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return ""
	}
	resp, err := j.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBody))
	if err != nil {
		return ""
	}
	return string(body)
}
