package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/pkg/logger"
	"brandpulse-backend/pkg/perplexity"

	"gorm.io/datatypes"
)

// AnswerClient is the slice of the Perplexity client the job needs.
type AnswerClient interface {
	Ask(ctx context.Context, question string) (*perplexity.Answer, error)
}

// InsightJob refreshes the cached web-search insight per provider for one
// scope label. Providers with missing credentials are simply absent; the
// job runs with whichever are configured.
type InsightJob struct {
	tavilyClient     WebSearcher
	perplexityClient AnswerClient
	insightRepo      repository.InsightRepository
	query            string
	scope            string
	log              *logger.Logger
}

// NewInsightJob requires at least one configured provider.
func NewInsightJob(
	tavilyClient WebSearcher,
	perplexityClient AnswerClient,
	insightRepo repository.InsightRepository,
	query, scope string,
	log *logger.Logger,
) (*InsightJob, error) {
	if tavilyClient == nil && perplexityClient == nil {
		return nil, fmt.Errorf("insight job requires at least one search provider credential")
	}
	return &InsightJob{
		tavilyClient:     tavilyClient,
		perplexityClient: perplexityClient,
		insightRepo:      insightRepo,
		query:            query,
		scope:            scope,
		log:              log,
	}, nil
}

func (j *InsightJob) Run(ctx context.Context) *Report {
	report := &Report{}

	if j.tavilyClient != nil {
		if err := j.refreshTavily(ctx); err != nil {
			report.addError(domain.ProviderTavily, err)
		} else {
			report.Added++
		}
	} else {
		report.Skipped++
	}

	if j.perplexityClient != nil {
		if err := j.refreshPerplexity(ctx); err != nil {
			report.addError(domain.ProviderPerplexity, err)
		} else {
			report.Added++
		}
	} else {
		report.Skipped++
	}

	j.log.Info("insight refresh finished", "scope", j.scope, "added", report.Added, "errors", len(report.Errors))
	return report
}

func (j *InsightJob) refreshTavily(ctx context.Context) error {
	resp, err := j.tavilyClient.Search(ctx, j.query, 8, nil)
	if err != nil {
		return err
	}

	citations := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		citations = append(citations, r.URL)
	}
	citationsJSON, _ := json.Marshal(citations)
	metaJSON, _ := json.Marshal(map[string]any{"query": resp.Query, "results": len(resp.Results)})

	return j.insightRepo.Upsert(&domain.SearchInsight{
		Provider:  domain.ProviderTavily,
		Scope:     j.scope,
		Response:  resp.Answer,
		Citations: datatypes.JSON(citationsJSON),
		Metadata:  datatypes.JSON(metaJSON),
	})
}

func (j *InsightJob) refreshPerplexity(ctx context.Context) error {
	answer, err := j.perplexityClient.Ask(ctx, j.query)
	if err != nil {
		return err
	}

	citationsJSON, _ := json.Marshal(answer.Citations)
	metaJSON, _ := json.Marshal(map[string]string{"model": answer.Model})

	return j.insightRepo.Upsert(&domain.SearchInsight{
		Provider:  domain.ProviderPerplexity,
		Scope:     j.scope,
		Response:  answer.Text,
		Citations: datatypes.JSON(citationsJSON),
		Metadata:  datatypes.JSON(metaJSON),
	})
}
