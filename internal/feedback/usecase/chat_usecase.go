package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/dto"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/pkg/ai"
	"brandpulse-backend/pkg/fuzzy"
	"brandpulse-backend/pkg/keywords"
	"brandpulse-backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// summaryCap bounds how many cached summaries go into the prompt.
	summaryCap = 8
	// snippetCap bounds how many keyword-matched snippets go into the prompt.
	snippetCap = 40
	// snippetCharBudget truncates each snippet before prompt assembly.
	snippetCharBudget = 300
	// insightScope is the scope label the insight jobs cache under and the
	// chat endpoint reads from.
	insightScope = "brand"

	cannedFailure       = "I couldn't generate an answer right now. Please try again in a moment."
	insightsPendingLine = "Web insights pending: external search results have not been collected yet."
)

// articleishSources are the feedback tags that pull cached web-search
// insights into the prompt.
var articleishSources = map[string]bool{
	domain.FeedbackArticle: true,
	domain.FeedbackPress:   true,
	domain.FeedbackBlog:    true,
	domain.FeedbackSocial:  true,
}

// ChatUsecase is the retrieval-and-chat pipeline: cached summaries, keyword
// snippet search and cached web insights assembled into one prompt, with a
// chunk-and-reduce fallback over raw reviews when structured retrieval is
// too thin.
type ChatUsecase struct {
	feedbackRepo repository.FeedbackRepository
	summaryRepo  repository.SummaryRepository
	insightRepo  repository.InsightRepository
	reviewRepo   repository.ReviewRepository
	model        ai.Generator
	log          *logger.Logger
	maxWords     int
	now          func() time.Time
}

func NewChatUsecase(
	feedbackRepo repository.FeedbackRepository,
	summaryRepo repository.SummaryRepository,
	insightRepo repository.InsightRepository,
	reviewRepo repository.ReviewRepository,
	model ai.Generator,
	log *logger.Logger,
	maxWords int,
) *ChatUsecase {
	if maxWords <= 0 {
		maxWords = 400
	}
	return &ChatUsecase{
		feedbackRepo: feedbackRepo,
		summaryRepo:  summaryRepo,
		insightRepo:  insightRepo,
		reviewRepo:   reviewRepo,
		model:        model,
		log:          log,
		maxWords:     maxWords,
		now:          time.Now,
	}
}

// Chat answers a question. Upstream failures never escape: the response
// degrades to a natural-language explanation of what went wrong.
func (u *ChatUsecase) Chat(ctx context.Context, req dto.ChatRequest) dto.ChatResponse {
	clinicID := u.detectClinic(req)
	sources := detectSources(req)
	from, to := parseDateRange(req.DateFrom, req.DateTo)

	resp := dto.ChatResponse{ClinicID: clinicID, Sources: sources}

	// A clinic with nothing stored gets an explicit shortfall answer, never
	// a fabricated one.
	if clinicID != "" {
		count, err := u.feedbackRepo.CountForScope(&clinicID, nil, nil)
		if err != nil {
			u.log.Warn("feedback count failed", "clinic", clinicID, "error", err)
		} else if count == 0 {
			resp.Answer = fmt.Sprintf("There is no stored feedback for %s yet, so no insights are available. Try again after the next ingestion run.", clinicID)
			return resp
		}
	}

	if req.UseFallback || req.AnalyzeAll {
		resp.UsedFallback = true
		resp.Answer = u.runFallback(ctx, req.Question)
		return resp
	}

	summaries := u.fetchSummaries(ctx, clinicID, sources)
	resp.SummaryCount = len(summaries)

	terms := keywords.Extract(req.Question)
	resp.Keywords = terms

	snippets := u.searchSnippets(terms, clinicID, sources, from, to)
	resp.SnippetCount = len(snippets)

	insights, pending := u.fetchInsights(sources)
	resp.InsightCount = len(insights)

	// Structured retrieval found nothing usable: fall back to raw reviews.
	if len(summaries) == 0 && len(snippets) == 0 && len(insights) == 0 {
		resp.UsedFallback = true
		resp.Answer = u.runFallback(ctx, req.Question)
		return resp
	}

	prompt := u.buildChatPrompt(req.Question, summaries, snippets, insights, pending)
	answer, err := u.model.Generate(ctx, prompt)
	if err != nil {
		u.log.Warn("chat generation failed", "error", err)
		resp.Answer = cannedFailure
		return resp
	}
	resp.Answer = strings.TrimSpace(answer)
	return resp
}

// detectClinic honors an explicit filter, then substring alias matching,
// then a tolerant single-edit pass for misspelled clinic names.
func (u *ChatUsecase) detectClinic(req dto.ChatRequest) string {
	if req.ClinicID != "" {
		if domain.ClinicByID(req.ClinicID) != nil {
			return req.ClinicID
		}
		u.log.Warn("unknown clinic filter ignored", "clinic", req.ClinicID)
	}
	if id := domain.MatchClinic(req.Question); id != "" {
		return id
	}
	lower := strings.ToLower(req.Question)
	for _, c := range domain.Clinics {
		if fuzzy.MatchesWord(lower, strings.ToLower(c.Name), 2) {
			return c.ID
		}
	}
	return ""
}

// detectSources maps explicit source filters, or question wording, onto
// unified feedback tags. No match means all sources.
func detectSources(req dto.ChatRequest) []string {
	if len(req.Sources) > 0 {
		var tags []string
		for _, s := range req.Sources {
			tags = append(tags, sourceTags(strings.ToLower(strings.TrimSpace(s)))...)
		}
		if len(tags) > 0 {
			return dedupe(tags)
		}
	}

	lower := strings.ToLower(req.Question)
	var tags []string
	for hint, mapped := range map[string][]string{
		"review":   {domain.FeedbackGoogleReview, domain.FeedbackCSVReview},
		"news":     {domain.FeedbackArticle},
		"article":  {domain.FeedbackArticle},
		"press":    {domain.FeedbackPress},
		"blog":     {domain.FeedbackBlog},
		"linkedin": {domain.FeedbackSocial},
		"social":   {domain.FeedbackSocial},
	} {
		if strings.Contains(lower, hint) {
			tags = append(tags, mapped...)
		}
	}
	return dedupe(tags)
}

func sourceTags(s string) []string {
	switch s {
	case "reviews", "review", "google", domain.FeedbackGoogleReview:
		return []string{domain.FeedbackGoogleReview, domain.FeedbackCSVReview}
	case domain.SourceArticle, "news":
		return []string{domain.FeedbackArticle}
	case domain.SourcePress:
		return []string{domain.FeedbackPress}
	case domain.SourceBlog:
		return []string{domain.FeedbackBlog}
	case domain.SourceSocial, "linkedin":
		return []string{domain.FeedbackSocial}
	default:
		return nil
	}
}

// fetchSummaries pulls cached summaries for the detected scope: the global
// slice, the clinic slice and one slice per selected source, crossed with
// every time window, fetched concurrently and capped.
func (u *ChatUsecase) fetchSummaries(ctx context.Context, clinicID string, sources []string) []*domain.BrandSummary {
	type scopePair struct {
		clinic *string
		source *string
	}
	pairs := []scopePair{{nil, nil}}
	if clinicID != "" {
		id := clinicID
		pairs = append(pairs, scopePair{&id, nil})
	}
	for _, s := range sources {
		s := s
		pairs = append(pairs, scopePair{nil, &s})
		if clinicID != "" {
			id := clinicID
			pairs = append(pairs, scopePair{&id, &s})
		}
	}

	var mu sync.Mutex
	var found []*domain.BrandSummary
	g, _ := errgroup.WithContext(ctx)
	for _, pair := range pairs {
		pair := pair
		for _, scope := range domain.AllScopes {
			scope := scope
			g.Go(func() error {
				summary, err := u.summaryRepo.Get(pair.clinic, pair.source, scope)
				if err != nil || summary == nil {
					return nil // a missing slice is not a failure
				}
				mu.Lock()
				found = append(found, summary)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	if len(found) > summaryCap {
		found = found[:summaryCap]
	}
	return found
}

func (u *ChatUsecase) searchSnippets(terms []string, clinicID string, sources []string, from, to *time.Time) []*domain.FeedbackItem {
	if len(terms) == 0 {
		return nil
	}
	items, err := u.feedbackRepo.SearchSnippets(repository.SnippetFilter{
		Keywords:    terms,
		ClinicID:    clinicID,
		SourceTypes: sources,
		From:        from,
		To:          to,
		Limit:       snippetCap,
	})
	if err != nil {
		u.log.Warn("snippet search failed", "error", err)
		return nil
	}
	return items
}

// fetchInsights loads cached web-search insights when article-like sources
// are in scope. The second return is true when insights apply but none are
// cached yet.
func (u *ChatUsecase) fetchInsights(sources []string) ([]*domain.SearchInsight, bool) {
	wanted := len(sources) == 0
	for _, s := range sources {
		if articleishSources[s] {
			wanted = true
			break
		}
	}
	if !wanted {
		return nil, false
	}

	insights, err := u.insightRepo.ListByScope(insightScope)
	if err != nil {
		u.log.Warn("insight fetch failed", "error", err)
		return nil, true
	}
	return insights, len(insights) == 0
}

func (u *ChatUsecase) buildChatPrompt(question string, summaries []*domain.BrandSummary, snippets []*domain.FeedbackItem, insights []*domain.SearchInsight, insightsPending bool) string {
	var sb strings.Builder
	sb.WriteString("You are a brand-intelligence assistant answering from the retrieved context below.\n")
	sb.WriteString("Rules: lead with quantified findings; cite which source type a claim comes from; ")
	sb.WriteString(fmt.Sprintf("keep the answer under %d words; if the context does not support a claim, say the data is insufficient instead of inventing it.\n\n", u.maxWords))
	sb.WriteString("QUESTION: " + question + "\n")

	if len(summaries) > 0 {
		sb.WriteString("\nCACHED SUMMARIES:\n")
		for _, s := range summaries {
			label := "all clinics"
			if s.ClinicID != nil {
				label = *s.ClinicID
			}
			source := "all sources"
			if s.SourceType != nil {
				source = *s.SourceType
			}
			sb.WriteString(fmt.Sprintf("[%s | %s | %s | %d items] %s\n", label, source, s.Scope, s.ItemCount, s.Summary))
		}
	}

	if len(snippets) > 0 {
		sb.WriteString("\nMATCHED FEEDBACK SNIPPETS:\n")
		for _, item := range snippets {
			text := item.Text
			if len(text) > snippetCharBudget {
				text = text[:snippetCharBudget] + "..."
			}
			sb.WriteString(fmt.Sprintf("- [%s/%s] %s\n", item.ClinicID, item.SourceType, text))
		}
	}

	if len(insights) > 0 {
		sb.WriteString("\nWEB SEARCH INSIGHTS:\n")
		for _, ins := range insights {
			sb.WriteString(fmt.Sprintf("[%s, refreshed %s] %s\n", ins.Provider, ins.RefreshedAt.Format("2006-01-02"), ins.Response))
		}
	} else if insightsPending {
		sb.WriteString("\nWEB SEARCH INSIGHTS:\n" + insightsPendingLine + "\n")
	}

	sb.WriteString("\nANSWER:")
	return sb.String()
}

// runFallback pages through the review table, summarizes fixed-size chunks
// independently and reduces the chunk summaries into one answer.
func (u *ChatUsecase) runFallback(ctx context.Context, question string) string {
	total, err := u.reviewRepo.CountAll()
	if err != nil {
		u.log.Warn("fallback count failed", "error", err)
		return cannedFailure
	}
	if total == 0 {
		return "There is no stored feedback yet, so no insights are available."
	}

	want := int(total)
	if want > fallbackRowCap {
		want = fallbackRowCap
	}

	var reviews []*domain.Review
	const pageSize = 200
	for offset := 0; offset < want; offset += pageSize {
		limit := pageSize
		if offset+limit > want {
			limit = want - offset
		}
		page, err := u.reviewRepo.ListPage(offset, limit)
		if err != nil {
			u.log.Warn("fallback page failed", "offset", offset, "error", err)
			break
		}
		if len(page) == 0 {
			break
		}
		reviews = append(reviews, page...)
	}
	if len(reviews) == 0 {
		return cannedFailure
	}

	var chunkSummaries []string
	for _, chunk := range chunkReviews(reviews, fallbackChunkSize) {
		summary, err := SummarizeChunk(ctx, u.model, question, chunk)
		if err != nil {
			u.log.Warn("chunk summarization failed", "error", err)
			continue
		}
		chunkSummaries = append(chunkSummaries, summary)
	}

	answer, err := ReduceChunkSummaries(ctx, u.model, question, chunkSummaries)
	if err != nil {
		u.log.Warn("fallback reduce failed", "error", err)
		return cannedFailure
	}
	return strings.TrimSpace(answer)
}

// parseDateRange parses YYYY-MM-DD bounds; both ends inclusive, so the upper
// bound extends to the end of its day.
func parseDateRange(fromRaw, toRaw string) (*time.Time, *time.Time) {
	var from, to *time.Time
	if t, err := time.Parse("2006-01-02", fromRaw); err == nil {
		from = &t
	}
	if t, err := time.Parse("2006-01-02", toRaw); err == nil {
		end := t.Add(24*time.Hour - time.Second)
		to = &end
	}
	return from, to
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
