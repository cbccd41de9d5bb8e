package usecase

import (
	"context"
	"fmt"
	"strings"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/ai"
)

// Two-pass chunk-and-reduce aggregation over raw reviews. Used when
// structured retrieval yields too little context, or when the caller asks
// for a full-table analysis. Splitting into chunks keeps each model call
// under a single-call context budget; the reduce pass merges the per-chunk
// summaries into one answer.

const (
	// fallbackRowCap bounds how many reviews the fallback path will ever
	// page through.
	fallbackRowCap = 2000
	// fallbackChunkSize is how many reviews feed one map-pass call.
	fallbackChunkSize = 50
)

// SummarizeChunk condenses one chunk of reviews with a single model call.
func SummarizeChunk(ctx context.Context, model ai.Generator, question string, reviews []*domain.Review) (string, error) {
	if len(reviews) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("Summarize what the reviews below say that is relevant to this question. ")
	sb.WriteString("Report counts and ratings where you can. Do not invent details.\n\n")
	sb.WriteString("QUESTION: " + question + "\n\nREVIEWS:\n")
	for _, r := range reviews {
		sb.WriteString(fmt.Sprintf("- [%s, %d/5] %s\n", r.ClinicID, r.Rating, r.Text))
	}
	sb.WriteString("\nSUMMARY:")

	return model.Generate(ctx, sb.String())
}

// ReduceChunkSummaries merges the per-chunk summaries into one final answer
// with a second model call.
func ReduceChunkSummaries(ctx context.Context, model ai.Generator, question string, chunkSummaries []string) (string, error) {
	nonEmpty := make([]string, 0, len(chunkSummaries))
	for _, s := range chunkSummaries {
		if strings.TrimSpace(s) != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return "", fmt.Errorf("no chunk summaries to reduce")
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0], nil
	}

	var sb strings.Builder
	sb.WriteString("The partial summaries below each cover a slice of the review data. ")
	sb.WriteString("Combine them into one answer to the question. Lead with quantified findings ")
	sb.WriteString("and do not fabricate anything the summaries do not support.\n\n")
	sb.WriteString("QUESTION: " + question + "\n\nPARTIAL SUMMARIES:\n")
	for i, s := range nonEmpty {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, s))
	}
	sb.WriteString("\nFINAL ANSWER:")

	return model.Generate(ctx, sb.String())
}

// chunkReviews partitions reviews into fixed-size chunks.
func chunkReviews(reviews []*domain.Review, size int) [][]*domain.Review {
	if size <= 0 {
		size = fallbackChunkSize
	}
	var chunks [][]*domain.Review
	for start := 0; start < len(reviews); start += size {
		end := start + size
		if end > len(reviews) {
			end = len(reviews)
		}
		chunks = append(chunks, reviews[start:end])
	}
	return chunks
}
