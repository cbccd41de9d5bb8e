package ingest

import (
	"context"
	"fmt"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/internal/feedback/usecase"
	"brandpulse-backend/pkg/logger"
	"brandpulse-backend/pkg/places"
)

// ReviewFetcher is the slice of the Places client the job needs.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, placeID string) ([]places.Review, error)
}

// PlacesJob polls Google Places reviews for every registered clinic.
type PlacesJob struct {
	client     ReviewFetcher
	reviewRepo repository.ReviewRepository
	log        *logger.Logger
}

// NewPlacesJob fails fast when the Places credential is missing; the job can
// do nothing useful without it.
func NewPlacesJob(client ReviewFetcher, reviewRepo repository.ReviewRepository, log *logger.Logger) (*PlacesJob, error) {
	if client == nil {
		return nil, fmt.Errorf("places job requires a configured Places API client")
	}
	return &PlacesJob{client: client, reviewRepo: reviewRepo, log: log}, nil
}

// Run fetches and stores reviews clinic by clinic. A single clinic or item
// failure is recorded and the run continues.
func (j *PlacesJob) Run(ctx context.Context) *Report {
	report := &Report{}

	for _, clinic := range domain.Clinics {
		reviews, err := j.client.FetchReviews(ctx, clinic.PlaceID)
		if err != nil {
			report.addError(clinic.ID, err)
			continue
		}

		for _, raw := range reviews {
			externalID := fmt.Sprintf("%s-%d", clinic.PlaceID, raw.Time)
			review := usecase.NormalizeReview(map[string]any{
				"external_id":  externalID,
				"author":       raw.AuthorName,
				"rating":       raw.Rating,
				"text":         raw.Text,
				"published_at": raw.Time,
			}, clinic.ID)
			if review == nil {
				j.log.Debug("places review rejected by normalizer", "clinic", clinic.ID, "external_id", externalID)
				report.Skipped++
				continue
			}

			stored, err := j.reviewRepo.StoreIfAbsent(review, domain.FeedbackGoogleReview)
			if err != nil {
				report.addError(externalID, err)
				continue
			}
			if stored {
				report.Added++
			} else {
				report.Skipped++
			}
		}
	}

	j.log.Info("places ingestion finished", "added", report.Added, "skipped", report.Skipped, "errors", len(report.Errors))
	return report
}
