package repository

import (
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository stores reviews idempotently keyed by
// (external id, clinic id) and mirrors each stored review into the unified
// feedback table.
type ReviewRepository interface {
	// StoreIfAbsent inserts the review unless a row with the same natural
	// key exists. A duplicate is not an error: it returns (false, nil).
	// feedbackSource is the unified-table tag the mirror row is written
	// under (google_review, csv_review).
	StoreIfAbsent(review *domain.Review, feedbackSource string) (bool, error)
	CountAll() (int64, error)
	// ListPage returns one page of reviews, newest first. For the
	// chunk-and-reduce fallback path.
	ListPage(offset, limit int) ([]*domain.Review, error)
	// RepairPublishedDates rewrites rows whose published timestamp is the
	// zero value to their created_at time. Returns how many rows changed.
	RepairPublishedDates() (int64, error)
}

type reviewRepository struct {
	db           *gorm.DB
	feedbackRepo FeedbackRepository
	log          *logger.Logger
}

// NewReviewRepository creates a new gorm-backed ReviewRepository
func NewReviewRepository(db *gorm.DB, feedbackRepo FeedbackRepository, log *logger.Logger) ReviewRepository {
	return &reviewRepository{db: db, feedbackRepo: feedbackRepo, log: log}
}

func (r *reviewRepository) StoreIfAbsent(review *domain.Review, feedbackSource string) (bool, error) {
	var existing domain.Review
	err := r.db.Where("external_id = ? AND clinic_id = ?", review.ExternalID, review.ClinicID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()
	if err := r.db.Create(review).Error; err != nil {
		return false, err
	}

	// Best-effort mirror into the unified table. Never fails the primary
	// write.
	if feedbackSource == "" {
		feedbackSource = domain.FeedbackGoogleReview
	}
	if err := r.feedbackRepo.Mirror(review.ClinicID, feedbackSource, review.ExternalID, review.Text); err != nil {
		r.log.Warn("feedback mirror write failed", "review_id", review.ID, "error", err)
	}
	return true, nil
}

func (r *reviewRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).Count(&count).Error
	return count, err
}

func (r *reviewRepository) ListPage(offset, limit int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := r.db.Order("published_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) RepairPublishedDates() (int64, error) {
	result := r.db.Model(&domain.Review{}).
		Where("published_at < ?", time.Unix(0, 0).Add(time.Second)).
		Update("published_at", gorm.Expr("created_at"))
	return result.RowsAffected, result.Error
}
