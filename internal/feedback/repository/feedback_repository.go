package repository

import (
	"encoding/json"
	"strings"
	"time"

	"brandpulse-backend/internal/feedback/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SnippetFilter scopes a keyword snippet search. Keywords are OR-combined;
// date bounds are inclusive on both ends.
type SnippetFilter struct {
	Keywords    []string
	ClinicID    string
	SourceTypes []string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// FeedbackRepository owns the unified feedback_items table: mirrored writes
// from the review/article stores plus the chat endpoint's snippet search.
type FeedbackRepository interface {
	// Mirror stores a unified feedback item unless one already exists for
	// (clinic, source type, external id).
	Mirror(clinicID, sourceType, externalID, text string) error
	SearchSnippets(filter SnippetFilter) ([]*domain.FeedbackItem, error)
	CountForScope(clinicID *string, sourceType *string, from *time.Time) (int64, error)
	ListForScope(clinicID *string, sourceType *string, from *time.Time, limit int) ([]*domain.FeedbackItem, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new gorm-backed FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Mirror(clinicID, sourceType, externalID, text string) error {
	var count int64
	err := r.db.Model(&domain.FeedbackItem{}).
		Where("clinic_id = ? AND source_type = ? AND metadata ->> 'external_id' = ?", clinicID, sourceType, externalID).
		Count(&count).Error
	if err != nil {
		// The JSON operator is postgres-only; fall back to a LIKE probe so
		// the sqlite test database behaves the same way.
		err = r.db.Model(&domain.FeedbackItem{}).
			Where("clinic_id = ? AND source_type = ? AND metadata LIKE ?", clinicID, sourceType, `%"external_id":"`+externalID+`"%`).
			Count(&count).Error
		if err != nil {
			return err
		}
	}
	if count > 0 {
		return nil
	}

	meta, err := json.Marshal(map[string]string{"external_id": externalID})
	if err != nil {
		return err
	}
	item := domain.FeedbackItem{
		ID:         uuid.New().String(),
		ClinicID:   clinicID,
		SourceType: sourceType,
		Text:       text,
		Metadata:   datatypes.JSON(meta),
		CreatedAt:  time.Now(),
	}
	return r.db.Create(&item).Error
}

func (r *feedbackRepository) SearchSnippets(filter SnippetFilter) ([]*domain.FeedbackItem, error) {
	if len(filter.Keywords) == 0 {
		return nil, nil
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 40
	}

	query := r.db.Model(&domain.FeedbackItem{})

	conds := make([]string, 0, len(filter.Keywords))
	args := make([]interface{}, 0, len(filter.Keywords))
	for _, kw := range filter.Keywords {
		conds = append(conds, "LOWER(text) LIKE ?")
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	query = query.Where(strings.Join(conds, " OR "), args...)

	if filter.ClinicID != "" {
		query = query.Where("clinic_id = ?", filter.ClinicID)
	}
	if len(filter.SourceTypes) > 0 {
		query = query.Where("source_type IN ?", filter.SourceTypes)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var items []*domain.FeedbackItem
	err := query.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *feedbackRepository) CountForScope(clinicID *string, sourceType *string, from *time.Time) (int64, error) {
	var count int64
	err := r.scopeQuery(clinicID, sourceType, from).Count(&count).Error
	return count, err
}

func (r *feedbackRepository) ListForScope(clinicID *string, sourceType *string, from *time.Time, limit int) ([]*domain.FeedbackItem, error) {
	query := r.scopeQuery(clinicID, sourceType, from).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []*domain.FeedbackItem
	err := query.Find(&items).Error
	return items, err
}

func (r *feedbackRepository) scopeQuery(clinicID *string, sourceType *string, from *time.Time) *gorm.DB {
	query := r.db.Model(&domain.FeedbackItem{})
	if clinicID != nil {
		query = query.Where("clinic_id = ?", *clinicID)
	}
	if sourceType != nil {
		query = query.Where("source_type = ?", *sourceType)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	return query
}
