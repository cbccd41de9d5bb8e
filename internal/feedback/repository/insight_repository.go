package repository

import (
	"time"

	"brandpulse-backend/internal/feedback/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsightRepository stores cached web-search insights keyed by
// (provider, scope).
type InsightRepository interface {
	Upsert(insight *domain.SearchInsight) error
	// ListByScope returns one insight per provider for the scope label.
	ListByScope(scope string) ([]*domain.SearchInsight, error)
}

type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new gorm-backed InsightRepository
func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) Upsert(insight *domain.SearchInsight) error {
	var existing domain.SearchInsight
	err := r.db.Where("provider = ? AND scope = ?", insight.Provider, insight.Scope).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		if insight.ID == "" {
			insight.ID = uuid.New().String()
		}
		insight.RefreshedAt = time.Now()
		return r.db.Create(insight).Error
	} else if err != nil {
		return err
	}

	existing.Response = insight.Response
	existing.Citations = insight.Citations
	existing.Metadata = insight.Metadata
	existing.RefreshedAt = time.Now()
	return r.db.Save(&existing).Error
}

func (r *insightRepository) ListByScope(scope string) ([]*domain.SearchInsight, error) {
	var insights []*domain.SearchInsight
	err := r.db.Where("scope = ?", scope).Order("provider ASC").Find(&insights).Error
	return insights, err
}
