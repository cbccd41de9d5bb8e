package repository

import (
	"time"

	"brandpulse-backend/internal/feedback/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SummaryRepository stores cached brand summaries keyed by
// (clinic-or-null, source-type-or-null, scope).
type SummaryRepository interface {
	Get(clinicID *string, sourceType *string, scope string) (*domain.BrandSummary, error)
	Upsert(summary *domain.BrandSummary) error
}

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new gorm-backed SummaryRepository
func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Get(clinicID *string, sourceType *string, scope string) (*domain.BrandSummary, error) {
	var summary domain.BrandSummary
	err := scopeWhere(r.db, clinicID, sourceType, scope).First(&summary).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) Upsert(summary *domain.BrandSummary) error {
	var existing domain.BrandSummary
	err := scopeWhere(r.db, summary.ClinicID, summary.SourceType, summary.Scope).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		if summary.ID == "" {
			summary.ID = uuid.New().String()
		}
		summary.RefreshedAt = time.Now()
		return r.db.Create(summary).Error
	} else if err != nil {
		return err
	}

	existing.Summary = summary.Summary
	existing.ItemCount = summary.ItemCount
	existing.RefreshedAt = time.Now()
	return r.db.Save(&existing).Error
}

// scopeWhere builds the scope-triple predicate; nil clinic/source match the
// NULL (all-clinics / all-sources) rows.
func scopeWhere(db *gorm.DB, clinicID *string, sourceType *string, scope string) *gorm.DB {
	query := db.Model(&domain.BrandSummary{}).Where("scope = ?", scope)
	if clinicID != nil {
		query = query.Where("clinic_id = ?", *clinicID)
	} else {
		query = query.Where("clinic_id IS NULL")
	}
	if sourceType != nil {
		query = query.Where("source_type = ?", *sourceType)
	} else {
		query = query.Where("source_type IS NULL")
	}
	return query
}
