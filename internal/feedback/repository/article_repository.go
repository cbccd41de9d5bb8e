package repository

import (
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// brandClinicID tags feedback that belongs to the brand as a whole rather
// than one location. Articles and social posts mirror under it.
const brandClinicID = "brand"

// ArticleRepository stores articles idempotently keyed by URL and mirrors
// each stored article into the unified feedback table.
type ArticleRepository interface {
	// StoreIfAbsent inserts the article unless one with the same URL
	// exists. A duplicate is not an error: it returns (false, nil).
	StoreIfAbsent(article *domain.Article) (bool, error)
}

type articleRepository struct {
	db           *gorm.DB
	feedbackRepo FeedbackRepository
	log          *logger.Logger
}

// NewArticleRepository creates a new gorm-backed ArticleRepository
func NewArticleRepository(db *gorm.DB, feedbackRepo FeedbackRepository, log *logger.Logger) ArticleRepository {
	return &articleRepository{db: db, feedbackRepo: feedbackRepo, log: log}
}

func (r *articleRepository) StoreIfAbsent(article *domain.Article) (bool, error) {
	var existing domain.Article
	err := r.db.Where("url = ?", article.URL).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.ExternalID == "" {
		article.ExternalID = article.URL
	}
	article.CreatedAt = time.Now()
	if err := r.db.Create(article).Error; err != nil {
		return false, err
	}

	// Best-effort mirror; never fails the primary write.
	text := article.Title
	if article.Content != "" {
		text = article.Title + ". " + article.Content
	}
	if err := r.feedbackRepo.Mirror(brandClinicID, mirrorSourceType(article.SourceType), article.URL, text); err != nil {
		r.log.Warn("feedback mirror write failed", "article_id", article.ID, "error", err)
	}
	return true, nil
}

func mirrorSourceType(articleSource string) string {
	switch articleSource {
	case domain.SourceBlog:
		return domain.FeedbackBlog
	case domain.SourcePress:
		return domain.FeedbackPress
	case domain.SourceSocial:
		return domain.FeedbackSocial
	default:
		return domain.FeedbackArticle
	}
}
