package usecase

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/pkg/logger"
)

// Recognized header synonyms per field. Matching is case-insensitive on the
// trimmed header cell. Several comment columns may match; their values are
// concatenated into one comment.
var (
	dateHeaders    = []string{"date", "review date", "created", "created at", "published", "timestamp"}
	ratingHeaders  = []string{"rating", "stars", "score", "star rating"}
	clinicHeaders  = []string{"clinic", "location", "branch", "practice", "site"}
	commentHeaders = []string{"comment", "comments", "review", "feedback", "text", "message", "notes"}
)

// UploadReport counts what happened to each CSV row.
type UploadReport struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// UploadUsecase parses review CSVs and stores the valid rows.
type UploadUsecase struct {
	reviewRepo repository.ReviewRepository
	log        *logger.Logger
}

func NewUploadUsecase(reviewRepo repository.ReviewRepository, log *logger.Logger) *UploadUsecase {
	return &UploadUsecase{reviewRepo: reviewRepo, log: log}
}

// UploadCSV ingests a review CSV. Rows failing required-field validation
// (unresolvable clinic, empty comment, rating outside 1-5) are skipped
// silently; a bad date falls back to the upload time. Returns an error only
// when the header row is unusable.
func (u *UploadUsecase) UploadCSV(r io.Reader) (*UploadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	cols := mapColumns(header)
	if cols.rating < 0 || cols.clinic < 0 || len(cols.comments) == 0 {
		return nil, fmt.Errorf("header row missing required columns (need rating, clinic and a comment column)")
	}

	report := &UploadReport{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Rejected++
			continue
		}

		review := u.rowToReview(cols, row)
		if review == nil {
			report.Rejected++
			continue
		}

		stored, err := u.reviewRepo.StoreIfAbsent(review, domain.FeedbackCSVReview)
		if err != nil {
			u.log.Warn("csv row store failed", "external_id", review.ExternalID, "error", err)
			report.Rejected++
			continue
		}
		if stored {
			report.Added++
		} else {
			report.Duplicates++
		}
	}
	return report, nil
}

type columnMap struct {
	date     int
	rating   int
	clinic   int
	comments []int
}

func mapColumns(header []string) columnMap {
	cols := columnMap{date: -1, rating: -1, clinic: -1}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.date < 0 && contains(dateHeaders, name):
			cols.date = i
		case cols.rating < 0 && contains(ratingHeaders, name):
			cols.rating = i
		case cols.clinic < 0 && contains(clinicHeaders, name):
			cols.clinic = i
		case contains(commentHeaders, name):
			cols.comments = append(cols.comments, i)
		}
	}
	return cols
}

func (u *UploadUsecase) rowToReview(cols columnMap, row []string) *domain.Review {
	clinicID := domain.MatchClinic(cell(row, cols.clinic))
	if clinicID == "" {
		return nil
	}

	var parts []string
	for _, idx := range cols.comments {
		if v := strings.TrimSpace(cell(row, idx)); v != "" {
			parts = append(parts, v)
		}
	}
	comment := strings.Join(parts, " ")
	if comment == "" {
		return nil
	}

	// CSV ratings are validated strictly: out-of-range values reject the
	// row rather than clamping, since a typo'd export should not silently
	// skew the numbers.
	rating, err := strconv.Atoi(strings.TrimSpace(cell(row, cols.rating)))
	if err != nil || rating < 1 || rating > 5 {
		return nil
	}

	input := map[string]any{
		"external_id": csvExternalID(clinicID, cell(row, cols.date), comment),
		"rating":      rating,
		"text":        comment,
		"source":      "csv_upload",
	}
	if cols.date >= 0 {
		input["published_at"] = strings.TrimSpace(cell(row, cols.date))
	}
	return NormalizeReview(input, clinicID)
}

// csvExternalID derives a stable natural key for a CSV row so re-uploading
// the same file never duplicates rows.
func csvExternalID(clinicID, date, comment string) string {
	sum := sha256.Sum256([]byte(clinicID + "|" + date + "|" + comment))
	return "csv-" + hex.EncodeToString(sum[:8])
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
