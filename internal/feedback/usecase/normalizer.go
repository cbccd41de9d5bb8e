package usecase

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/pkg/htmltext"

	"gorm.io/datatypes"
)

// Normalizers turn loosely-typed scraped/API payloads into validated
// records. Malformed input is rejected by returning nil, never by panicking;
// callers log the reject and move on.

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// NormalizeReview validates a raw review payload for a clinic. Returns nil
// when the external id is missing, the text is empty, or the rating is
// non-numeric or clamps to zero. In-range fractional ratings round to the
// nearest star; out-of-range numeric ratings clamp into [1,5]. An
// unparseable published date falls back to now.
func NormalizeReview(input map[string]any, clinicID string) *domain.Review {
	if clinicID == "" {
		return nil
	}
	externalID := cleanString(input["external_id"])
	if externalID == "" {
		return nil
	}
	text := cleanString(input["text"])
	if text == "" {
		return nil
	}

	rating, ok := parseRating(input["rating"])
	if !ok {
		return nil
	}

	publishedAt, ok := parseTime(input["published_at"])
	if !ok {
		publishedAt = time.Now()
	}

	review := &domain.Review{
		ExternalID:  externalID,
		ClinicID:    clinicID,
		Author:      cleanString(input["author"]),
		Rating:      rating,
		Text:        text,
		PublishedAt: publishedAt,
	}

	if response := cleanString(input["response_text"]); response != "" {
		review.ResponseText = &response
		if at, ok := parseTime(input["response_at"]); ok {
			review.ResponseAt = &at
		}
	}

	if raw, err := json.Marshal(input); err == nil {
		review.Raw = datatypes.JSON(raw)
	}
	return review
}

// NormalizeArticle validates a raw article payload. Returns nil when the URL
// is missing or unparseable. A missing title is derived from the URL path;
// raw HTML is cleaned down to visible text; an unparseable published date is
// left unset.
func NormalizeArticle(input map[string]any) *domain.Article {
	rawURL := cleanString(input["url"])
	if rawURL == "" {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}

	sourceType := cleanString(input["source_type"])
	if !domain.ValidSourceType(sourceType) {
		sourceType = domain.SourceArticle
	}

	title := cleanString(input["title"])
	if title == "" {
		title = titleFromURL(parsed)
	}

	content := cleanString(input["content"])
	article := &domain.Article{
		ExternalID: rawURL,
		SourceType: sourceType,
		Title:      title,
		URL:        rawURL,
		Content:    content,
	}

	if desc := cleanString(input["description"]); desc != "" {
		article.Description = &desc
	}
	if author := cleanString(input["author"]); author != "" {
		article.Author = &author
	}
	if at, ok := parseTime(input["published_at"]); ok {
		article.PublishedAt = &at
	}

	if rawHTML, _ := input["raw_html"].(string); rawHTML != "" {
		article.RawHTML = &rawHTML
		if content == "" {
			if text, err := htmltext.ExtractText(rawHTML); err == nil && text != "" {
				article.Content = text
			}
		}
	}

	if meta, err := json.Marshal(input); err == nil {
		article.Metadata = datatypes.JSON(meta)
	}
	return article
}

// cleanString trims and collapses internal whitespace of any stringish value.
func cleanString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return htmltext.Collapse(s)
}

func parseRating(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	rating := int(math.Round(f))
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return rating, true
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case int64:
		return time.Unix(t, 0), t > 0
	case float64:
		return time.Unix(int64(t), 0), t > 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// titleFromURL derives a readable title from the last URL path segment.
func titleFromURL(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return u.Host
	}
	last = strings.TrimSuffix(last, ".html")
	last = strings.ReplaceAll(last, "-", " ")
	last = strings.ReplaceAll(last, "_", " ")
	if cleaned := htmltext.Collapse(last); cleaned != "" {
		return cleaned
	}
	return u.Host
}
