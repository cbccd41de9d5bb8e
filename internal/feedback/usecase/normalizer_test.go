package usecase

import (
	"testing"
	"time"
)

func validReviewInput() map[string]any {
	return map[string]any{
		"external_id":  "g-123",
		"author":       "A. Patient",
		"rating":       5,
		"text":         "Great service",
		"published_at": "2026-05-01T10:00:00Z",
	}
}

func TestNormalizeReview_RatingPolicy(t *testing.T) {
	cases := []struct {
		name       string
		rating     any
		wantOK     bool
		wantRating int
	}{
		{"int in range", 3, true, 3},
		{"float rounds", 4.6, true, 5},
		{"numeric string", "4", true, 4},
		{"above range clamps", 7, true, 5},
		{"fraction below one clamps up", 0.6, true, 1},
		{"zero rejects", 0, false, 0},
		{"negative rejects", -2, false, 0},
		{"non-numeric rejects", "five stars", false, 0},
		{"missing rejects", nil, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validReviewInput()
			if tc.rating == nil {
				delete(input, "rating")
			} else {
				input["rating"] = tc.rating
			}
			review := NormalizeReview(input, "marylebone")
			if !tc.wantOK {
				if review != nil {
					t.Fatalf("expected reject, got rating %d", review.Rating)
				}
				return
			}
			if review == nil {
				t.Fatal("expected review, got nil")
			}
			if review.Rating != tc.wantRating {
				t.Errorf("rating = %d, want %d", review.Rating, tc.wantRating)
			}
		})
	}
}

func TestNormalizeReview_RequiredFields(t *testing.T) {
	input := validReviewInput()
	delete(input, "external_id")
	if NormalizeReview(input, "marylebone") != nil {
		t.Error("expected reject without external id")
	}

	input = validReviewInput()
	input["text"] = "   "
	if NormalizeReview(input, "marylebone") != nil {
		t.Error("expected reject with blank text")
	}

	if NormalizeReview(validReviewInput(), "") != nil {
		t.Error("expected reject without clinic")
	}
}

func TestNormalizeReview_WhitespaceCollapsed(t *testing.T) {
	input := validReviewInput()
	input["text"] = "  lovely \n\n staff   here "
	review := NormalizeReview(input, "marylebone")
	if review == nil {
		t.Fatal("expected review")
	}
	if review.Text != "lovely staff here" {
		t.Errorf("text = %q", review.Text)
	}
}

func TestNormalizeReview_BadDateFallsBackToNow(t *testing.T) {
	input := validReviewInput()
	input["published_at"] = "not-a-date"
	before := time.Now()
	review := NormalizeReview(input, "marylebone")
	if review == nil {
		t.Fatal("expected review")
	}
	if review.PublishedAt.Before(before.Add(-time.Minute)) {
		t.Errorf("expected fallback to now, got %v", review.PublishedAt)
	}
}

func TestNormalizeReview_UnixSeconds(t *testing.T) {
	input := validReviewInput()
	input["published_at"] = int64(1714557600)
	review := NormalizeReview(input, "marylebone")
	if review == nil {
		t.Fatal("expected review")
	}
	if review.PublishedAt.Unix() != 1714557600 {
		t.Errorf("published_at = %v", review.PublishedAt)
	}
}

func TestNormalizeArticle_RequiresURL(t *testing.T) {
	if NormalizeArticle(map[string]any{"title": "No link"}) != nil {
		t.Error("expected reject without url")
	}
	if NormalizeArticle(map[string]any{"url": "::bad::"}) != nil {
		t.Error("expected reject on unparseable url")
	}
}

func TestNormalizeArticle_TitleFromURL(t *testing.T) {
	article := NormalizeArticle(map[string]any{
		"url": "https://news.example.com/health/dental-chain-expands-london.html",
	})
	if article == nil {
		t.Fatal("expected article")
	}
	if article.Title != "dental chain expands london" {
		t.Errorf("title = %q", article.Title)
	}
}

func TestNormalizeArticle_ContentFromRawHTML(t *testing.T) {
	article := NormalizeArticle(map[string]any{
		"url":         "https://example.com/story",
		"title":       "Story",
		"raw_html":    "<html><body><nav>menu</nav><article><p>Real content here.</p></article></body></html>",
		"source_type": "press",
	})
	if article == nil {
		t.Fatal("expected article")
	}
	if article.Content != "Real content here." {
		t.Errorf("content = %q", article.Content)
	}
	if article.SourceType != "press" {
		t.Errorf("source type = %q", article.SourceType)
	}
	if article.RawHTML == nil {
		t.Error("expected raw html kept")
	}
}

func TestNormalizeArticle_UnknownSourceDefaults(t *testing.T) {
	article := NormalizeArticle(map[string]any{
		"url":         "https://example.com/a",
		"source_type": "newsletter",
	})
	if article == nil {
		t.Fatal("expected article")
	}
	if article.SourceType != "article" {
		t.Errorf("source type = %q", article.SourceType)
	}
}

func TestNormalizeArticle_BadDateLeftUnset(t *testing.T) {
	article := NormalizeArticle(map[string]any{
		"url":          "https://example.com/a",
		"published_at": "sometime last week",
	})
	if article == nil {
		t.Fatal("expected article")
	}
	if article.PublishedAt != nil {
		t.Errorf("expected nil published date, got %v", article.PublishedAt)
	}
}
