package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContent enumerates DOM regions stripped before text extraction.
var nonContent = []string{
	"script", "style", "noscript", "iframe",
	"nav", "header", "footer", "aside", "form",
	".ad", ".ads", ".advertisement", ".cookie-banner", ".newsletter-signup",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}

// ExtractText strips non-content regions from an HTML document and returns
// the remaining visible text with whitespace collapsed. An empty string
// means nothing useful was found; parse failures are reported as errors.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, sel := range nonContent {
		doc.Find(sel).Remove()
	}

	// Prefer an explicit article/main region when the page marks one up.
	root := doc.Selection
	if article := doc.Find("article"); article.Length() > 0 {
		root = article.First()
	} else if main := doc.Find("main"); main.Length() > 0 {
		root = main.First()
	} else if body := doc.Find("body"); body.Length() > 0 {
		root = body.First()
	}

	return Collapse(root.Text()), nil
}

// Collapse trims a string and squeezes internal whitespace runs (including
// newlines) down to single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
