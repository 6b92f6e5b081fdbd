package exhibition

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const summaryMaxRunes = 280

// DescriptionCleaner sanitizes exhibition descriptions, which are entered
// by museum staff as HTML, and derives a plain-text summary from them.
type DescriptionCleaner struct {
	policy *bluemonday.Policy
}

func NewDescriptionCleaner() *DescriptionCleaner {
	return &DescriptionCleaner{policy: bluemonday.UGCPolicy()}
}

// Clean returns a copy of e with a sanitized description and its summary.
func (c *DescriptionCleaner) Clean(e Exhibition) Exhibition {
	if e.Description == "" {
		return e
	}
	e.Description = strings.TrimSpace(c.policy.Sanitize(e.Description))
	e.Summary = PlainText(e.Description, summaryMaxRunes)
	return e
}

// PlainText extracts the visible text of an HTML fragment, collapses
// whitespace and cuts it at maxRunes on a word boundary.
func PlainText(fragment string, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	text := strings.Join(strings.Fields(doc.Text()), " ")

	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}
	cut := string(runes[:maxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
