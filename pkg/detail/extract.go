// Package detail fetches and extracts full job descriptions. Two channels
// exist: the direct job page (fast, rate limited) and the guest posting API
// (slower, more tolerant), used after the source starts throttling.
package detail

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minMetaLen is the shortest meta-tag or readability text accepted as a
// description; shorter strings are boilerplate.
const minMetaLen = 50

// descriptionSelectors are tried in order after JSON-LD.
var descriptionSelectors = []string{
	"div.show-more-less-html__markup",
	"div.description__text",
	"div.job-description__content",
	"div.jobs-description__container",
	"section.description",
	"div.job-description",
	"div.description",
	"div#job-details",
	"article",
}

// ExtractDescription pulls the job description out of a detail page.
// Order of preference: JSON-LD description, known selectors, meta tags,
// readability main-content extraction. Returns "" when nothing qualifies.
func ExtractDescription(html []byte, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}

	if desc := fromJSONLD(doc); desc != "" {
		return desc
	}

	for _, sel := range descriptionSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(nodeText(node))
		if len(text) > minMetaLen {
			return text
		}
	}

	for _, attr := range [][2]string{{"name", "description"}, {"property", "og:description"}} {
		meta := doc.Find("meta[" + attr[0] + "='" + attr[1] + "']").First()
		if content, ok := meta.Attr("content"); ok {
			content = strings.TrimSpace(content)
			if len(content) > minMetaLen {
				return content
			}
		}
	}

	return fromReadability(html, pageURL)
}

// fromJSONLD scans ld+json script blocks for a description field.
func fromJSONLD(doc *goquery.Document) string {
	var desc string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if d, ok := data["description"].(string); ok {
			d = strings.TrimSpace(d)
			if d != "" {
				desc = d
				return false
			}
		}
		return true
	})
	return desc
}

// fromReadability lets go-readability find the main article content when
// none of the known selectors matched.
func fromReadability(html []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(string(html)), parsed)
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) > minMetaLen {
		return text
	}
	return ""
}

// nodeText renders a selection's text with newlines between block children,
// mirroring get_text(separator="\n").
func nodeText(node *goquery.Selection) string {
	var sb strings.Builder
	node.Contents().Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	})
	return sb.String()
}
