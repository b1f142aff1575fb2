package pages

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/qgc-crawler/models"
)

// minReadableText is the distilled text length below which readability is
// assumed to have dropped the creditor tables.
const minReadableText = 200

var documentURL = &url.URL{Scheme: "file", Path: "/document.html"}

// extractHTML distils the page with readability and walks its blocks into
// lines. HTML has no pages, so the result is a single page.
func extractHTML(ctx context.Context, data []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(data), documentURL)
	if err == nil {
		text, err = blockText(article.Content)
	}
	if err != nil || len(text) < minReadableText {
		raw, rawErr := blockText(string(data))
		if rawErr != nil {
			return nil, models.ExtractionError("unreadable html", rawErr)
		}
		if len(raw) > len(text) {
			text = raw
		}
	}
	return []string{text}, nil
}

// blockText emits one line per heading, paragraph or list item, and one line
// per table row with cells separated by " | ".
func blockText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style,noscript").Remove()

	var lines []string
	doc.Find("h1,h2,h3,h4,p,li,tr").Each(func(i int, s *goquery.Selection) {
		// nested blocks are emitted on their own
		if goquery.NodeName(s) != "tr" && s.Find("p,li,tr").Length() > 0 {
			return
		}

		var line string
		if goquery.NodeName(s) == "tr" {
			var cells []string
			s.Find("td,th").Each(func(_ int, c *goquery.Selection) {
				if t := normalizeText(c.Text()); t != "" {
					cells = append(cells, t)
				}
			})
			line = strings.Join(cells, " | ")
		} else {
			if s.Closest("tr").Length() > 0 {
				return
			}
			line = normalizeText(s.Text())
		}
		if line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n"), nil
}

// normalizeText collapses internal whitespace and trims the result.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
