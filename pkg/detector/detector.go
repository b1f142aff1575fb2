package detector

import (
	"math"
	"sort"
	"strings"

	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/contextual"
	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
	"github.com/dtnitsch/qgc-crawler/pkg/rules"
)

const (
	// saturation is the weighted score that maps to 100% confidence.
	saturation = 30.0

	maxHitsPerRule     = 3
	minCreditClasses   = 2
	minMonetaryTokens  = 3
	creditClassWeight  = 8.0
	monetaryCueWeight  = 4.0
	languageSampleSize = 4000
)

// LanguageDetector returns the ISO 639-1 code of a text sample.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Classifier scores document types from the rule table over the first pages.
type Classifier struct {
	rules         rules.Table
	headerPages   int
	minConfidence int
	language      LanguageDetector
}

// New builds a Classifier. lang may be nil to skip the language check.
func New(cfg models.ClassifierConfig, lang LanguageDetector) *Classifier {
	headerPages := cfg.HeaderPages
	if headerPages < 1 {
		headerPages = 5
	}
	return &Classifier{
		rules:         rules.Classification,
		headerPages:   headerPages,
		minConfidence: cfg.MinConfidence,
		language:      lang,
	}
}

// pageWeight favours hits near the top of the document.
func pageWeight(idx int) float64 {
	switch idx {
	case 0:
		return 2.0
	case 1:
		return 1.5
	default:
		return 1.0
	}
}

type tally struct {
	score   float64
	signals []string
}

// Classify returns the document type with a confidence of 0-100. The same
// pages always give the same result.
func (c *Classifier) Classify(pages []string) models.ClassificationResult {
	tallies := make(map[string]*tally)
	for _, tag := range c.rules.Tags() {
		tallies[tag] = &tally{}
	}

	header := pages
	if len(header) > c.headerPages {
		header = header[:c.headerPages]
	}

	perRule := make(map[string]int)
	folded := make([]string, len(header))
	for i, page := range header {
		folded[i] = normalize.Name(page)
		for _, hit := range c.rules.Scan(folded[i], 0) {
			if perRule[hit.Rule.Phrase] >= maxHitsPerRule {
				continue
			}
			perRule[hit.Rule.Phrase]++
			t := tallies[hit.Rule.Tag]
			t.score += hit.Rule.Weight * pageWeight(i)
			t.signals = append(t.signals, "keyword:"+hit.Rule.Phrase)
		}
	}

	qgc := tallies[string(models.DocumentQGC)]
	headerText := strings.Join(folded, "\n")
	if classes := creditClasses(headerText); classes >= minCreditClasses {
		qgc.score += creditClassWeight
		qgc.signals = append(qgc.signals, "structure:credit_classes")
	}

	values, identifiers := contextual.CountTokens(strings.Join(pages, models.PageSeparator))
	if values >= minMonetaryTokens {
		qgc.score += monetaryCueWeight
		qgc.signals = append(qgc.signals, "structure:monetary_values")
	}

	bestTag := ""
	var best *tally
	for _, tag := range c.rules.Tags() {
		if t := tallies[tag]; best == nil || t.score > best.score {
			best, bestTag = t, tag
		}
	}

	result := models.ClassificationResult{
		DocumentType:     models.DocumentType(bestTag),
		Confidence:       confidence(best.score),
		Signals:          best.signals,
		ValuesFound:      values,
		IdentifiersFound: identifiers,
	}

	if c.language != nil {
		sample := strings.Join(header, "\n")
		if len(sample) > languageSampleSize {
			sample = strings.ToValidUTF8(sample[:languageSampleSize], "")
		}
		if iso, ok := c.language.Detect(sample); ok && iso != "pt" {
			result.Confidence /= 2
			result.Signals = append(result.Signals, "language:"+iso)
		}
	}

	if result.Confidence < c.minConfidence || best.score == 0 {
		result.DocumentType = models.DocumentUnknown
	}
	result.Signals = dedupe(result.Signals)
	return result
}

func confidence(score float64) int {
	c := int(math.Round(100 * score / saturation))
	if c > 100 {
		return 100
	}
	return c
}

// creditClasses counts distinct named credit classes mentioned in the text.
func creditClasses(folded string) int {
	seen := make(map[string]struct{})
	for _, hit := range rules.Headings.Scan(folded, 1) {
		if hit.Rule.Tag == string(models.SectionOther) {
			continue
		}
		seen[hit.Rule.Tag] = struct{}{}
	}
	return len(seen)
}

func dedupe(signals []string) []string {
	out := make([]string, 0, len(signals))
	seen := make(map[string]struct{}, len(signals))
	for _, s := range signals {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
