package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector tells Portuguese apart from the languages a misrouted upload
// is most likely written in.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Portuguese, lingua.English, lingua.Spanish).
			Build(),
	}
}

func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
