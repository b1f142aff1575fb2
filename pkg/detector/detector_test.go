package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/qgc-crawler/models"
)

type fixedLanguage string

func (f fixedLanguage) Detect(string) (string, bool) {
	return string(f), f != ""
}

func defaultClassifier(lang LanguageDetector) *Classifier {
	return New(models.ClassifierConfig{HeaderPages: 5, MinConfidence: 40}, lang)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		pages   []string
		want    models.DocumentType
		minConf int
		signal  string
	}{
		{
			name: "qgc header on first page",
			pages: []string{
				"QUADRO GERAL DE CREDORES\nAdministrador Judicial: Fulano",
				"CLASSE I - CREDORES TRABALHISTAS\nJoão R$ 1.000,00\nMaria R$ 2.000,00",
				"CLASSE III - CREDORES QUIROGRAFÁRIOS\nAcme R$ 3.000,00",
			},
			want:    models.DocumentQGC,
			minConf: 90,
			signal:  "structure:credit_classes",
		},
		{
			name: "edital",
			pages: []string{
				"EDITAL DE CONVOCAÇÃO\nPublicação nos termos do § 1º do art. 7º da Lei 11.101/2005.",
				"Fica aberto o prazo de 15 (quinze) dias para habilitações e divergências.",
			},
			want:    models.DocumentEdital,
			minConf: 90,
			signal:  "keyword:edital",
		},
		{
			name:    "plain text",
			pages:   []string{"Lorem ipsum dolor sit amet.", "Nothing to see here."},
			want:    models.DocumentUnknown,
			minConf: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultClassifier(nil).Classify(tt.pages)
			assert.Equal(t, tt.want, got.DocumentType)
			assert.GreaterOrEqual(t, got.Confidence, tt.minConf)
			assert.LessOrEqual(t, got.Confidence, 100)
			if tt.signal != "" {
				assert.Contains(t, got.Signals, tt.signal)
			}
			assert.IsNonDecreasing(t, got.Signals)
		})
	}
}

func TestClassifyUnknownIsBelowFloor(t *testing.T) {
	got := defaultClassifier(nil).Classify([]string{"receita de bolo de cenoura"})
	assert.Equal(t, models.DocumentUnknown, got.DocumentType)
	assert.Less(t, got.Confidence, 40)
}

func TestClassifyWeakSignalIsUnknown(t *testing.T) {
	// one low-weight keyword on a late page stays under the floor
	pages := []string{"a", "b", "c", "processo de falencia"}
	got := defaultClassifier(nil).Classify(pages)
	assert.Equal(t, models.DocumentUnknown, got.DocumentType)
	assert.Greater(t, got.Confidence, 0)
	assert.Contains(t, got.Signals, "keyword:falencia")
}

func TestClassifyDeterministic(t *testing.T) {
	pages := []string{"Quadro Geral de Credores", "Credores quirografários R$ 1,00 R$ 2,00 R$ 3,00"}
	c := defaultClassifier(nil)
	first := c.Classify(pages)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(pages))
	}
}

func TestHeaderPagesLimit(t *testing.T) {
	pages := []string{"um", "dois", "QUADRO GERAL DE CREDORES"}
	c := New(models.ClassifierConfig{HeaderPages: 2, MinConfidence: 40}, nil)
	assert.Equal(t, models.DocumentUnknown, c.Classify(pages).DocumentType)
}

func TestHitsPerRuleCapped(t *testing.T) {
	once := defaultClassifier(nil).Classify([]string{"", "", "qgc"})
	many := defaultClassifier(nil).Classify([]string{"", "", "qgc qgc qgc qgc qgc qgc"})
	assert.Equal(t, 3*once.Confidence, many.Confidence)
}

func TestLanguagePenalty(t *testing.T) {
	pages := []string{"QUADRO GERAL DE CREDORES"}

	pt := defaultClassifier(fixedLanguage("pt")).Classify(pages)
	en := defaultClassifier(fixedLanguage("en")).Classify(pages)

	require.Equal(t, models.DocumentQGC, pt.DocumentType)
	assert.Equal(t, pt.Confidence/2, en.Confidence)
	assert.Contains(t, en.Signals, "language:en")
	assert.NotContains(t, pt.Signals, "language:pt")
}
