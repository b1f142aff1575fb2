package analytics

import (
	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
)

// MinWordLength is the shortest word that can be significant.
const MinWordLength = 3

type Analytics struct{}

// connectors are Portuguese articles, prepositions and conjunctions, already folded.
var connectors = map[string]struct{}{
	"a": {}, "o": {}, "as": {}, "os": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"e": {}, "ou": {}, "em": {}, "na": {}, "no": {}, "nas": {}, "nos": {},
	"por": {}, "pela": {}, "pelo": {}, "pelas": {}, "pelos": {},
	"para": {}, "com": {}, "sem": {}, "sob": {}, "sobre": {},
	"ao": {}, "aos": {}, "que": {}, "se": {}, "ate": {}, "entre": {},
	"del": {}, "di": {}, "du": {}, "van": {}, "von": {},
}

// corporateWords are company-name fillers that say nothing about which company it is.
var corporateWords = map[string]struct{}{
	"ltda": {}, "sa": {}, "cia": {}, "inc": {}, "corp": {}, "limited": {},
	"eireli": {}, "epp": {}, "me": {}, "mei": {}, "s": {},
	"tech": {}, "group": {}, "grupo": {}, "international": {}, "internacional": {},
	"brasil": {}, "brazil": {}, "company": {}, "companhia": {},
	"solutions": {}, "solucoes": {}, "services": {}, "servicos": {},
	"industria": {}, "comercio": {}, "global": {}, "nacional": {},
	"holding": {}, "participacoes": {}, "empreendimentos": {},
}

// legalNoise is vocabulary every creditor list repeats; it is ignored when
// counting document terms.
var legalNoise = map[string]struct{}{
	"credor": {}, "credores": {}, "valor": {}, "classe": {}, "total": {},
	"cpf": {}, "cnpj": {}, "real": {}, "reais": {}, "processo": {},
}

// IsStopword reports whether a folded word never identifies a creditor on its own.
func IsStopword(word string) bool {
	if _, ok := connectors[word]; ok {
		return true
	}
	_, ok := corporateWords[word]
	return ok
}

// IsSignificant reports whether a folded word can anchor a word-based match.
func IsSignificant(word string) bool {
	return len(word) >= MinWordLength && !IsStopword(word)
}

// SignificantWords returns the distinct significant words of a folded name,
// in first-occurrence order.
func SignificantWords(name string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range normalize.Tokenize(name) {
		if !IsSignificant(tok.Text) {
			continue
		}
		if _, dup := seen[tok.Text]; dup {
			continue
		}
		seen[tok.Text] = struct{}{}
		out = append(out, tok.Text)
	}
	return out
}

// WordFrequency counts significant words of a text, skipping legal boilerplate and numbers.
func (a *Analytics) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, tok := range normalize.Tokenize(normalize.Name(text)) {
		word := tok.Text
		if !IsSignificant(word) || isNumber(word) {
			continue
		}
		if _, noise := legalNoise[word]; noise {
			continue
		}
		frequencies[word]++
	}
	return frequencies
}

func isNumber(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < '0' || word[i] > '9' {
			return false
		}
	}
	return true
}
