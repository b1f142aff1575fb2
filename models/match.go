package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtnitsch/qgc-crawler/pkg/normalize"
)

// ClientTarget is one name to look for in a document.
type ClientTarget struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
}

// NewClientTarget trims name and derives its normalized form.
func NewClientTarget(name string) ClientTarget {
	name = strings.TrimSpace(name)
	return ClientTarget{
		Name:           name,
		NormalizedName: normalize.Name(name),
	}
}

// NewClientTargets builds targets from plain names, skipping blank entries.
func NewClientTargets(names []string) []ClientTarget {
	targets := make([]ClientTarget, 0, len(names))
	for _, n := range names {
		t := NewClientTarget(n)
		if t.NormalizedName == "" {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// Strategy identifies which matching strategy produced a candidate.
type Strategy string

const (
	StrategyExact         Strategy = "exact"
	StrategyWordBased     Strategy = "word_based"
	StrategyFuzzyStrict   Strategy = "fuzzy_strict"
	StrategyContextWindow Strategy = "context_window"
	StrategyDataDriven    Strategy = "data_driven"
)

// AllStrategies lists strategies in best-match preference order.
var AllStrategies = []Strategy{
	StrategyExact,
	StrategyWordBased,
	StrategyDataDriven,
	StrategyFuzzyStrict,
	StrategyContextWindow,
}

// Preference ranks strategies for tie-breaking; lower wins.
func (s Strategy) Preference() int {
	for i, k := range AllStrategies {
		if k == s {
			return i
		}
	}
	return len(AllStrategies)
}

// Label returns the Portuguese label used in reports.
func (s Strategy) Label() string {
	switch s {
	case StrategyExact:
		return "Exata"
	case StrategyWordBased:
		return "Palavras"
	case StrategyFuzzyStrict:
		return "Fuzzy"
	case StrategyContextWindow:
		return "Contexto"
	case StrategyDataDriven:
		return "CPF/CNPJ"
	default:
		return string(s)
	}
}

// MatchCandidate is one located hit for a client.
type MatchCandidate struct {
	Client      string           `json:"client"`
	Strategy    Strategy         `json:"strategy"`
	Score       int              `json:"score"`
	Offset      int              `json:"offset"`
	Length      int              `json:"length"`
	Section     *Section         `json:"section,omitempty"`
	Page        int              `json:"page"`
	ContextText string           `json:"context_text,omitempty"`
	Detail      string           `json:"detail,omitempty"`
	Data        []ExtractedDatum `json:"data,omitempty"`
}

// End returns the offset one past the matched text.
func (c MatchCandidate) End() int {
	return c.Offset + c.Length
}

// DatumKind distinguishes extracted values.
type DatumKind string

const (
	DatumMonetary   DatumKind = "monetary"
	DatumIdentifier DatumKind = "identifier"
)

// IdentifierType is the national tax identifier a token looks like.
type IdentifierType string

const (
	IdentifierCPF  IdentifierType = "cpf"
	IdentifierCNPJ IdentifierType = "cnpj"
)

// ExtractedDatum is a value found inside a context window.
type ExtractedDatum struct {
	Kind            DatumKind       `json:"kind"`
	RawText         string          `json:"raw_text"`
	Value           string          `json:"value"`
	Amount          decimal.Decimal `json:"amount,omitempty"`
	IdentifierType  IdentifierType  `json:"identifier_type,omitempty"`
	LowConfidence   bool            `json:"low_confidence,omitempty"`
	OffsetInContext int             `json:"offset_in_context"`
	DocumentOffset  int             `json:"document_offset"`
}

// ClientResult collapses all candidates of one client.
type ClientResult struct {
	Client           ClientTarget     `json:"client"`
	BestMatch        *MatchCandidate  `json:"best_match,omitempty"`
	AllMatches       []MatchCandidate `json:"all_matches"`
	ExtractedData    []ExtractedDatum `json:"extracted_data"`
	Found            bool             `json:"found"`
	EffectiveMinimum int              `json:"effective_minimum"`
}

// Values returns the raw text of monetary data, in document order.
func (r ClientResult) Values() []string {
	return r.rawOf(DatumMonetary)
}

// Identifiers returns the raw text of identifier data, in document order.
func (r ClientResult) Identifiers() []string {
	return r.rawOf(DatumIdentifier)
}

func (r ClientResult) rawOf(kind DatumKind) []string {
	var out []string
	for _, d := range r.ExtractedData {
		if d.Kind == kind {
			out = append(out, d.RawText)
		}
	}
	return out
}
