package models

// DocumentType is the detected kind of legal document.
type DocumentType string

const (
	DocumentQGC     DocumentType = "qgc"
	DocumentEdital  DocumentType = "edital"
	DocumentUnknown DocumentType = "unknown"
)

// ClassificationResult is produced once per document and never mutated afterwards.
type ClassificationResult struct {
	DocumentType DocumentType `json:"document_type"`
	Confidence   int          `json:"confidence"` // 0-100
	Signals      []string     `json:"signals"`

	// Document-wide token counts, reported alongside the classification
	ValuesFound      int `json:"values_found"`
	IdentifiersFound int `json:"identifiers_found"`
}

// SectionName is the credit class a section belongs to.
type SectionName string

const (
	SectionLaborCreditors     SectionName = "labor_creditors"
	SectionUnsecuredCreditors SectionName = "unsecured_creditors"
	SectionSecuredCreditors   SectionName = "secured_creditors"
	SectionOther              SectionName = "other"
)

// Label returns the Portuguese label used in reports.
func (s SectionName) Label() string {
	switch s {
	case SectionLaborCreditors:
		return "Credores Trabalhistas"
	case SectionUnsecuredCreditors:
		return "Credores Quirografários"
	case SectionSecuredCreditors:
		return "Credores com Garantia Real"
	default:
		return "Outros"
	}
}

// Section is a contiguous range [Start, End) of Document.FullText.
type Section struct {
	Name    SectionName `json:"name"`
	Start   int         `json:"start"`
	End     int         `json:"end"`
	Rank    int         `json:"rank"`
	Heading string      `json:"heading,omitempty"`
}

// Len returns the number of bytes covered by the section.
func (s Section) Len() int {
	return s.End - s.Start
}
