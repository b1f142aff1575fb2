package models

import (
	"sort"
	"strings"
)

// PageSeparator joins page texts into Document.FullText.
const PageSeparator = "\n\n"

// Document represents the extracted text of a single uploaded file.
type Document struct {
	Fingerprint    string               `json:"fingerprint"`
	Pages          []string             `json:"-"`
	FullText       string               `json:"-"`
	PageOffsets    []int                `json:"page_offsets"`
	Sections       []Section            `json:"sections"`
	Classification ClassificationResult `json:"classification"`
}

// NewDocument concatenates pages into FullText and records where each page starts.
func NewDocument(fingerprint string, pages []string) *Document {
	var sb strings.Builder
	offsets := make([]int, len(pages))
	for i, p := range pages {
		if i > 0 {
			sb.WriteString(PageSeparator)
		}
		offsets[i] = sb.Len()
		sb.WriteString(p)
	}

	return &Document{
		Fingerprint: fingerprint,
		Pages:       pages,
		FullText:    sb.String(),
		PageOffsets: offsets,
	}
}

// PageAt returns the 1-based page number containing offset, or 0 for an empty document.
func (d *Document) PageAt(offset int) int {
	if len(d.PageOffsets) == 0 {
		return 0
	}
	i := sort.Search(len(d.PageOffsets), func(i int) bool {
		return d.PageOffsets[i] > offset
	})
	if i == 0 {
		return 1
	}
	return i
}

// SectionAt returns the section containing offset, or nil when no section covers it.
func (d *Document) SectionAt(offset int) *Section {
	i := sort.Search(len(d.Sections), func(i int) bool {
		return d.Sections[i].End > offset
	})
	if i < len(d.Sections) && d.Sections[i].Start <= offset {
		return &d.Sections[i]
	}
	return nil
}
