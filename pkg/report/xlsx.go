// Package report renders a matching run as an .xlsx workbook and a JSON
// summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dtnitsch/qgc-crawler/models"
)

const (
	ResultsSheet  = "Resultados"
	AnalysisSheet = "Análise do Documento"

	contextPreview = 150
)

// Run is everything a report needs about one MatchClients call.
type Run struct {
	Document  *models.Document
	Results   []models.ClientResult
	Stats     models.ProcessingStats
	Tolerance models.ToleranceConfig
}

var resultHeaders = []string{
	"Cliente",
	"Encontrado",
	"Confiança",
	"Tipo de Match",
	"Seção",
	"Página",
	"Valores Encontrados",
	"CPF/CNPJ Encontrados",
	"Contexto",
}

// WriteXLSX writes the results and document analysis sheets to w.
func WriteXLSX(w io.Writer, run Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeResults(f, run.Results); err != nil {
		return err
	}

	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeAnalysis(f, run); err != nil {
		return err
	}

	index, _ := f.GetSheetIndex(ResultsSheet)
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, results []models.ClientResult) error {
	header := make([]any, len(resultHeaders))
	for i, h := range resultHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		row := resultRow(r)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(ResultsSheet, "A", "A", 36)
	_ = f.SetColWidth(ResultsSheet, "B", "F", 14)
	_ = f.SetColWidth(ResultsSheet, "G", "H", 32)
	_ = f.SetColWidth(ResultsSheet, "I", "I", 80)
	return f.AutoFilter(ResultsSheet, fmt.Sprintf("A1:I%d", len(results)+1), nil)
}

func resultRow(r models.ClientResult) []any {
	found := "Não"
	if r.Found {
		found = "Sim"
	}
	row := []any{r.Client.Name, found, "0%", "", "", "", "", "", ""}

	best := r.BestMatch
	if best == nil {
		return row
	}
	row[2] = fmt.Sprintf("%d%%", best.Score)
	row[3] = best.Strategy.Label()
	if best.Section != nil {
		row[4] = best.Section.Name.Label()
	}
	row[5] = best.Page
	row[6] = strings.Join(r.Values(), ", ")
	row[7] = strings.Join(r.Identifiers(), ", ")
	row[8] = preview(best.ContextText, contextPreview)
	return row
}

func writeAnalysis(f *excelize.File, run Run) error {
	rows := analysisRows(run)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(AnalysisSheet, cell, &row); err != nil {
			return fmt.Errorf("write analysis row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(AnalysisSheet, "A", "A", 36)
	_ = f.SetColWidth(AnalysisSheet, "B", "B", 28)
	return nil
}

func analysisRows(run Run) [][]any {
	s := run.Stats
	rows := [][]any{
		{"Métrica", "Valor"},
		{"Total de Clientes", s.TotalClients},
		{"Clientes Processados", s.ProcessedClients},
		{"Clientes Encontrados", s.FoundClients},
		{"Taxa de Sucesso (%)", fmt.Sprintf("%.1f%%", s.SuccessRate())},
		{"Pontuação Mínima", run.Tolerance.MinimumScore},
	}
	if doc := run.Document; doc != nil {
		c := doc.Classification
		rows = append(rows,
			[]any{"Tipo de Documento", string(c.DocumentType)},
			[]any{"Confiança na Detecção (%)", c.Confidence},
			[]any{"Sinais de Detecção", strings.Join(c.Signals, ", ")},
			[]any{"Páginas Processadas", len(doc.Pages)},
			[]any{"Valores Monetários no Documento", c.ValuesFound},
			[]any{"CPF/CNPJ no Documento", c.IdentifiersFound},
			[]any{"Seções", len(doc.Sections)},
		)
	}
	rows = append(rows,
		[]any{"Tempo de Processamento (s)", fmt.Sprintf("%.1f", s.Elapsed.Seconds())},
		[]any{"Texto em Cache", yesNo(s.CacheHit)},
		[]any{"Execução Cancelada", yesNo(s.Cancelled)},
		[]any{"Anomalias", s.Anomalies},
	)
	for _, k := range models.AllStrategies {
		rows = append(rows, []any{"Candidatos: " + k.Label(), s.CandidatesByStrategy[k]})
	}
	for _, note := range s.Notes {
		rows = append(rows, []any{"Observação", note})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// preview cuts s to n runes, marking the cut with "...".
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
