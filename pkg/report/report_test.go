package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dtnitsch/qgc-crawler/models"
)

func sampleRun() Run {
	doc := models.NewDocument("abc123", []string{"QUADRO GERAL DE CREDORES\nJOÃO SILVA R$ 12.345,67", "BANCO ALFA"})
	doc.Classification = models.ClassificationResult{DocumentType: models.DocumentQGC, Confidence: 92, Signals: []string{"keyword:quadro geral de credores"}}
	doc.Sections = []models.Section{{Name: models.SectionLaborCreditors, Start: 0, End: len(doc.FullText)}}

	best := models.MatchCandidate{
		Client:      "João Silva",
		Strategy:    models.StrategyExact,
		Score:       100,
		Section:     &doc.Sections[0],
		Page:        1,
		ContextText: strings.Repeat("contexto ", 30),
	}
	found := models.ClientResult{
		Client:     models.NewClientTarget("João Silva"),
		AllMatches: []models.MatchCandidate{best},
		Found:      true,
		ExtractedData: []models.ExtractedDatum{
			{Kind: models.DatumMonetary, RawText: "R$ 12.345,67", Value: "12345.67"},
			{Kind: models.DatumIdentifier, RawText: "123.456.789-00", Value: "12345678900"},
		},
	}
	found.BestMatch = &found.AllMatches[0]

	return Run{
		Document: doc,
		Results:  []models.ClientResult{found, {Client: models.NewClientTarget("Ninguém")}},
		Stats: models.ProcessingStats{
			RunID:                "run-1",
			Elapsed:              1500 * time.Millisecond,
			Pages:                2,
			TotalClients:         2,
			ProcessedClients:     2,
			FoundClients:         1,
			CandidatesByStrategy: map[models.Strategy]int{models.StrategyExact: 1},
			FoundBySection:       map[models.SectionName]int{models.SectionLaborCreditors: 1},
		},
		Tolerance: models.DefaultTolerance(),
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRun()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ResultsSheet, AnalysisSheet}, f.GetSheetList())

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, resultHeaders, rows[0])
	assert.Equal(t, "João Silva", rows[1][0])
	assert.Equal(t, "Sim", rows[1][1])
	assert.Equal(t, "100%", rows[1][2])
	assert.Equal(t, "Exata", rows[1][3])
	assert.Equal(t, "Credores Trabalhistas", rows[1][4])
	assert.Equal(t, "R$ 12.345,67", rows[1][6])
	assert.Equal(t, "123.456.789-00", rows[1][7])
	assert.True(t, strings.HasSuffix(rows[1][8], "..."))
	assert.Equal(t, "Não", rows[2][1])

	analysis, err := f.GetRows(AnalysisSheet)
	require.NoError(t, err)
	values := make(map[string]string)
	for _, row := range analysis {
		if len(row) == 2 {
			values[row[0]] = row[1]
		}
	}
	assert.Equal(t, "2", values["Total de Clientes"])
	assert.Equal(t, "50.0%", values["Taxa de Sucesso (%)"])
	assert.Equal(t, "qgc", values["Tipo de Documento"])
	assert.Equal(t, "92", values["Confiança na Detecção (%)"])
	assert.Equal(t, "1.5", values["Tempo de Processamento (s)"])
}

func TestBuildSummary(t *testing.T) {
	manifest := BuildSummary(sampleRun(), "out.xlsx")

	assert.Equal(t, "run-1", manifest.RunID)
	assert.Equal(t, "abc123", manifest.Fingerprint)
	assert.Equal(t, models.DocumentQGC, manifest.DocumentType)
	assert.Equal(t, 50.0, manifest.SuccessRate)
	assert.Equal(t, int64(1500), manifest.ElapsedMS)
	require.Len(t, manifest.Results, 2)
	assert.Equal(t, "labor_creditors", manifest.Results[0].Section)
	assert.Equal(t, []string{"R$ 12.345,67"}, manifest.Results[0].Values)
	assert.False(t, manifest.Results[1].Found)
	assert.Contains(t, manifest.TopKeywords, "silva:1")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, manifest))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "out.xlsx", decoded["output_file"])
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview(" a \n b ", 10))
	assert.Equal(t, "ação...", preview("ação trabalhista", 4))
}
