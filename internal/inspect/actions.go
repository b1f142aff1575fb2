package inspect

import (
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/qgc-crawler/internal/common"
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/analytics"
	"github.com/dtnitsch/qgc-crawler/pkg/fetcher"
	"github.com/dtnitsch/qgc-crawler/pkg/mapreduce"
)

// Output is the JSON printed by inspect.
type Output struct {
	Fingerprint    string                      `json:"fingerprint"`
	Pages          int                         `json:"pages"`
	CacheHit       bool                        `json:"cache_hit"`
	Classification models.ClassificationResult `json:"classification"`
	Sections       []SectionOutput             `json:"sections"`
	TopKeywords    []string                    `json:"top_keywords,omitempty"`
}

type SectionOutput struct {
	models.Section
	Label     string `json:"label"`
	FirstPage int    `json:"first_page"`
}

// InspectAction ingests a document and prints its classification and sections.
func InspectAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(logger, "invalid configuration", err)
	}

	data, err := fetcher.NewFetcher().Load(c.Context, c.String("document"))
	if err != nil {
		return common.Fail(logger, "failed to load document", err)
	}

	engine, closer, err := common.OpenEngine(cfg, logger)
	if err != nil {
		return common.Fail(logger, "failed to open cache", err)
	}
	defer closer.Close()

	handle, classification, sections, err := engine.Ingest(c.Context, data)
	if err != nil {
		return common.Fail(logger, "failed to ingest document", err)
	}

	out := Output{
		Fingerprint:    handle.Fingerprint,
		Pages:          len(handle.Document.Pages),
		CacheHit:       handle.CacheHit,
		Classification: classification,
		Sections:       make([]SectionOutput, 0, len(sections)),
	}
	for _, s := range sections {
		out.Sections = append(out.Sections, SectionOutput{
			Section:   s,
			Label:     s.Name.Label(),
			FirstPage: handle.Document.PageAt(s.Start),
		})
	}
	if n := c.Int("keywords"); n > 0 {
		counts := mapreduce.Pages(handle.Document.Pages, &analytics.Analytics{})
		out.TopKeywords = mapreduce.TopKeywords(counts, n)
	}

	return common.PrintJSON(out, c.String("fields"))
}
