package pages

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/dtnitsch/qgc-crawler/models"
)

// legacyCharsets maps detector names to the decoders for the encodings
// Brazilian court systems still export.
var legacyCharsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.ISO8859_1,
	"ISO-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"IBM850":       charmap.CodePage850,
}

// extractText decodes plain text and splits pages on form feeds.
func extractText(ctx context.Context, data []byte) ([]string, error) {
	text, err := decode(data)
	if err != nil {
		return nil, models.ExtractionError("undecodable text", err)
	}

	raw := strings.Split(text, "\f")
	pages := make([]string, 0, len(raw))
	for _, p := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, cleanLines(p))
	}
	return pages, nil
}

func decode(data []byte) (string, error) {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data), nil
	}

	enc := encoding.Encoding(charmap.Windows1252)
	if res, err := chardet.NewTextDetector().DetectBest(data); err == nil {
		if e, ok := legacyCharsets[res.Charset]; ok {
			enc = e
		}
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
