// Package clientlist reads the names to search for.
package clientlist

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dtnitsch/qgc-crawler/models"
)

// Read loads client names from an .xlsx workbook or a text file with one
// name per line.
func Read(path string) ([]models.ClientTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.ConfigurationError("read client list: %v", err)
	}

	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		names, err = FromWorkbook(bytes.NewReader(data))
	default:
		names, err = FromLines(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, models.ConfigurationError("client list %s is empty", path)
	}
	return models.NewClientTargets(names), nil
}

// FromWorkbook returns the first column of the first sheet. The first row is
// a header and is skipped.
func FromWorkbook(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, models.ConfigurationError("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, models.ConfigurationError("read sheet %s: %v", sheets[0], err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(row[0]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// FromLines returns every non-blank line.
func FromLines(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, models.ConfigurationError("read client list: %v", err)
	}
	return names, nil
}
