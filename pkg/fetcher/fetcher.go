// Package fetcher loads documents from disk or from an http(s) URL, for
// editais published on court portals.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/qgc-crawler/models"
)

// MaxDocumentSize caps downloads; creditor lists of a few thousand pages stay
// well below it.
const MaxDocumentSize = 256 << 20

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// IsURL reports whether location should be downloaded instead of read from disk.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load returns the document bytes. Missing files and failed downloads are
// configuration errors: the operator pointed at the wrong document.
func (f *Fetcher) Load(ctx context.Context, location string) ([]byte, error) {
	if !IsURL(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, models.NewAppError(models.CodeConfiguration, "read document", err)
		}
		return data, nil
	}

	data, err := f.GetBytes(ctx, location)
	if err != nil {
		return nil, models.NewAppError(models.CodeConfiguration, "download document", err)
	}
	return data, nil
}

func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch document, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) > MaxDocumentSize {
		return nil, fmt.Errorf("document larger than %d bytes", MaxDocumentSize)
	}
	return bodyBytes, nil
}
