// Package feed loads word-list data for the moderation engine. Lists
// are external data: a JSON document grouping entries by severity
// tier, read from a file or fetched over HTTP. Tiers are delivered on
// demand so callers only pay for the severities they intend to block.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"moderation/pkg/moderate"
)

var (
	ErrReadFeed   = fmt.Errorf("failed to read word feed")
	ErrDecodeFeed = fmt.Errorf("failed to decode word feed")
	ErrFetchFeed  = fmt.Errorf("failed to fetch word feed")
)

// Document is the wire format of a word feed: entries grouped by
// severity tier. Entry severities are implied by the tier they sit in.
type Document struct {
	Mild     []moderate.Entry `json:"mild,omitempty"`
	Moderate []moderate.Entry `json:"moderate,omitempty"`
	Severe   []moderate.Entry `json:"severe,omitempty"`
	Extreme  []moderate.Entry `json:"extreme,omitempty"`
}

// Tier returns the entries of one severity tier with their severity
// field filled in.
func (d *Document) Tier(severity moderate.Severity) []moderate.Entry {
	var tier []moderate.Entry
	switch severity {
	case moderate.SeverityMild:
		tier = d.Mild
	case moderate.SeverityModerate:
		tier = d.Moderate
	case moderate.SeveritySevere:
		tier = d.Severe
	case moderate.SeverityExtreme:
		tier = d.Extreme
	}

	out := make([]moderate.Entry, 0, len(tier))
	for _, e := range tier {
		e.Severity = severity
		out = append(out, e)
	}
	return out
}

// Source supplies word entries one severity tier at a time.
type Source interface {
	Load(ctx context.Context, severity moderate.Severity) ([]moderate.Entry, error)
}

// FileSource reads the feed document from a JSON file. The file is
// parsed once on first load and reused for subsequent tiers.
type FileSource struct {
	Path string

	doc *Document
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context, severity moderate.Severity) ([]moderate.Entry, error) {
	if s.doc == nil {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadFeed, s.Path, err)
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFeed, s.Path, err)
		}
		s.doc = &doc
	}

	return s.doc.Tier(severity), nil
}

// HTTPSource fetches the feed document from a URL. The response is
// decoded once on first load and reused for subsequent tiers.
type HTTPSource struct {
	URL    string
	Client *http.Client

	doc *Document
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Load(ctx context.Context, severity moderate.Severity) ([]moderate.Entry, error) {
	if s.doc == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFeed, err)
		}

		client := s.Client
		if client == nil {
			client = &http.Client{Timeout: 10 * time.Second}
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFeed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s returned status %d", ErrFetchFeed, s.URL, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFeed, err)
		}

		var doc Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFeed, s.URL, err)
		}
		s.doc = &doc
	}

	return s.doc.Tier(severity), nil
}

// Fill imports the requested tiers from src into the engine and
// returns the number of entries imported. With no tiers given it
// imports every tier the engine's current level blocks.
func Fill(ctx context.Context, e *moderate.Engine, src Source, tiers ...moderate.Severity) (int, error) {
	if len(tiers) == 0 {
		for _, sev := range moderate.Severities() {
			if e.Level().Blocks(sev) {
				tiers = append(tiers, sev)
			}
		}
	}

	total := 0
	for _, tier := range tiers {
		entries, err := src.Load(ctx, tier)
		if err != nil {
			return total, err
		}
		e.ImportEntries(entries)
		total += len(entries)
	}
	return total, nil
}
