package source

import (
	"context"
	"fmt"

	"github.com/ppiankov/chronicle/internal/dataset"
)

// HTMLTableSource turns an HTML page into dataset text by reading its first table
type HTMLTableSource struct {
	inner Source
}

func NewHTMLTableSource(inner Source) *HTMLTableSource {
	return &HTMLTableSource{inner: inner}
}

func (s *HTMLTableSource) FetchRawText(ctx context.Context) (string, error) {
	page, err := s.inner.FetchRawText(ctx)
	if err != nil {
		return "", err
	}

	text, err := dataset.FromHTMLTable(page)
	if err != nil {
		return "", fmt.Errorf("convert table from %s: %w", s.inner.Name(), err)
	}
	return text, nil
}

func (s *HTMLTableSource) Name() string { return s.inner.Name() }
