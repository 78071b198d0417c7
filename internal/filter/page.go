package filter

import "github.com/ppiankov/chronicle/internal/model"

// DefaultPageSize is used when a non-positive page size is requested
const DefaultPageSize = 10

// Page is one window of a filtered record sequence
type Page struct {
	Items []model.Record `json:"items"`
	Page  int            `json:"page"`  // Zero-based page index
	Size  int            `json:"size"`  // Requested page size
	Total int            `json:"total"` // Records across all pages
	Pages int            `json:"pages"` // Number of pages
}

// Paginate slices records into the zero-based page of the given size.
// Pages past the end are empty rather than an error.
func Paginate(records []model.Record, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	p := Page{
		Items: []model.Record{},
		Page:  page,
		Size:  size,
		Total: len(records),
		Pages: len(records) / size,
	}
	if len(records)%size != 0 {
		p.Pages++
	}

	// Checked before multiplying so huge page numbers cannot overflow
	if page >= p.Pages {
		return p
	}
	start := page * size
	end := start + min(size, len(records)-start)

	p.Items = records[start:end]
	return p
}

// HasNext reports whether another page follows this one
func (p Page) HasNext() bool {
	return p.Page < p.Pages-1
}
