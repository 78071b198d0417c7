package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/chronicle/internal/model"
)

func fakeLoader(fail map[string]bool) Loader {
	return LoaderFunc(func(ctx context.Context, location string) (*model.Report, error) {
		time.Sleep(5 * time.Millisecond)
		if fail[location] {
			return nil, errors.New("load error")
		}
		return &model.Report{Source: location, Summary: model.Summary{Total: len(location)}}, nil
	})
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessLocations(t *testing.T) {
	processor := NewBatchProcessor(fakeLoader(nil), 2, nil)
	locations := []string{"a.csv", "https://example.com/b.csv", "c.csv", "d.csv", "e.csv"}

	results := processor.ProcessLocations(context.Background(), locations)
	if len(results) != len(locations) {
		t.Fatalf("expected %d results, got %d", len(locations), len(results))
	}

	for i, res := range results {
		if res.Location != locations[i] {
			t.Errorf("result %d: expected %s, got %s", i, locations[i], res.Location)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Location, res.Error)
		}
		if res.Report == nil || res.Report.Source != locations[i] {
			t.Errorf("missing report for %s", res.Location)
		}
	}
}

func TestBatchProcessor_ProcessLocations_Error(t *testing.T) {
	processor := NewBatchProcessor(fakeLoader(map[string]bool{"bad.csv": true}), 2, nil)

	results := processor.ProcessLocations(context.Background(), []string{"good.csv", "bad.csv"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("unexpected error: %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Error("expected error and nil report for bad.csv")
	}
}

func TestBatchProcessor_ProcessLocations_Empty(t *testing.T) {
	processor := NewBatchProcessor(fakeLoader(nil), 2, nil)
	if results := processor.ProcessLocations(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_WithLimiter(t *testing.T) {
	processor := NewBatchProcessor(fakeLoader(nil), 2, NewLimiter(1000, 10))
	results := processor.ProcessLocations(context.Background(), []string{"https://example.com/a.csv", "local.csv"})
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Location, res.Error)
		}
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeFile(t, "a.csv\nhttps://example.com/b.csv\n# comment\n\nc.csv\n")
	processor := NewBatchProcessor(fakeLoader(nil), 2, nil)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(fakeLoader(nil), 2, nil)
	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestReadLocationsFromFile(t *testing.T) {
	path := writeFile(t, "a.csv\n# comment\nhttps://example.com/b.csv\n   \n  c.csv   \na.csv\n")

	locations, err := ReadLocationsFromFile(path)
	if err != nil {
		t.Fatalf("ReadLocationsFromFile failed: %v", err)
	}

	expected := []string{"a.csv", "https://example.com/b.csv", "c.csv"}
	if len(locations) != len(expected) {
		t.Fatalf("expected %d locations, got %d", len(expected), len(locations))
	}
	for i, loc := range locations {
		if loc != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, loc)
		}
	}
}

func TestLoadResult_GetError(t *testing.T) {
	if (&LoadResult{}).GetError() != nil {
		t.Error("expected nil error")
	}
	want := errors.New("load failed")
	if got := (&LoadResult{Error: want}).GetError(); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
