package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/chronicle/internal/model"
)

// Loader loads one dataset location and summarizes it
type Loader interface {
	Load(ctx context.Context, location string) (*model.Report, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, location string) (*model.Report, error)

func (f LoaderFunc) Load(ctx context.Context, location string) (*model.Report, error) {
	return f(ctx, location)
}

// LoadJob loads a single location
type LoadJob struct {
	Index    int
	Location string
	Loader   Loader
	Limiter  *Limiter
}

func (j *LoadJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &LoadResult{Index: j.Index, Location: j.Location}

	if j.Limiter != nil && isRemote(j.Location) {
		if err := j.Limiter.Wait(ctx, j.Location); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Report, res.Error = j.Loader.Load(ctx, j.Location)
	res.Duration = time.Since(start)
	return res
}

// LoadResult is the outcome of a LoadJob
type LoadResult struct {
	Index    int
	Location string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

func (r *LoadResult) GetError() error {
	return r.Error
}

// BatchProcessor loads many dataset locations concurrently
type BatchProcessor struct {
	loader      Loader
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a processor. When limiter is non-nil every remote
// location waits on it per host before loading; pass it for loaders that do
// not pace their own requests. A nil limiter disables pacing, which is what
// callers whose loader already waits on a shared limiter want.
func NewBatchProcessor(loader Loader, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		loader:      loader,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessLocations loads every location and returns results in input order
func (b *BatchProcessor) ProcessLocations(ctx context.Context, locations []string) []*LoadResult {
	if len(locations) == 0 {
		return []*LoadResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	out := make([]*LoadResult, 0, len(locations))
	for i, loc := range locations {
		job := &LoadJob{Index: i, Location: loc, Loader: b.loader, Limiter: b.limiter}
		pool.Submit(job)
	}

	done := make(map[int]bool, len(locations))
	for _, r := range pool.Wait() {
		lr := r.(*LoadResult)
		done[lr.Index] = true
		out = append(out, lr)
	}
	// Jobs still queued when ctx was cancelled never ran
	for i, loc := range locations {
		if !done[i] && ctx.Err() != nil {
			out = append(out, &LoadResult{Index: i, Location: loc, Error: ctx.Err()})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads locations from a file and loads them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*LoadResult, error) {
	locations, err := ReadLocationsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	return b.ProcessLocations(ctx, locations), nil
}

// ReadLocationsFromFile reads one URL or path per line.
// Blank lines and # comments are skipped; duplicates keep their first position.
func ReadLocationsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var locations []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			locations = append(locations, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return locations, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
