package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/railvoice/internal/model"
)

// Classifier turns one audio clip into a result
type Classifier interface {
	ClassifyFile(ctx context.Context, path string) (*model.Result, error)
}

// ClipJob classifies a single clip
type ClipJob struct {
	Index      int
	Path       string
	Classifier Classifier
	Limiter    *Limiter
	LimitKey   string
}

// Execute executes the clip job
func (j *ClipJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.LimitKey); err != nil {
			return &ClipResult{Index: j.Index, Path: j.Path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Classifier.ClassifyFile(ctx, j.Path)
	return &ClipResult{
		Index:  j.Index,
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// ClipResult represents the outcome of a clip job
type ClipResult struct {
	Index  int
	Path   string
	Result *model.Result
	Error  error
}

// GetError returns the error from the clip result
func (r *ClipResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies many clips concurrently
type BatchProcessor struct {
	classifier  Classifier
	concurrency int
	limiter     *Limiter
	limitKey    string
	onResult    func(*ClipResult)
}

// NewBatchProcessor creates a new batch processor.
// limiter may be nil for local backends.
func NewBatchProcessor(classifier Classifier, concurrency int, limiter *Limiter, limitKey string) *BatchProcessor {
	return &BatchProcessor{
		classifier:  classifier,
		concurrency: concurrency,
		limiter:     limiter,
		limitKey:    limitKey,
	}
}

// OnResult registers a callback invoked as each clip finishes (from the collecting goroutine)
func (b *BatchProcessor) OnResult(fn func(*ClipResult)) {
	b.onResult = fn
}

// ProcessClips classifies clips and returns results in input order
func (b *BatchProcessor) ProcessClips(ctx context.Context, paths []string) []*ClipResult {
	if len(paths) == 0 {
		return []*ClipResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	submitted := make(chan int, 1)
	go func() {
		n := 0
		for i, path := range paths {
			job := &ClipJob{
				Index:      i,
				Path:       path,
				Classifier: b.classifier,
				Limiter:    b.limiter,
				LimitKey:   b.limitKey,
			}
			if err := pool.Submit(job); err != nil {
				break
			}
			n++
		}
		pool.CloseQueue()
		submitted <- n
	}()

	out := make([]*ClipResult, len(paths))
	for r := range pool.Results() {
		cr := r.(*ClipResult)
		out[cr.Index] = cr
		if b.onResult != nil {
			b.onResult(cr)
		}
	}
	<-submitted

	// clips never run because the context ended
	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = ErrPoolClosed
			}
			out[i] = &ClipResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return out
}

// ProcessDir classifies every clip with the given extension in dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir, ext string) ([]*ClipResult, error) {
	paths, err := ReadClips(dir, ext)
	if err != nil {
		return nil, fmt.Errorf("read clips: %w", err)
	}
	return b.ProcessClips(ctx, paths), nil
}

// ReadClips lists files in dir with extension ext (case-insensitive), sorted by name
func ReadClips(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	suffix := "." + strings.TrimPrefix(strings.ToLower(ext), ".")

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext != "" && !strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadClipList reads clip paths from a file (one per line, # comments allowed)
func ReadClipList(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
