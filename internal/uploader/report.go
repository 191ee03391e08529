package uploader

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yuya-takeyama/doge-s3-deploy/internal/logging"
)

// UploadTask is a single file mapped to its object key
type UploadTask struct {
	LocalPath   string
	Key         string
	ContentType string
	Size        int64
}

// Result represents the outcome of one upload attempt
type Result struct {
	Task   UploadTask
	Error  error
	DryRun bool
}

// Report collects results from concurrent uploads
type Report struct {
	mu         sync.Mutex
	results    []Result
	listErrors []*ListError
	skipped    int64
	startedAt  time.Time
	finishedAt time.Time
}

func newReport() *Report {
	return &Report{startedAt: time.Now()}
}

func (r *Report) add(result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *Report) addListError(err *ListError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErrors = append(r.listErrors, err)
}

func (r *Report) addSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *Report) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishedAt = time.Now()
}

// Results returns every upload attempt sorted by key
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := append([]Result(nil), r.results...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Task.Key < results[j].Task.Key
	})
	return results
}

// ListErrors returns the directories that could not be listed
func (r *Report) ListErrors() []*ListError {
	r.mu.Lock()
	defer r.mu.Unlock()

	errs := append([]*ListError(nil), r.listErrors...)
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Dir < errs[j].Dir
	})
	return errs
}

// Summary calculates run totals
func (r *Report) Summary() logging.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := logging.Summary{
		ListErrors: int64(len(r.listErrors)),
		Skipped:    r.skipped,
		Duration:   r.finishedAt.Sub(r.startedAt),
	}
	for _, result := range r.results {
		if result.DryRun {
			s.DryRun = true
		}
		if result.Error != nil {
			s.Failed++
			continue
		}
		s.Uploaded++
		s.BytesUploaded += result.Task.Size
	}
	return s
}

// Err returns a non-nil error when any upload or listing failed
func (r *Report) Err() error {
	s := r.Summary()
	if s.Failed == 0 && s.ListErrors == 0 {
		return nil
	}
	return fmt.Errorf("upload completed with %d failed files and %d unreadable directories", s.Failed, s.ListErrors)
}
