// Package uploader puts every regular file of a directory tree into a bucket,
// keyed by its slash-separated path relative to the tree root.
package uploader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/yuya-takeyama/doge-s3-deploy/internal/logging"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/s3client"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/walker"
)

// maxInFlight bounds how many files are held in memory and uploading at once.
// Directory recursion does not take a slot.
const maxInFlight = 64

// Options configures an Uploader
type Options struct {
	Bucket            string
	Prefix            string
	Root              string // local path used in reports and logs only
	Matcher           *walker.Matcher
	DryRun            bool
	DetectContentType bool
	Logger            *logging.Logger
}

// Uploader walks a tree and uploads its files
type Uploader struct {
	client s3client.Client
	opts   Options
	logger *logging.Logger
	slots  chan struct{}
}

// New creates an Uploader. client may be nil in dry-run mode.
func New(client s3client.Client, opts Options) *Uploader {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Uploader{
		client: client,
		opts:   opts,
		logger: logger,
		slots:  make(chan struct{}, maxInFlight),
	}
}

// UploadDirectory uploads the tree rooted at root into bucket
func UploadDirectory(ctx context.Context, root string, client s3client.Client, bucket string, opts Options) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	opts.Bucket = bucket
	opts.Root = root
	return New(client, opts).UploadDirectory(ctx, os.DirFS(root)), nil
}

// UploadDirectory uploads every regular file in fsys. Failures are logged and
// recorded in the report; they never stop other uploads.
func (u *Uploader) UploadDirectory(ctx context.Context, fsys fs.FS) *Report {
	report := newReport()
	u.uploadDir(ctx, fsys, ".", report)
	report.finish()
	return report
}

// uploadDir returns once every entry below dir has been attempted
func (u *Uploader) uploadDir(ctx context.Context, fsys fs.FS, dir string, report *Report) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		listErr := &ListError{Dir: u.localPath(dir), Err: err}
		u.logger.Error("%v", listErr)
		report.addListError(listErr)
		return
	}

	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(entry fs.DirEntry) {
			defer wg.Done()

			rel := path.Join(dir, entry.Name())
			isDir, isRegular := entryKind(fsys, rel, entry)

			switch {
			case isDir:
				if u.opts.Matcher.IsExcluded(rel, true) {
					u.logger.Debug("exclude: %s/", rel)
					report.addSkipped()
					return
				}
				u.uploadDir(ctx, fsys, rel, report)
			case isRegular:
				if u.opts.Matcher.IsExcluded(rel, false) {
					u.logger.Debug("exclude: %s", rel)
					report.addSkipped()
					return
				}
				u.uploadFile(ctx, fsys, rel, report)
			default:
				u.logger.Debug("skip non-regular file: %s", rel)
				report.addSkipped()
			}
		}(entry)
	}

	wg.Wait()
}

// uploadFile reads one file and puts it under its object key
func (u *Uploader) uploadFile(ctx context.Context, fsys fs.FS, rel string, report *Report) {
	task := UploadTask{
		LocalPath: u.localPath(rel),
		Key:       walker.ObjectKey(u.opts.Prefix, rel),
	}

	select {
	case u.slots <- struct{}{}:
	case <-ctx.Done():
		u.fail(task, ctx.Err(), report)
		return
	}
	defer func() { <-u.slots }()

	body, err := fs.ReadFile(fsys, rel)
	if err != nil {
		u.fail(task, fmt.Errorf("read file: %w", err), report)
		return
	}
	task.Size = int64(len(body))
	task.ContentType = resolveContentType(rel, body, u.opts.DetectContentType)

	if u.opts.DryRun {
		u.logger.Info("upload (dryrun): %s to s3://%s/%s", task.LocalPath, u.opts.Bucket, task.Key)
		report.add(Result{Task: task, DryRun: true})
		return
	}

	err = u.client.PutObject(ctx, &s3client.PutObjectRequest{
		Bucket:      u.opts.Bucket,
		Key:         task.Key,
		Body:        body,
		ContentType: task.ContentType,
	})
	if err != nil {
		u.fail(task, err, report)
		return
	}

	u.logger.Uploaded(task.Key, task.ContentType, task.Size)
	report.add(Result{Task: task})
}

func (u *Uploader) fail(task UploadTask, err error, report *Report) {
	uploadErr := &UploadError{Key: task.Key, Err: err}
	u.logger.UploadFailed(task.Key, err)
	report.add(Result{Task: task, Error: uploadErr})
}

func (u *Uploader) localPath(rel string) string {
	if u.opts.Root == "" {
		return rel
	}
	return filepath.Join(u.opts.Root, filepath.FromSlash(rel))
}

// entryKind reports whether entry is a directory or a regular file, following
// symlinks the way a stat would
func entryKind(fsys fs.FS, rel string, entry fs.DirEntry) (isDir, isRegular bool) {
	if entry.IsDir() {
		return true, false
	}
	if entry.Type().IsRegular() {
		return false, true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, false
	}

	info, err := fs.Stat(fsys, rel)
	if err != nil {
		return false, false
	}
	return info.IsDir(), info.Mode().IsRegular()
}
