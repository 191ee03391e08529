package uploader

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"sync"
	"testing/fstest"

	"github.com/yuya-takeyama/doge-s3-deploy/internal/s3client"
)

// mockS3Client is a mock implementation of s3client.Client for testing
type mockS3Client struct {
	mu            sync.Mutex
	puts          []s3client.PutObjectRequest
	putObjectFunc func(ctx context.Context, req *s3client.PutObjectRequest) error
}

func (m *mockS3Client) PutObject(ctx context.Context, req *s3client.PutObjectRequest) error {
	m.mu.Lock()
	m.puts = append(m.puts, *req)
	m.mu.Unlock()

	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, req)
	}
	return nil
}

// calls returns recorded puts sorted by key
func (m *mockS3Client) calls() []s3client.PutObjectRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := append([]s3client.PutObjectRequest(nil), m.puts...)
	sort.Slice(calls, func(i, j int) bool { return calls[i].Key < calls[j].Key })
	return calls
}

func (m *mockS3Client) keys() []string {
	var keys []string
	for _, c := range m.calls() {
		keys = append(keys, c.Key)
	}
	return keys
}

// failingDirFS wraps a MapFS and fails to list the named directories
type failingDirFS struct {
	fstest.MapFS
	failDirs map[string]bool
}

var errPermission = errors.New("permission denied")

func (f failingDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.failDirs[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errPermission}
	}
	return f.MapFS.ReadDir(name)
}
