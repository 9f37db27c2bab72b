package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

type memStore struct {
	values map[string]string
	setErr error
}

func newMemStore(kv ...string) *memStore {
	s := &memStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memStore) Get(key, defaultValue string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return defaultValue
}

func (s *memStore) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.values, key)
	return nil
}

type fakeStream struct {
	lines    []systemutil.Line
	idx      int
	exitCode int
	waitErr  error
}

func (s *fakeStream) Next() bool {
	if s.idx >= len(s.lines) {
		return false
	}
	s.idx++
	return true
}

func (s *fakeStream) Line() systemutil.Line {
	return s.lines[s.idx-1]
}

func (s *fakeStream) Wait() (int, error) {
	return s.exitCode, s.waitErr
}

func stdout(lines ...string) []systemutil.Line {
	out := make([]systemutil.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, systemutil.Line{Text: l})
	}
	return out
}

type runCall struct {
	executable string
	workDir    string
	args       []string
}

type fakeRunner struct {
	stream   *fakeStream
	startErr error
	onStart  func(call runCall)
	calls    []runCall
}

func (r *fakeRunner) Start(ctx context.Context, executable, workDir string, args ...string) (OutputStream, error) {
	call := runCall{executable: executable, workDir: workDir, args: args}
	r.calls = append(r.calls, call)
	if r.startErr != nil {
		return nil, r.startErr
	}
	if r.onStart != nil {
		r.onStart(call)
	}
	if r.stream == nil {
		return &fakeStream{}, nil
	}
	return r.stream, nil
}

type fakeDownloader struct {
	err error
}

func (d *fakeDownloader) Download(ctx context.Context, url, dest string, onProgress func(current, total int64)) error {
	if d.err != nil {
		return d.err
	}
	onProgress(50, 100)
	onProgress(100, 100)
	return os.WriteFile(dest, []byte("archive"), 0644)
}

type fakeExtractor struct {
	files map[string]string
	err   error
}

func (e *fakeExtractor) Extract(archivePath, destDir string) error {
	for name, content := range e.files {
		if err := os.WriteFile(filepath.Join(destDir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return e.err
}

type fakeTool struct {
	installation entity.ToolInstallation
}

func (f fakeTool) Installation() entity.ToolInstallation {
	return f.installation
}

type fakeHistory struct {
	recorded []entity.UploadResult
}

func (h *fakeHistory) RecordUpload(result entity.UploadResult) error {
	h.recorded = append(h.recorded, result)
	return nil
}

func (h *fakeHistory) GetUpload(id string) (entity.UploadResult, error) {
	for _, r := range h.recorded {
		if r.ID == id {
			return r, nil
		}
	}
	return entity.UploadResult{}, errors.New("not found")
}

func (h *fakeHistory) GetRecentUploads(limit int) ([]entity.UploadResult, error) {
	out := []entity.UploadResult{}
	for i := len(h.recorded) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.recorded[i])
	}
	return out, nil
}

type fakeNotifier struct {
	notified []entity.UploadResult
}

func (n *fakeNotifier) NotifyUpload(result entity.UploadResult) {
	n.notified = append(n.notified, result)
}

type fakePrompter struct {
	code    string
	reasons []string
}

func (p *fakePrompter) PromptAuthCode(reason string) (string, error) {
	p.reasons = append(p.reasons, reason)
	return p.code, nil
}

type fakeBuilder struct {
	err    error
	called bool
}

func (b *fakeBuilder) Build(ctx context.Context, outputDir string) error {
	b.called = true
	if b.err != nil {
		return b.err
	}
	return os.MkdirAll(outputDir, 0755)
}

type fakeFetcher struct {
	release  entity.GitHubRelease
	fetchErr error
	body     string
	fetched  []string
}

func (f *fakeFetcher) FetchLatest(ctx context.Context) (entity.GitHubRelease, error) {
	return f.release, f.fetchErr
}

func (f *fakeFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	f.fetched = append(f.fetched, url)
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type fakeApplier struct {
	applied string
	err     error
}

func (a *fakeApplier) Apply(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	a.applied = string(data)
	return a.err
}

// installedTool lays out a directory that passes the installed heuristic.
func installedTool(t *testing.T) entity.ToolInstallation {
	t.Helper()
	dir := t.TempDir()
	inst := entity.NewToolInstallation(dir, "steamcmd.sh")
	require.NoError(t, os.WriteFile(inst.ExecutablePath, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "steamclient.so"), []byte("lib"), 0644))
	return inst
}
