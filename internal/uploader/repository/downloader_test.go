package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticworkshop/steam-depot-uploader/pkg/httputil"
)

func TestHTTPDownloader_Download(t *testing.T) {
	payload := strings.Repeat("steamcmd", 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write([]byte(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "steamcmd.zip")
	var last, total int64
	err := NewHTTPDownloader().Download(context.Background(), server.URL+"/steamcmd.zip", dest, func(current, size int64) {
		last, total = current, size
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Equal(t, int64(len(payload)), last)
	assert.Equal(t, int64(len(payload)), total)
}

func TestHTTPDownloader_DownloadNotFound(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	defer server.Close()

	downloader := NewHTTPDownloader()
	downloader.RetryDelay = 0

	dest := filepath.Join(t.TempDir(), "steamcmd.zip")
	err := downloader.Download(context.Background(), server.URL, dest, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, httputil.HTTPStatusError{StatusCode: http.StatusNotFound})
	assert.Equal(t, 3, hits)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
