package repository

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/imroc/req"

	"github.com/galacticworkshop/steam-depot-uploader/pkg/httputil"
)

// HTTPDownloader fetches files over HTTP into the local filesystem.
type HTTPDownloader struct {
	MaxAttempts int
	RetryDelay  time.Duration

	client *http.Client
}

func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
		client:      cleanhttp.DefaultClient(),
	}
}

func (d *HTTPDownloader) Download(ctx context.Context, url, dest string, onProgress func(current, total int64)) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	return httputil.Retry(ctx, d.MaxAttempts, d.RetryDelay, func(attempt, maxAttempts int, err error) {
		log.Printf("[Download] attempt %d/%d failed: %v", attempt, maxAttempts, err)
	}, func(int) error {
		return d.download(ctx, url, dest, onProgress)
	})
}

func (d *HTTPDownloader) download(ctx context.Context, url, dest string, onProgress func(current, total int64)) error {
	params := []interface{}{d.client, ctx}
	if onProgress != nil {
		params = append(params, req.DownloadProgress(onProgress))
	}

	resp, err := req.Get(url, params...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	if err := httputil.CheckStatus(resp.Response().StatusCode); err != nil {
		resp.Response().Body.Close()
		return fmt.Errorf("failed to download %s: %w", url, err)
	}

	if err := resp.ToFile(dest); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}
	return nil
}
