package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/imroc/req"
	"github.com/inconshreveable/go-update"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/httputil"
)

const DefaultReleaseURL = "https://api.github.com/repos/galacticworkshop/steam-depot-uploader/releases/latest"

// GitHubReleaseFetcher reads the latest release from the GitHub API.
type GitHubReleaseFetcher struct {
	URL    string
	client *http.Client
}

func NewGitHubReleaseFetcher(url string) *GitHubReleaseFetcher {
	if url == "" {
		url = DefaultReleaseURL
	}
	return &GitHubReleaseFetcher{URL: url, client: cleanhttp.DefaultClient()}
}

func (f *GitHubReleaseFetcher) FetchLatest(ctx context.Context) (entity.GitHubRelease, error) {
	var release entity.GitHubRelease
	header := req.Header{"Accept": "application/vnd.github+json"}
	resp, err := req.Get(f.URL, header, f.client, ctx)
	if err != nil {
		return release, err
	}
	if err := httputil.CheckStatus(resp.Response().StatusCode); err != nil {
		resp.Response().Body.Close()
		return release, fmt.Errorf("%s: %w", f.URL, err)
	}
	if err := resp.ToJSON(&release); err != nil {
		return release, fmt.Errorf("failed to decode release: %w", err)
	}
	return release, nil
}

func (f *GitHubReleaseFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return resp.Body, nil
}

// SelfUpdateApplier swaps the running executable.
type SelfUpdateApplier struct{}

func (SelfUpdateApplier) Apply(reader io.Reader) error {
	return update.Apply(reader, update.Options{})
}
