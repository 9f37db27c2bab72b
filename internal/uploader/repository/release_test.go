package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubReleaseFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"url": "https://api.github.com/repos/x/y/releases/1",
			"tag_name": "v1.4.0",
			"assets": [{"name": "depot-uploader-linux-amd64", "browser_download_url": "http://example.invalid/bin"}]
		}`))
	})
	mux.HandleFunc("/bin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new binary"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewGitHubReleaseFetcher(server.URL + "/releases/latest")
	release, err := fetcher.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", release.TagName)
	assetURL, ok := release.AssetURL("depot-uploader-linux-amd64")
	assert.True(t, ok)
	assert.Equal(t, "http://example.invalid/bin", assetURL)

	body, err := fetcher.Download(context.Background(), server.URL+"/bin")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "new binary", string(data))

	_, err = fetcher.Download(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

func TestGitHubReleaseFetcher_DefaultURL(t *testing.T) {
	assert.Equal(t, DefaultReleaseURL, NewGitHubReleaseFetcher("").URL)
}
