// Copyright (c) 2024 Mr. Gecko's Media (James Coleman). http://mrgeckosmedia.com/
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package selfupdate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const httpManifest = `
releases:
  - tag_name: v1.2.0
    url: v1.2.0/
    release_notes: Older release
    assets:
      - name: configurator-1.2.0.zip
        url: v1.2.0/configurator-1.2.0.zip
  - tag_name: v1.10.0
    url: https://example.com/keyflight/configurator/v1.10.0
    release_notes: Latest release
    source_archive_url: v1.10.0/source.zip
    assets:
      - name: configurator-1.10.0.zip
        size: 1024
        url: v1.10.0/configurator-1.10.0.zip
  - tag_name: v2.0.0
    draft: true
  - tag_name: v3.0.0-beta.1
  - tag_name: not-a-version
`

// Test server for testing http repos.
func newHttpRepoTestServer(t *testing.T, manifest string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repo/keyflight/configurator/manifest.yaml", func(w http.ResponseWriter, r *http.Request) {
		if manifest == "" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, manifest)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHttpClientInvalidURL(t *testing.T) {
	_, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: ":this is not a URL"})
	assert.Error(t, err)
}

func TestHttpClientEmptyURL(t *testing.T) {
	_, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator")})
	assert.Error(t, err)
}

func TestHttpClientInvalidRepository(t *testing.T) {
	_, err := NewHttpSource(HttpConfig{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestHttpLatestRelease(t *testing.T) {
	server := newHttpRepoTestServer(t, httpManifest)
	source, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: server.URL + "/repo/"})
	require.NoError(t, err)

	rel, err := source.LatestRelease(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1.10.0", rel.GetTagName())
	assert.Equal(t, "Latest release", rel.GetReleaseNotes())
	assert.Equal(t, "https://example.com/keyflight/configurator/v1.10.0", rel.GetURL())
	assert.Equal(t, server.URL+"/repo/keyflight/configurator/v1.10.0/source.zip", rel.GetSourceArchiveURL())
	require.Len(t, rel.GetAssets(), 1)
	assert.Equal(t, 1024, rel.GetAssets()[0].GetSize())
	assert.Equal(t, server.URL+"/repo/keyflight/configurator/v1.10.0/configurator-1.10.0.zip", rel.GetAssets()[0].GetBrowserDownloadURL())

	assert.Equal(t, server.URL+"/repo/keyflight/configurator", source.ReleasesURL())
}

func TestHttpLatestReleaseNoManifest(t *testing.T) {
	server := newHttpRepoTestServer(t, "")
	source, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: server.URL + "/repo/"})
	require.NoError(t, err)

	_, err = source.LatestRelease(context.Background())
	assert.ErrorIs(t, err, ErrNoReleases)
}

func TestHttpLatestReleaseOnlyDrafts(t *testing.T) {
	server := newHttpRepoTestServer(t, "releases:\n  - tag_name: v1.0.0\n    draft: true\n")
	source, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: server.URL + "/repo/"})
	require.NoError(t, err)

	_, err = source.LatestRelease(context.Background())
	assert.ErrorIs(t, err, ErrNoReleases)
}

func TestHttpLatestReleaseInvalidManifest(t *testing.T) {
	server := newHttpRepoTestServer(t, "releases: [this is: not: valid")
	source, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: server.URL + "/repo/"})
	require.NoError(t, err)

	_, err = source.LatestRelease(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoReleases)
}

func TestHttpLatestReleaseContextCancelled(t *testing.T) {
	server := newHttpRepoTestServer(t, httpManifest)
	source, err := NewHttpSource(HttpConfig{Repository: ParseSlug("keyflight/configurator"), BaseURL: server.URL + "/repo/"})
	require.NoError(t, err)

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()

	_, err = source.LatestRelease(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
