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
	"net/url"

	"github.com/Masterminds/semver/v3"
	yaml "gopkg.in/yaml.v3"
)

// HttpManifest is the content of the manifest.yaml file published next to the releases
type HttpManifest struct {
	Releases []*HttpRelease `yaml:"releases"`
}

// HttpConfig is an object to pass to NewHttpSource
type HttpConfig struct {
	// Repository is the "owner/name" directory holding the manifest on the server
	Repository Repository
	// BaseURL is a base URL of your update server. This parameter has NO default value.
	BaseURL string
	// HTTP Transport Config
	Transport http.RoundTripper
	// Additional headers
	Headers http.Header
}

// HttpSource is used to load release information from an http repository:
// a manifest.yaml file served at {BaseURL}/{owner}/{repo}/manifest.yaml
type HttpSource struct {
	baseURL   string
	owner     string
	repo      string
	transport http.RoundTripper
	headers   http.Header
}

// NewHttpSource creates a new HttpSource from a config object.
func NewHttpSource(config HttpConfig) (*HttpSource, error) {
	if config.Repository == nil {
		return nil, ErrInvalidSlug
	}
	owner, repo, err := config.Repository.GetSlug()
	if err != nil {
		return nil, err
	}
	// Validate Base URL.
	if config.BaseURL == "" {
		return nil, fmt.Errorf("http base url must be set")
	}
	_, perr := url.ParseRequestURI(config.BaseURL)
	if perr != nil {
		return nil, perr
	}

	// Setup standard transport if not set.
	if config.Transport == nil {
		config.Transport = &http.Transport{}
	}

	return &HttpSource{
		baseURL:   config.BaseURL,
		owner:     owner,
		repo:      repo,
		transport: config.Transport,
		headers:   config.Headers,
	}, nil
}

// Returns a full URI for a relative path URI.
func (s *HttpSource) uriRelative(uri string) string {
	// If URI is blank, its blank.
	if uri != "" {
		// If we're able to parse the URI, a full URI is already defined.
		_, perr := url.ParseRequestURI(uri)
		if perr != nil {
			// Join the paths if possible to make a full URI.
			newURL, jerr := url.JoinPath(s.baseURL, s.owner, s.repo, uri)
			if jerr == nil {
				uri = newURL
			}
		}
	}
	return uri
}

// LatestRelease loads the manifest and returns the release with the highest semantic version.
// Drafts, pre-releases and releases with an invalid tag are ignored.
func (s *HttpSource) LatestRelease(ctx context.Context) (SourceRelease, error) {
	manifest, err := s.loadManifest(ctx)
	if err != nil {
		return nil, err
	}

	var (
		latest        *HttpRelease
		latestVersion *semver.Version
	)
	for _, release := range manifest.Releases {
		if release == nil || release.Draft || release.Prerelease {
			continue
		}
		version, err := semver.NewVersion(release.TagName)
		if err != nil {
			log.Printf("Ignoring release %q: %s", release.TagName, err)
			continue
		}
		if version.Prerelease() != "" {
			continue
		}
		if latestVersion == nil || version.GreaterThan(latestVersion) {
			latest = release
			latestVersion = version
		}
	}
	if latest == nil {
		return nil, ErrNoReleases
	}

	// Update URLs to relative path with repository.
	latest.URL = s.uriRelative(latest.URL)
	latest.SourceArchiveURL = s.uriRelative(latest.SourceArchiveURL)
	for _, asset := range latest.Assets {
		asset.URL = s.uriRelative(asset.URL)
	}
	return latest, nil
}

func (s *HttpSource) loadManifest(ctx context.Context) (*HttpManifest, error) {
	// Make repository URI.
	uri, err := url.JoinPath(s.baseURL, s.owner, s.repo, "manifest.yaml")
	if err != nil {
		return nil, err
	}

	client := &http.Client{Transport: s.transport}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header = s.headers.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", DefaultUserAgent)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		log.Print("Manifest not found. No release published yet")
		return nil, ErrNoReleases
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status code %d", res.StatusCode)
	}

	manifest := new(HttpManifest)
	if err := yaml.NewDecoder(res.Body).Decode(manifest); err != nil {
		return nil, fmt.Errorf("cannot decode manifest: %w", err)
	}
	return manifest, nil
}

// ReleasesURL returns the directory holding the manifest
func (s *HttpSource) ReleasesURL() string {
	uri, err := url.JoinPath(s.baseURL, s.owner, s.repo)
	if err != nil {
		return s.baseURL
	}
	return uri
}

// Verify interface
var _ Source = &HttpSource{}
