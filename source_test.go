package selfupdate

import (
	"context"
	"sync/atomic"
)

// MockSource is a Source in memory used for unit tests
type MockSource struct {
	release     SourceRelease
	err         error
	releasesURL string
	calls       atomic.Int32
}

// NewMockSource instantiates a new MockSource returning the release (or the error)
func NewMockSource(release SourceRelease, err error) *MockSource {
	return &MockSource{
		release:     release,
		err:         err,
		releasesURL: "https://github.com/keyflight/configurator/releases",
	}
}

// LatestRelease returns the release or the error of the mock
func (s *MockSource) LatestRelease(ctx context.Context) (SourceRelease, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.release == nil {
		return nil, ErrNoReleases
	}
	return s.release, nil
}

// ReleasesURL returns a fixed URL
func (s *MockSource) ReleasesURL() string {
	return s.releasesURL
}

// Verify interface
var _ Source = &MockSource{}
