package selfupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidSlug(t *testing.T) {
	for _, slug := range []string{
		"foo",
		"/",
		"foo/",
		"/bar",
		"foo/bar/piyo",
	} {
		t.Run(slug, func(t *testing.T) {
			repo := ParseSlug(slug)

			_, _, err := repo.GetSlug()
			assert.Error(t, err)

			_, err = repo.Get()
			assert.Error(t, err)
		})
	}
}

func TestParseSlug(t *testing.T) {
	for _, text := range []string{"keyflight/configurator", "keyflight%2Fconfigurator"} {
		t.Run(text, func(t *testing.T) {
			slug := ParseSlug(text)

			owner, repo, err := slug.GetSlug()
			assert.NoError(t, err)
			assert.Equal(t, "keyflight", owner)
			assert.Equal(t, "configurator", repo)

			name, err := slug.Get()
			assert.NoError(t, err)
			assert.Equal(t, "keyflight/configurator", name)
		})
	}
}

func TestNewRepositorySlugErrors(t *testing.T) {
	_, _, err := NewRepositorySlug("", "repo").GetSlug()
	assert.ErrorIs(t, err, ErrIncorrectParameterOwner)

	_, _, err = NewRepositorySlug("owner", "").GetSlug()
	assert.ErrorIs(t, err, ErrIncorrectParameterRepo)

	_, _, err = NewRepositorySlug("", "").GetSlug()
	assert.ErrorIs(t, err, ErrInvalidSlug)
}
