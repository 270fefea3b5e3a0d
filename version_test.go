package selfupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	for _, fixture := range []struct {
		v1, v2 string
		result int
	}{
		{"1.3.0", "1.2.0", 1},
		{"1.2.0", "1.3.0", -1},
		{"1.2", "1.2.0", 0},
		{"1", "1.0.0", 0},
		{"1.2.3.4", "1.2.3", 0},
		{"v1.10.0", "1.9.9", 1},
		{"2.0.0", "10.0.0", -1},
		{"abc", "1.0.0", 0},
		{"1.0.0", "1.x.0", 0},
		{"", "0.0.1", 0},
	} {
		t.Run(fixture.v1+"_"+fixture.v2, func(t *testing.T) {
			assert.Equal(t, fixture.result, CompareVersions(fixture.v1, fixture.v2))
		})
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("v1.2")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2}, v)
	assert.Equal(t, "1.2.0", v.String())

	v, err = ParseVersion(" 3.4.5.6 ")
	require.NoError(t, err)
	assert.Equal(t, "3.4.5", v.String())
}

func TestParseInvalidVersion(t *testing.T) {
	for _, text := range []string{"abc", "1.-2.0", "1..2", "1.2.3-rc1", ""} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseVersion(text)
			assert.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "1.3.0", normalizeTag("v1.3.0"))
	assert.Equal(t, "1.3.0", normalizeTag("1.3.0"))
}
