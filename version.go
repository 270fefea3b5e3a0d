package selfupdate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultVersion is the version assumed when the installed version cannot be determined.
const DefaultVersion = "0.0.0"

// ErrInvalidVersion is returned by ParseVersion when a component is not a non-negative integer.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a dot-separated version such as "1.2.3".
// A leading "v" is accepted, components past the third are ignored
// and missing trailing components default to 0.
func ParseVersion(s string) (Version, error) {
	text := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(text, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	var components [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		components[i] = n
	}
	return Version{Major: components[0], Minor: components[1], Patch: components[2]}, nil
}

// String returns the normalized "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns 1 if v > other, -1 if v < other and 0 if both are equal.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

// CompareVersions compares two version strings.
// It returns 0 when either of them cannot be parsed.
func CompareVersions(v1, v2 string) int {
	ver1, err := ParseVersion(v1)
	if err != nil {
		log.Printf("Cannot compare versions: %s", err)
		return 0
	}
	ver2, err := ParseVersion(v2)
	if err != nil {
		log.Printf("Cannot compare versions: %s", err)
		return 0
	}
	return ver1.Compare(ver2)
}

// normalizeTag strips the leading "v" of a release tag.
func normalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
