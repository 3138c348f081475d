package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the database version a trained model generation is tagged
// with. The wire form is "(major, minor, patch)".
type Version struct {
	Major int
	Minor int
	Patch int
}

// DefaultVersion tags the first trained model.
var DefaultVersion = Version{0, 0, 1}

// Bump selects which version component a retrain increments.
type Bump int

const (
	BumpPatch Bump = iota
	BumpMinor
	BumpMajor
)

// ParseBump converts "patch", "minor" or "major" to a Bump.
func ParseBump(s string) (Bump, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "patch":
		return BumpPatch, nil
	case "minor":
		return BumpMinor, nil
	case "major":
		return BumpMajor, nil
	}
	return BumpPatch, fmt.Errorf("unknown version bump %q", s)
}

// ParseVersion parses the "(a, b, c)" wire form. Components must be
// non-negative integers.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
		return Version{}, fmt.Errorf("invalid version %q: missing parentheses", s)
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: want 3 components, got %d", s, len(parts))
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		if n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: negative component", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the wire form, e.g. "(0, 0, 1)".
func (v Version) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 when v is less than, equal to, or greater
// than o.
func (v Version) Compare(o Version) int {
	pairs := [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Next returns the version after incrementing the selected component.
// Incrementing major or minor zeroes the components below it.
func (v Version) Next(b Bump) Version {
	switch b {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
