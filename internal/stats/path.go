package stats

import (
	"strings"

	"shipping/estimator/internal/domain"
)

// PathParser turns a breadcrumb string into normalized category segments.
type PathParser struct {
	rootLabels map[string]struct{}
}

// NewPathParser returns a parser that strips any of rootLabels when it is
// the first segment of a path, e.g. "ホーム" or "Home".
func NewPathParser(rootLabels []string) *PathParser {
	labels := make(map[string]struct{}, len(rootLabels))
	for _, l := range rootLabels {
		l = normalizeSegment(l)
		if l != "" {
			labels[l] = struct{}{}
		}
	}
	return &PathParser{rootLabels: labels}
}

// Segments splits path on " > ", trims and lowercases every segment, drops
// empty ones and strips a leading root label. A bare ">" inside a segment
// is part of its name.
func (p *PathParser) Segments(path string) []string {
	raw := strings.Split(path, domain.CategoryPathSeparator)

	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		s = normalizeSegment(s)
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}

	if len(segments) > 0 {
		if _, ok := p.rootLabels[segments[0]]; ok {
			segments = segments[1:]
		}
	}

	return segments
}

// ExactKey builds the root|parent|leaf key from the first three segments.
func ExactKey(segments []string) (string, bool) {
	if len(segments) < 3 {
		return "", false
	}
	return strings.Join(segments[:3], domain.CategoryKeySeparator), true
}

// PrefixKey builds the scan prefix for the first depth segments, with a
// trailing separator so "books|" never matches "bookshelf|...".
func PrefixKey(segments []string, depth int) (string, bool) {
	if depth <= 0 || len(segments) < depth {
		return "", false
	}
	return strings.Join(segments[:depth], domain.CategoryKeySeparator) + domain.CategoryKeySeparator, true
}

func normalizeSegment(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeKey applies segment normalization to every part of a stored key.
func NormalizeKey(key string) string {
	parts := strings.Split(key, domain.CategoryKeySeparator)
	for i, p := range parts {
		parts[i] = normalizeSegment(p)
	}
	return strings.Join(parts, domain.CategoryKeySeparator)
}
