// Package treepath implements the slash-delimited addresses used on the tree
// side, such as "team/worker/skills/skill[2]/@level".
//
// Segments are joined by "/", attributes are prefixed with "@" and a segment
// addressing one of several same-named siblings carries a 1-based index in
// brackets. Normalize replaces every concrete index with the placeholder "[i]"
// so that all siblings collapse onto one learned path.
package treepath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Separator joins path segments.
	Separator = "/"
	// AttributePrefix marks an attribute segment.
	AttributePrefix = "@"
	// Placeholder replaces concrete sibling indexes in normalized paths.
	Placeholder = "[i]"
)

// ErrMultipleIndexes indicates a path with more than one index placeholder.
var ErrMultipleIndexes = errors.New("path has more than one index placeholder")

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// Normalize replaces every bracketed index with the placeholder.
func Normalize(path string) string {
	return indexPattern.ReplaceAllString(path, Placeholder)
}

// Segments splits a path into its segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join builds a path from segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

// Indexed formats a segment addressing the n-th sibling with the given tag.
func Indexed(tag string, n int) string {
	return fmt.Sprintf("%s[%d]", tag, n)
}

// ParseSegment splits a segment into its tag and index. The index is 0 when
// the segment carries none or carries the placeholder.
func ParseSegment(segment string) (tag string, index int) {
	open := strings.IndexByte(segment, '[')
	if open < 0 || !strings.HasSuffix(segment, "]") {
		return segment, 0
	}
	tag = segment[:open]
	n, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return tag, 0
	}
	return tag, n
}

// IsAttribute reports whether the path ends in an attribute segment.
func IsAttribute(path string) bool {
	segs := Segments(path)
	return len(segs) > 0 && strings.HasPrefix(segs[len(segs)-1], AttributePrefix)
}

// NodePath strips a trailing attribute segment.
func NodePath(path string) string {
	if !IsAttribute(path) {
		return path
	}
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// AttributeName returns the attribute key of an attribute path without "@".
func AttributeName(path string) string {
	if !IsAttribute(path) {
		return ""
	}
	segs := Segments(path)
	return strings.TrimPrefix(segs[len(segs)-1], AttributePrefix)
}

// IsAttributeOf reports whether attr is an attribute of the node path.
func IsAttributeOf(attr, node string) bool {
	return IsAttribute(attr) && !IsAttribute(node) && NodePath(attr) == node
}

// BasePath returns the record-type root of a path: its first two segments.
func BasePath(path string) string {
	segs := Segments(path)
	if len(segs) < 2 {
		return path
	}
	return Join(stripIndex(segs[0]), stripIndex(segs[1]))
}

// Relative returns the segments of a path below its record-type root.
func Relative(path string) []string {
	segs := Segments(path)
	if len(segs) <= 2 {
		return nil
	}
	return segs[2:]
}

// CountPlaceholders returns the number of index placeholders in the path.
func CountPlaceholders(path string) int {
	return strings.Count(path, Placeholder)
}

// CheckExpandable fails for paths the generator cannot expand.
func CheckExpandable(path string) error {
	if CountPlaceholders(Normalize(path)) > 1 {
		return fmt.Errorf("%w: %s", ErrMultipleIndexes, path)
	}
	return nil
}

// SplitIndexed splits segments around the segment carrying the placeholder.
// ok is false when no segment carries one.
func SplitIndexed(segments []string) (prefix []string, tag string, suffix []string, ok bool) {
	for i, s := range segments {
		if strings.HasSuffix(s, Placeholder) {
			return segments[:i], strings.TrimSuffix(s, Placeholder), segments[i+1:], true
		}
	}
	return segments, "", nil, false
}

// ShareSameScope reports whether two paths live in the same repetition scope.
// An indexed segment starts a new scope; two paths share a scope unless one
// of them enters an indexed segment the other does not.
func ShareSameScope(a, b string) bool {
	first, second := Segments(a), Segments(b)
	for i := 0; i < max(len(first), len(second)); i++ {
		switch {
		case i >= len(first):
			if isNewScope(second[i]) {
				return false
			}
		case i >= len(second):
			if isNewScope(first[i]) {
				return false
			}
		case first[i] == second[i]:
		case isNewScope(first[i]), isNewScope(second[i]):
			return false
		}
	}
	return true
}

func isNewScope(segment string) bool {
	return strings.HasSuffix(segment, Placeholder)
}

func stripIndex(segment string) string {
	tag, _ := ParseSegment(segment)
	return tag
}
