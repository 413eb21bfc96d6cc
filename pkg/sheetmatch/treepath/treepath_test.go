package treepath

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a/b[7]/@x", "a/b[i]/@x"},
		{"a/b[42]/@x", "a/b[i]/@x"},
		{"a/b[i]/@x", "a/b[i]/@x"},
		{"team/worker/skills/skill[12]", "team/worker/skills/skill[i]"},
		{"team/worker/@job", "team/worker/@job"},
	}

	for _, tt := range tests {
		result := Normalize(tt.input)
		if result != tt.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
		if again := Normalize(result); again != result {
			t.Errorf("Normalize is not idempotent for %q: %q", result, again)
		}
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		path      string
		attribute bool
		node      string
		name      string
	}{
		{"team/worker/@job", true, "team/worker", "job"},
		{"team/worker/skills/skill[i]/@level", true, "team/worker/skills/skill[i]", "level"},
		{"team/worker/name", false, "team/worker/name", ""},
		{"@id", true, "", "id"},
	}

	for _, tt := range tests {
		if got := IsAttribute(tt.path); got != tt.attribute {
			t.Errorf("IsAttribute(%q) = %v, expected %v", tt.path, got, tt.attribute)
		}
		if got := NodePath(tt.path); got != tt.node {
			t.Errorf("NodePath(%q) = %q, expected %q", tt.path, got, tt.node)
		}
		if got := AttributeName(tt.path); got != tt.name {
			t.Errorf("AttributeName(%q) = %q, expected %q", tt.path, got, tt.name)
		}
	}

	if !IsAttributeOf("team/worker/@job", "team/worker") {
		t.Error("expected @job to belong to team/worker")
	}
	if IsAttributeOf("team/worker/name/@lang", "team/worker") {
		t.Error("attribute of a child must not belong to the parent")
	}
}

func TestBasePathAndRelative(t *testing.T) {
	if got := BasePath("team/worker/skills/skill[i]"); got != "team/worker" {
		t.Errorf("BasePath = %q", got)
	}
	if got := BasePath("team/worker[3]/name"); got != "team/worker" {
		t.Errorf("BasePath with index = %q", got)
	}
	rel := Relative("team/worker/skills/skill[i]/@level")
	if len(rel) != 3 || rel[0] != "skills" || rel[2] != "@level" {
		t.Errorf("Relative = %v", rel)
	}
	if Relative("team/worker") != nil {
		t.Error("Relative of a root must be empty")
	}
}

func TestParseSegment(t *testing.T) {
	tests := []struct {
		input string
		tag   string
		index int
	}{
		{"skill[2]", "skill", 2},
		{"skill[i]", "skill", 0},
		{"skill", "skill", 0},
		{"@level", "@level", 0},
	}

	for _, tt := range tests {
		tag, index := ParseSegment(tt.input)
		if tag != tt.tag || index != tt.index {
			t.Errorf("ParseSegment(%q) = (%q, %d), expected (%q, %d)", tt.input, tag, index, tt.tag, tt.index)
		}
	}
}

func TestCheckExpandable(t *testing.T) {
	if err := CheckExpandable("a/b[i]/c"); err != nil {
		t.Errorf("single placeholder rejected: %v", err)
	}
	if err := CheckExpandable("a/b[2]/c[3]"); !errors.Is(err, ErrMultipleIndexes) {
		t.Errorf("expected ErrMultipleIndexes, got %v", err)
	}
}

func TestSplitIndexed(t *testing.T) {
	prefix, tag, suffix, ok := SplitIndexed(Segments("skills/skill[i]/@level"))
	if !ok || tag != "skill" || len(prefix) != 1 || prefix[0] != "skills" || len(suffix) != 1 || suffix[0] != "@level" {
		t.Errorf("SplitIndexed = %v %q %v %v", prefix, tag, suffix, ok)
	}
	if _, _, _, ok := SplitIndexed(Segments("name/@lang")); ok {
		t.Error("expected no placeholder")
	}
}

func TestShareSameScope(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"team/worker/name", "team/worker/@job", true},
		{"team/worker/skills/skill[i]/@level", "team/worker/skills/skill[i]", true},
		{"team/worker/name", "team/worker/skills/skill[i]", false},
		{"team/worker/skills/skill[i]", "team/worker/name", false},
		{"team/worker/skills/skill[i]", "team/worker/tools/tool[i]", false},
		{"team/worker/a/b", "team/worker/c", true},
	}

	for _, tt := range tests {
		if got := ShareSameScope(tt.a, tt.b); got != tt.expected {
			t.Errorf("ShareSameScope(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
