package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
)

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		members  []string
		path     string
		expected []string
	}{
		{
			name:     "empty",
			path:     "t/w/name",
			expected: []string{"t/w/name"},
		},
		{
			name:     "attribute after its node",
			members:  []string{"t/w/name", "t/w/mail"},
			path:     "t/w/name/@lang",
			expected: []string{"t/w/name", "t/w/name/@lang", "t/w/mail"},
		},
		{
			name:     "node before its attribute",
			members:  []string{"t/w/mail", "t/w/name/@lang"},
			path:     "t/w/name",
			expected: []string{"t/w/mail", "t/w/name", "t/w/name/@lang"},
		},
		{
			name:     "second attribute joins the first",
			members:  []string{"t/w/name", "t/w/name/@lang", "t/w/mail"},
			path:     "t/w/name/@script",
			expected: []string{"t/w/name", "t/w/name/@lang", "t/w/name/@script", "t/w/mail"},
		},
		{
			name:     "scope kept together",
			members:  []string{"t/w/s/skill[i]", "t/w/s/skill[i]/@level", "t/w/name"},
			path:     "t/w/s/skill[i]/note",
			expected: []string{"t/w/s/skill[i]", "t/w/s/skill[i]/@level", "t/w/s/skill[i]/note", "t/w/name"},
		},
		{
			name:     "plain path after last plain member",
			members:  []string{"t/w/name", "t/w/s/skill[i]", "t/w/mail", "t/w/tools/tool[i]"},
			path:     "t/w/phone",
			expected: []string{"t/w/name", "t/w/s/skill[i]", "t/w/mail", "t/w/phone", "t/w/tools/tool[i]"},
		},
		{
			name:     "new scope appended",
			members:  []string{"t/w/s/skill[i]"},
			path:     "t/w/tools/tool[i]",
			expected: []string{"t/w/s/skill[i]", "t/w/tools/tool[i]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Insert(tt.members, tt.path))
		})
	}
}

func TestBuild(t *testing.T) {
	paths := []string{
		"team/worker/skills/skill[i]/@level",
		"team/worker/@job",
		"team/worker/name/@lang",
		"team/worker/skills/skill[i]",
		"team/worker/name",
		"section/part/title",
	}
	clusters, err := Build([]string{"team/worker/uri", "section/part/uri"}, paths)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	worker := clusters[0]
	assert.Equal(t, "team/worker", worker.Root)
	assert.Equal(t, "team/worker/uri", worker.NamePath)
	assert.ElementsMatch(t, paths[:5], worker.Members)
	assertAttributesFollowNodes(t, worker.Members)

	assert.Equal(t, "section/part", clusters[1].Root)
	assert.Equal(t, []string{"section/part/title"}, clusters[1].Members)
}

func TestBuildUnassignable(t *testing.T) {
	_, err := Build([]string{"team/worker/uri"}, []string{"team/worker/name", "office/room/number"})
	assert.ErrorIs(t, err, ErrUnassignablePath)
}

// assertAttributesFollowNodes checks that only attributes of a node sit
// between the node and any of its attributes.
func assertAttributesFollowNodes(t *testing.T, members []string) {
	t.Helper()
	for i, m := range members {
		if treepath.IsAttribute(m) {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			if !treepath.IsAttributeOf(members[j], m) {
				for _, rest := range members[j:] {
					assert.False(t, treepath.IsAttributeOf(rest, m), "%s separated from %s in %v", rest, m, members)
				}
				break
			}
		}
	}
}
