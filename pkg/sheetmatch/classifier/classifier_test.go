package classifier

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
)

func newTestClassifier() (*Classifier, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger), &buf
}

func TestRegisterAndVote(t *testing.T) {
	c, _ := newTestClassifier()

	require.NoError(t, c.Register("team/worker/@job"))
	assert.Equal(t, "team/worker/@job", c.Active())
	require.NoError(t, c.Vote("root.xlsx/Workers/@B$3:c;A$3:c"))

	res := c.Resolve()
	winner, ok := res.Winner("team/worker/@job")
	require.True(t, ok)
	assert.Equal(t, "root.xlsx/Workers/@B$3:c;A$3:c", winner)
	assert.Empty(t, res.Ambiguous)
	assert.Equal(t, []models.Histogram{{
		Path: "team/worker/@job",
		Bins: []models.Bin{{Expression: "root.xlsx/Workers/@B$3:c;A$3:c", Votes: 1}},
	}}, c.Dump())
}

func TestRegisterReusesEntry(t *testing.T) {
	c, _ := newTestClassifier()

	require.NoError(t, c.Register("a/b"))
	require.NoError(t, c.Vote("x.xlsx/S/@A$1:c;B$1:c"))
	require.NoError(t, c.Register("a/c"))
	require.NoError(t, c.Register("a/b"))
	require.NoError(t, c.Vote("x.xlsx/S/@A$1:c;B$1:c"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Dump()[0].Bins[0].Votes)
}

func TestEmptyKey(t *testing.T) {
	c, _ := newTestClassifier()

	assert.ErrorIs(t, c.Register(""), ErrEmptyKey)
	assert.ErrorIs(t, c.Vote("x.xlsx/S/@A1;B1"), ErrEmptyKey, "no active path yet")
	require.NoError(t, c.Register("a/b"))
	assert.ErrorIs(t, c.Vote(""), ErrEmptyKey)
	assert.ErrorIs(t, c.VoteFor("", "x"), ErrEmptyKey)
}

func TestResolvePicksHighest(t *testing.T) {
	c, _ := newTestClassifier()
	require.NoError(t, c.Register("team/worker/name"))
	for i := 0; i < 2; i++ {
		require.NoError(t, c.Vote("first"))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Vote("second"))
	}

	res := c.Resolve()
	winner, _ := res.Winner("team/worker/name")
	assert.Equal(t, "second", winner)
	assert.Empty(t, res.Ambiguous)
}

func TestResolveAmbiguous(t *testing.T) {
	c, buf := newTestClassifier()
	require.NoError(t, c.Register("team/worker/@job"))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Vote("first"))
		require.NoError(t, c.Vote("second"))
	}

	res := c.Resolve()
	assert.Equal(t, []string{"team/worker/@job"}, res.Ambiguous)
	winner, _ := res.Winner("team/worker/@job")
	assert.Equal(t, "first", winner, "first-seen maximum is kept")
	assert.Contains(t, buf.String(), "ambiguous match")
	assert.Contains(t, buf.String(), "team/worker/@job")
	assert.True(t, c.Dump()[0].Ambiguous)
}

func TestResolveIdempotent(t *testing.T) {
	c, _ := newTestClassifier()
	require.NoError(t, c.Register("a/b"))
	require.NoError(t, c.Vote("one"))
	require.NoError(t, c.Vote("two"))
	require.NoError(t, c.Vote("two"))
	require.NoError(t, c.Register("a/c"))
	require.NoError(t, c.Vote("three"))

	assert.Equal(t, c.Resolve(), c.Resolve())
}

func TestResolveUnmatched(t *testing.T) {
	c, buf := newTestClassifier()
	require.NoError(t, c.Register("team/worker/phone"))

	res := c.Resolve()
	assert.Equal(t, []string{"team/worker/phone"}, res.Unmatched)
	assert.Empty(t, res.Mappings)
	assert.Contains(t, buf.String(), "could not match path to any path in the sink file")
}

func TestInvert(t *testing.T) {
	c, buf := newTestClassifier()
	require.NoError(t, c.VoteFor("team/worker/@job", "job-expr"))
	require.NoError(t, c.VoteFor("team/worker/@role", "job-expr"))
	require.NoError(t, c.VoteFor("team/worker/skills/skill[i]", "skill-expr"))

	inverted, err := c.Invert()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"job-expr":   "team/worker/@job",
		"skill-expr": "team/worker/skills/skill[i]",
	}, inverted)
	assert.Contains(t, buf.String(), "expression already mapped")
}

func TestInvertRejectsNestedIndexes(t *testing.T) {
	c, _ := newTestClassifier()
	require.NoError(t, c.VoteFor("team/worker/a[i]/b[i]", "expr"))

	_, err := c.Invert()
	assert.ErrorIs(t, err, treepath.ErrMultipleIndexes)
}
