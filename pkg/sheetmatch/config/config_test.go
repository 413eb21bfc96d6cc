package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcher.toml")
	content := dedent.Dedent(`
		header_Workers = "#ddebf7"
		header_Teams = "FFDDEBF7"
		forwarding_on = "Teams/teamFile"
		path_forward_symbol = "fwd"
		width_only_in = "Teams, Sections"
		uri = "uri"
		List_nodes = "team, section"
	`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	color, err := cfg.HeaderColor("Workers")
	require.NoError(t, err)
	assert.Equal(t, "DDEBF7", color)
	color, _ = cfg.HeaderColor("Teams")
	assert.Equal(t, "DDEBF7", color)

	_, err = cfg.HeaderColor("Skills")
	assert.ErrorIs(t, err, ErrMissingKey)

	header, ok := cfg.ForwardHeader("Teams")
	assert.True(t, ok)
	assert.Equal(t, "teamFile", header)
	_, ok = cfg.ForwardHeader("Workers")
	assert.False(t, ok)

	assert.Equal(t, "fwd", cfg.ForwardSymbol())
	assert.True(t, cfg.WidthAllowed("Sections"))
	assert.False(t, cfg.WidthAllowed("Workers"))
	assert.Equal(t, []string{"team", "section"}, cfg.ListRoots())
	assert.Equal(t, "uri", cfg.Identifier())
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("uri = \"id\"\nList_nodes = \"team\"\n"))
	require.NoError(t, err)

	assert.True(t, cfg.WidthAllowed("Anything"))
	_, ok := cfg.ForwardHeader("Teams")
	assert.False(t, ok)

	marker, err := cfg.Marker()
	require.NoError(t, err)
	assert.True(t, marker.Match("X"))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing uri", `List_nodes = "team"`},
		{"missing list nodes", `uri = "id"`},
		{"forwarding without symbol", "uri = \"id\"\nList_nodes = \"team\"\nforwarding_on = \"Teams/teamFile\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.ErrorIs(t, err, ErrMissingKey)
		})
	}
}

func TestParseRejectsMalformedForwarding(t *testing.T) {
	_, err := Parse([]byte("uri = \"id\"\nList_nodes = \"team\"\nforwarding_on = \"teamFile\"\npath_forward_symbol = \"fwd\""))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseRejectsBadMarker(t *testing.T) {
	_, err := Parse([]byte("uri = \"id\"\nList_nodes = \"team\"\nmarker_expression = \"cell +\""))
	assert.Error(t, err)
}

func TestParseRejectsNonStringHeader(t *testing.T) {
	_, err := Parse([]byte("uri = \"id\"\nList_nodes = \"team\"\nheader_Workers = 3"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseForwardSymbol(t *testing.T) {
	base := "uri = \"id\"\nList_nodes = \"team\"\nforwarding_on = \"Teams/teamFile\"\n"
	tests := []struct {
		symbol string
		valid  bool
	}{
		{"fwd", true},
		{"h2p", true},
		{"hop1", false},
		{"7", false},
		{"f/w", false},
		{"f@w", false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			cfg, err := Parse([]byte(base + "path_forward_symbol = \"" + tt.symbol + "\"\n"))
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.symbol, cfg.ForwardSymbol())
				return
			}
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}
