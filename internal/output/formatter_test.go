package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatMarkdown, ParseFormat("md"))
	assert.Equal(t, FormatMarkdown, ParseFormat("markdown"))
	assert.Equal(t, FormatTOON, ParseFormat("toon"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("garbage"))
}

func TestTableMarkdown(t *testing.T) {
	table := NewTable("Results", []string{"Name", "Count"}, [][]string{
		{"alpha", "1"},
		{"beta", "2"},
	}, nil, nil)

	var b strings.Builder
	require.NoError(t, table.RenderMarkdown(&b))

	out := b.String()
	assert.Contains(t, out, "## Results")
	assert.Contains(t, out, "| Name | Count |")
	assert.Contains(t, out, "| alpha | 1 |")
}

func TestTableRenderDataFallsBackToRows(t *testing.T) {
	table := NewTable("", []string{"K"}, [][]string{{"v"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, "v", data[0]["K"])
}

func TestSectionTextNesting(t *testing.T) {
	s := &Section{
		Title:   "Top",
		Content: "body",
		Sections: []Section{
			{Title: "Sub", Content: "detail"},
		},
	}

	var b strings.Builder
	require.NoError(t, s.RenderText(&b, false))

	out := b.String()
	assert.Contains(t, out, "Top\n===")
	assert.Contains(t, out, "Sub\n---")
	assert.Contains(t, out, "detail")
}

func TestFormatterWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	require.NoError(t, err)

	require.NoError(t, f.Output(map[string]int{"answer": 42}))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 42, decoded["answer"])
}

func TestFormatterTOON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toon")
	f, err := NewFormatter(FormatTOON, path, false)
	require.NoError(t, err)

	require.NoError(t, f.Output(map[string]string{"stage": "catalog"}))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "catalog")
}
