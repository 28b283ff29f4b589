package output

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_NoANSIWithoutTerminal(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)

	r.Header(1, "Title")
	r.Header(2, "Section")
	r.Success("done")
	r.StatusLine("orders.view", "error", "bad yaml")
	r.Muted("quiet")
	r.Warning("careful")
	r.Error("broken")
	r.Println(r.Styles().ForDepth(7).Render("deep"))

	combined := out.String() + errOut.String()
	assert.False(t, ansiPattern.MatchString(combined), "unexpected ANSI codes: %q", combined)
	assert.Contains(t, out.String(), "[ok] done")
	assert.Contains(t, out.String(), "[failed] orders.view bad yaml")
	assert.Contains(t, errOut.String(), "warning: careful")
	assert.Contains(t, errOut.String(), "error: broken")
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(ModelsOutput{Models: []ModelInfo{{ID: "1", Name: "shop"}}}))
	assert.Equal(t, "{\n  \"models\": [\n    {\n      \"id\": \"1\",\n      \"name\": \"shop\"\n    }\n  ],\n  \"has_next_page\": false\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
	assert.Equal(t, "- **Base**: orders", FormatKeyValue("Base", "orders"))
	assert.Equal(t, "`x`", FormatInlineCode("x"))
	assert.Empty(t, FormatInlineCode(""))
	assert.Equal(t, "Dimension", Title("dimension"))
}

func TestFormatCodeBlock(t *testing.T) {
	assert.Equal(t, "```yaml\na: 1\n```", FormatCodeBlock("yaml", "a: 1\n"))

	block := FormatCodeBlock("md", "```sql\nselect 1\n```")
	assert.True(t, strings.HasPrefix(block, "````md\n"))
	assert.True(t, strings.HasSuffix(block, "\n````"))
}

func TestWriteMarkdownTable(t *testing.T) {
	var buf bytes.Buffer
	WriteMarkdownTable(&buf, []string{"Name", "SQL"}, [][]string{{"total", "sum(amount)"}})

	out := buf.String()
	assert.Contains(t, out, "| Name | SQL |")
	assert.Contains(t, out, "| total | sum(amount) |")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []string{"Name"}, [][]string{{"total"}})

	assert.Contains(t, buf.String(), "total")
	assert.Contains(t, buf.String(), "┌")
}

func TestTruncateOneLine(t *testing.T) {
	assert.Equal(t, "a b c", TruncateOneLine("a\n  b\tc", 20))
	assert.Equal(t, "abcd...", TruncateOneLine("abcdefghij", 7))
	assert.Equal(t, "abc", TruncateOneLine("abc", 2))
}
