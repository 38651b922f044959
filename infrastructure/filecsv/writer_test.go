package filecsv

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_EscapeStyle(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, StyleEscape, ',')

	require.NoError(t, w.Write([]string{"id", "text"}))
	require.NoError(t, w.WriteRow([]any{"c1", "a,b \"q\" c:\\d\nnext"}))
	require.NoError(t, w.WriteRow([]any{"c2", nil, true, false, int64(-4)}))
	require.NoError(t, w.Flush())

	want := "id,text\n" +
		"c1,a\\,b \\\"q\\\" c:\\\\d\\\nnext\n" +
		"c2,,1,0,-4\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_EscapeStyleCustomDelimiter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, StyleEscape, '\t')

	require.NoError(t, w.Write([]string{"a\tb", "c,d"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "a\\\tb\tc,d\n", buf.String())
}

func TestWriter_QuoteStyleRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, StyleQuote, 0)
	rows := [][]string{
		{"id", "text"},
		{"c1", "a,b \"q\"\nnext"},
		{"c2", ""},
	}
	for _, r := range rows {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleEscape, s)

	s, err = ParseStyle("QUOTE")
	require.NoError(t, err)
	assert.Equal(t, StyleQuote, s)

	_, err = ParseStyle("tsv")
	assert.Error(t, err)
}

func TestNewFile_CreatesDirAndTruncates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	f, err := NewFile(dir, "videos.csv")
	require.NoError(t, err)
	_, err = f.WriteString("long content")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = NewFile(dir, "videos.csv")
	require.NoError(t, err)
	_, err = f.WriteString("x")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b, err := os.ReadFile(filepath.Join(dir, "videos.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}
