package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytcollector/infrastructure/configuration"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "", want: ','},
		{in: ";", want: ';'},
		{in: "\t", want: '\t'},
		{in: "|", want: '|'},
		{in: ",,", wantErr: true},
		{in: `\`, wantErr: true},
		{in: `"`, wantErr: true},
		{in: "\n", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDelimiter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseFlags_BindsExportKeys(t *testing.T) {
	fs, err := parseFlags(exportCommand, []string{"--out", "dump", "--style", "quote", "--video", "v1"})
	require.NoError(t, err)

	assert.Equal(t, "dump", configuration.C.Export.Dir)
	assert.Equal(t, "quote", configuration.C.Export.Style)
	video, _ := fs.GetString("video")
	assert.Equal(t, "v1", video)
}

func TestParseFlags_CollectPositionalURLs(t *testing.T) {
	fs, err := parseFlags(collectCommand, []string{"--replies", "thread", "https://youtu.be/a", "https://youtu.be/b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/a", "https://youtu.be/b"}, fs.Args())
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := parseFlags(serveCommand, []string{"--nope"})
	assert.Error(t, err)

	_, err = parseFlags(tokenCommand, []string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
