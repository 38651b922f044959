package utils

import (
	"strings"
	"testing"
	"time"

	"ytcollector/domain/model"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/watch?feature=share&v=abc123&t=10s", "abc123"},
		{"https://youtu.be/xyz789?si=foo", "xyz789"},
		{"https://www.youtube.com/shorts/qqq111", "qqq111"},
		{"https://youtube.com/shorts/qqq111/extra?feature=share", "qqq111"},
		{"  https://m.youtube.com/watch?v=mobile1  ", "mobile1"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/video/abc",
		"https://www.youtube.com/channel/UC123",
		"https://youtu.be/",
		"https://www.youtube.com/shorts/",
		"%zz",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ExtractVideoID(raw)
			var invalid *model.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, raw, invalid.Input)
			assert.True(t, model.IsVideoScoped(err))
		})
	}
}

func TestReadURLList(t *testing.T) {
	in := "# seed list\nhttps://youtu.be/a\n\n   \n  https://youtu.be/b  \n#https://youtu.be/skipped\n"

	got, err := ReadURLList(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/a", "https://youtu.be/b"}, got)
}

func TestIssueReaderToken(t *testing.T) {
	issued := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	signed, err := IssueReaderToken("exporter", issued, time.Hour, "s3cret")
	require.NoError(t, err)

	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	// Issued in the past with a one hour lifetime, so it has expired.
	require.Error(t, err)
	assert.False(t, token.Valid)
	assert.Equal(t, "exporter", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt)
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt)
}

func TestIssueReaderToken_NoExpiry(t *testing.T) {
	signed, err := IssueReaderToken("reader", GetCurrentTime(), 0, "s3cret")
	require.NoError(t, err)

	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Zero(t, claims.ExpiresAt)
}

func TestIssueReaderToken_EmptyKey(t *testing.T) {
	_, err := IssueReaderToken("reader", GetCurrentTime(), time.Hour, "")
	assert.Error(t, err)
}
