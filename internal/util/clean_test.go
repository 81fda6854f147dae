package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	got, err := CleanText([]byte("\xEF\xBB\xBF  “Booked” Osaka… it’s on\n"), "test")
	require.NoError(t, err)
	assert.Equal(t, `"Booked" Osaka... it's on`, got)
}

func TestCleanText_InvalidUTF8(t *testing.T) {
	got, err := CleanText([]byte("caf\xe9 visit"), "test")
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD visit", got)
}

func TestCleanText_Binary(t *testing.T) {
	_, err := CleanText([]byte{'P', 'K', 0x03, 0x04, 0x00}, "archive.zip")
	assert.ErrorIs(t, err, ErrBinaryInput)
}

func TestIsLikelyBinary(t *testing.T) {
	assert.False(t, IsLikelyBinary([]byte("plain text")))
	assert.True(t, IsLikelyBinary([]byte("a\x00b")))

	late := make([]byte, 600)
	for i := range late {
		late[i] = 'a'
	}
	late[599] = 0
	assert.False(t, IsLikelyBinary(late), "only the first 512 bytes are inspected")
}
