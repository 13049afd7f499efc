package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestDetectImage_PNG(t *testing.T) {
	body := bytes.NewReader(pngHeader)

	img, err := DetectImage(body, int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)

	// The body is rewound so the full file can be uploaded.
	all, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, all)
}

func TestDetectImage_RejectsNonImage(t *testing.T) {
	_, err := DetectImage(bytes.NewReader([]byte("just some text")), 14)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDetectImage_EmptyBody(t *testing.T) {
	_, err := DetectImage(bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrNotImage)
}
