package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen matches the number of bytes mimetype inspects by default.
const sniffLen = 3072

// ErrNotImage is returned when an upload does not look like an image.
var ErrNotImage = errors.New("uploaded file is not an image")

// Image is an upload ready to be handed to an ImageStore.
type Image struct {
	Body        io.ReadSeeker
	Size        int64
	ContentType string
	Extension   string
}

// DetectImage sniffs the content type of body and rewinds it.
// Only image/* types are accepted; the client-declared type is ignored.
func DetectImage(body io.ReadSeeker, size int64) (*Image, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(body, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}

	mtype := mimetype.Detect(header[:n])
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotImage
	}

	return &Image{
		Body:        body,
		Size:        size,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}
