// Package upload validates multipart image uploads before they reach the model.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// FieldName is the multipart field that carries the image.
const FieldName = "image"

// DefaultMaxBytes is the per-file size ceiling.
const DefaultMaxBytes int64 = 1000000

// bodyOverhead is how much larger than the file ceiling the whole request body
// may be, to leave room for multipart boundaries, headers and text fields.
const bodyOverhead int64 = 64 << 10

var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrTooLarge       = errors.New("payload too large")
	ErrNotImage       = errors.New("file is not an image")
	ErrMalformed      = errors.New("malformed multipart body")
	ErrUnexpectedFile = errors.New("unexpected file field")
)

// File is a validated upload held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Gate reads and validates the single image file of a request.
type Gate struct {
	maxBytes int64
}

// NewGate creates a Gate with the given per-file ceiling. Non-positive values
// fall back to DefaultMaxBytes.
func NewGate(maxBytes int64) *Gate {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Gate{maxBytes: maxBytes}
}

// MaxBytes returns the per-file ceiling.
func (g *Gate) MaxBytes() int64 {
	return g.maxBytes
}

// Read streams the multipart body of r and returns the image file.
// Only one file part is accepted; plain form values are skipped.
func (g *Gate) Read(w http.ResponseWriter, r *http.Request) (*File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, g.maxBytes+bodyOverhead)

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, ErrNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var file *File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classify(err)
		}

		if part.FileName() == "" {
			// Plain form value.
			if _, err := io.Copy(io.Discard, part); err != nil {
				part.Close()
				return nil, classify(err)
			}
			part.Close()
			continue
		}

		if part.FormName() != FieldName || file != nil {
			part.Close()
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedFile, part.FormName())
		}

		file, err = g.readFile(part)
		part.Close()
		if err != nil {
			return nil, err
		}
	}

	if file == nil {
		return nil, ErrNoFile
	}
	return file, nil
}

func (g *Gate) readFile(part *multipart.Part) (*File, error) {
	contentType := part.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, g.maxBytes+1))
	if err != nil {
		return nil, classify(err)
	}
	if n > g.maxBytes {
		return nil, ErrTooLarge
	}

	return &File{
		Name:        part.FileName(),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

// classify maps body read errors to sentinel errors.
func classify(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrTooLarge
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
