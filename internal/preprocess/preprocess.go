// Package preprocess turns encoded images into model input tensors.
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageSize is the square spatial resolution the classifier expects.
const ImageSize = 224

// Channels is the number of colour channels fed to the model.
const Channels = 3

var ErrDecode = errors.New("image decode failed")

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Preprocessor decodes, resizes and normalizes images into
// [1, size, size, 3] NHWC tensors with values in [0, 1].
type Preprocessor struct {
	size int
}

// New creates a Preprocessor for the given square size. Non-positive sizes
// fall back to ImageSize.
func New(size int) *Preprocessor {
	if size <= 0 {
		size = ImageSize
	}
	return &Preprocessor{size: size}
}

// Process converts raw encoded image bytes into a model input tensor.
// It has no side effects and returns identical tensors for identical input.
func (p *Preprocessor) Process(data []byte) (*Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	size := p.size
	bounds := img.Bounds()
	rows := SourceIndices(bounds.Dy(), size)
	cols := SourceIndices(bounds.Dx(), size)

	out := make([]float32, size*size*Channels)
	i := 0
	for _, sy := range rows {
		for _, sx := range cols {
			r, g, b := straightRGB(img.At(bounds.Min.X+sx, bounds.Min.Y+sy))
			out[i] = float32(r) / 255.0
			out[i+1] = float32(g) / 255.0
			out[i+2] = float32(b) / 255.0
			i += Channels
		}
	}

	return &Tensor{
		Shape: []int64{1, int64(size), int64(size), Channels},
		Data:  out,
	}, nil
}

// SourceIndices maps each of out destination positions to the source
// position it samples: floor(dst * in / out), clamped to in-1. No corner
// alignment and no half-pixel offset, so one source pixel feeds each output.
func SourceIndices(in, out int) []int {
	idx := make([]int, out)
	for dst := range idx {
		src := dst * in / out
		if src > in-1 {
			src = in - 1
		}
		idx[dst] = src
	}
	return idx
}

// straightRGB returns the stored (non-premultiplied) 8-bit colour. Alpha is
// dropped, so fully transparent pixels keep their RGB.
func straightRGB(c color.Color) (r, g, b uint8) {
	switch v := c.(type) {
	case color.NRGBA:
		return v.R, v.G, v.B
	case color.NRGBA64:
		return uint8(v.R >> 8), uint8(v.G >> 8), uint8(v.B >> 8)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}
