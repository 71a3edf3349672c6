// Package imaging resizes uploaded photos and encodes them as WebP.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const ContentType = "image/webp"

var (
	UserPhoto = Size{Width: 500, Height: 500}
	TourImage = Size{Width: 2000, Height: 1333}
)

var ErrNotImage = errors.New("not an image! Please upload only images")

type Size struct {
	Width  int
	Height int
}

// Process decodes r, crops it to the aspect ratio of size around the
// centre, scales it and returns WebP bytes.
func Process(r io.Reader, size Size, quality float32) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, cover(src.Bounds(), size), draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// cover returns the largest centred rectangle of b with the target ratio.
func cover(b image.Rectangle, size Size) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w*size.Height > h*size.Width {
		cw := h * size.Width / size.Height
		x0 := b.Min.X + (w-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := w * size.Height / size.Width
	y0 := b.Min.Y + (h-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}
