// Package capture converts between GL pixel buffers and images, and
// writes rendered frames to disk.
//
// GL addresses rows bottom-up, images top-down, so both directions
// flip the rows.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Format is an output image format
type Format int

// Supported formats
const (
	FormatPPM Format = iota
	FormatPNG
	FormatBMP
)

// ErrUnknownFormat is returned for file extensions without an encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// FormatFromPath picks the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return 0, ErrUnknownFormat
	}
}

// FromGL wraps RGBA8 pixels as read by glReadPixels into an image,
// top row first.
func FromGL(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("capture: %d bytes is not a %dx%d RGBA image", len(pixels), width, height)
	}
	img := &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return imaging.FlipV(img), nil
}

// ToGL returns the pixels of img as tightly packed RGBA8, bottom row
// first, ready for glTexImage2D.
func ToGL(img image.Image) []byte {
	flipped := imaging.FlipV(img)
	rgba := image.NewNRGBA(flipped.Bounds())
	draw.Draw(rgba, rgba.Bounds(), flipped, flipped.Bounds().Min, draw.Src)
	return rgba.Pix
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPPM:
		return encodePPM(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return ErrUnknownFormat
	}
}

// WriteFile encodes img into path, the format following its extension.
func WriteFile(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// encodePPM writes a binary (P6) portable pixmap, alpha is dropped.
func encodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d\n%d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	nrgba := imaging.Clone(img)
	for y := 0; y < bounds.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+bounds.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			if _, err := bw.Write(row[x : x+3]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
