package capture_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/image/bmp"

	"github.com/devblok/koru-gles/capture"
)

// twoRows is a 2x2 image: red on the bottom row, blue on top, as GL
// would read it back.
func twoRows() []byte {
	return []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
}

func TestFromGLFlipsRows(t *testing.T) {
	c := qt.New(t)
	img, err := capture.FromGL(twoRows(), 2, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(img.NRGBAAt(0, 0), qt.Equals, color.NRGBA{0, 0, 255, 255})
	c.Assert(img.NRGBAAt(1, 1), qt.Equals, color.NRGBA{255, 0, 0, 255})
}

func TestFromGLSizeMismatch(t *testing.T) {
	c := qt.New(t)
	_, err := capture.FromGL(twoRows(), 3, 2)
	c.Assert(err, qt.ErrorMatches, "capture: 16 bytes is not a 3x2 RGBA image")
	_, err = capture.FromGL(nil, 0, 0)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestToGLRoundTrip(t *testing.T) {
	c := qt.New(t)
	img, err := capture.FromGL(twoRows(), 2, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(capture.ToGL(img), qt.DeepEquals, twoRows())
}

func TestEncodePPM(t *testing.T) {
	c := qt.New(t)
	img, err := capture.FromGL(twoRows(), 2, 2)
	c.Assert(err, qt.IsNil)

	buf := bytes.NewBuffer([]byte{})
	c.Assert(capture.Encode(buf, img, capture.FormatPPM), qt.IsNil)

	expected := append([]byte("P6\n2\n2\n255\n"),
		0, 0, 255, 0, 0, 255,
		255, 0, 0, 255, 0, 0,
	)
	c.Assert(buf.Bytes(), qt.DeepEquals, expected)
}

func TestEncodePNGAndBMP(t *testing.T) {
	c := qt.New(t)
	img, err := capture.FromGL(twoRows(), 2, 2)
	c.Assert(err, qt.IsNil)

	buf := bytes.NewBuffer([]byte{})
	c.Assert(capture.Encode(buf, img, capture.FormatPNG), qt.IsNil)
	decoded, err := png.Decode(buf)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.Bounds(), qt.Equals, image.Rect(0, 0, 2, 2))

	buf.Reset()
	c.Assert(capture.Encode(buf, img, capture.FormatBMP), qt.IsNil)
	decoded, err = bmp.Decode(buf)
	c.Assert(err, qt.IsNil)
	r, _, b, _ := decoded.At(0, 0).RGBA()
	c.Assert(r, qt.Equals, uint32(0))
	c.Assert(b, qt.Equals, uint32(0xffff))
}

func TestFormatFromPath(t *testing.T) {
	c := qt.New(t)
	for path, format := range map[string]capture.Format{
		"out.ppm":     capture.FormatPPM,
		"OUT.PNG":     capture.FormatPNG,
		"dir/out.bmp": capture.FormatBMP,
	} {
		got, err := capture.FormatFromPath(path)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, format)
	}
	_, err := capture.FormatFromPath("out.jpg")
	c.Assert(err, qt.Equals, capture.ErrUnknownFormat)
}

func TestWriteFile(t *testing.T) {
	c := qt.New(t)
	img, err := capture.FromGL(twoRows(), 2, 2)
	c.Assert(err, qt.IsNil)

	path := filepath.Join(c.TempDir(), "out.ppm")
	c.Assert(capture.WriteFile(path, img), qt.IsNil)
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(data, qt.HasLen, len("P6\n2\n2\n255\n")+2*2*3)

	c.Assert(capture.WriteFile(filepath.Join(c.TempDir(), "out.gif"), img), qt.Equals, capture.ErrUnknownFormat)
}
