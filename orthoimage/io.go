package orthoimage

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Binary framing: width and height as little-endian uint64, the ground sample
// distance as IEEE-754 bits, then row-major samples as little-endian uint32.

// ParseOrthoImage reads a raster from a file, gunzipping by extension.
func ParseOrthoImage[T Value](fn string) (*OrthoImage[T], error) {
	var f io.Reader

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(fn) == ".gz" {
		f, err = gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
	}

	return ReadOrthoImage[T](bufio.NewReader(f))
}

func readNext(r io.Reader) (uint64, error) {
	data := make([]byte, 8)
	x, err := io.ReadFull(r, data)
	if x == 8 {
		return binary.LittleEndian.Uint64(data), nil
	}
	return 0, errors.Errorf("got %d bytes, and %v", x, err)
}

// ReadOrthoImage reads a raster in the binary framing written by WriteTo.
func ReadOrthoImage[T Value](f *bufio.Reader) (*OrthoImage[T], error) {
	rawWidth, err := readNext(f)
	if err != nil {
		return nil, err
	}
	rawHeight, err := readNext(f)
	if err != nil {
		return nil, err
	}
	rawGSD, err := readNext(f)
	if err != nil {
		return nil, err
	}

	width := int(rawWidth)
	height := int(rawHeight)
	if width <= 0 || width >= 100000 || height <= 0 || height >= 100000 {
		return nil, errors.Errorf("bad width or height for ortho image %v %v", width, height)
	}
	gsd := math.Float64frombits(rawGSD)
	if gsd <= 0 || math.IsNaN(gsd) || math.IsInf(gsd, 0) {
		return nil, errors.Errorf("bad ground sample distance for ortho image %v", gsd)
	}

	im, err := New[T](width, height, gsd)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 4)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, errors.Wrapf(err, "short read at %d,%d", i, j)
			}
			im.data[j][i] = T(binary.LittleEndian.Uint32(buf))
		}
	}

	return im, nil
}

// WriteToFile writes the raster to a file, gzipping by extension.
func (im *OrthoImage[T]) WriteToFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	var gout *gzip.Writer
	var out io.Writer = f

	if filepath.Ext(fn) == ".gz" {
		gout = gzip.NewWriter(f)
		out = gout
		defer gout.Close()
	}

	if err := im.WriteTo(out); err != nil {
		return err
	}

	if gout != nil {
		if err := gout.Flush(); err != nil {
			return err
		}
	}

	return f.Sync()
}

// WriteTo writes the raster in the binary framing read by ReadOrthoImage.
func (im *OrthoImage[T]) WriteTo(out io.Writer) error {
	buf := make([]byte, 8)

	binary.LittleEndian.PutUint64(buf, uint64(im.width))
	if _, err := out.Write(buf); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(buf, uint64(im.height))
	if _, err := out.Write(buf); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(buf, math.Float64bits(im.gsd))
	if _, err := out.Write(buf); err != nil {
		return err
	}

	for j := 0; j < im.height; j++ {
		for i := 0; i < im.width; i++ {
			binary.LittleEndian.PutUint32(buf[:4], uint32(im.data[j][i]))
			if _, err := out.Write(buf[:4]); err != nil {
				return err
			}
		}
	}

	return nil
}
