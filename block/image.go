package block

import (
	"bytes"
	"errors"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	// Registered decoders for embedded images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/ug"
)

// Decoder turns encoded bytes into an image.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(io.Reader) (image.Image, error)

// Decode calls f(r).
func (f DecoderFunc) Decode(r io.Reader) (image.Image, error) { return f(r) }

// StdDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP.
var StdDecoder Decoder = DecoderFunc(func(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
})

// Image is a bitmap block.
type Image struct {
	img   image.Image
	scale float64
}

// NewImage wraps img drawn at the given scale (0 means 1).
func NewImage(img image.Image, scale float64) *Image {
	if scale <= 0 {
		scale = 1
	}
	return &Image{img: img, scale: scale}
}

func (i *Image) shape() ug.Image { return ug.Image{Img: i.img, Scale: i.scale} }

// Dimension implements Measurable.
func (i *Image) Dimension(ug.StringBounder) ug.Dimension { return i.shape().Size() }

// DrawU implements Drawable.
func (i *Image) DrawU(g ug.Graphic) { g.Draw(i.shape()) }

// ImageOptions control how images are loaded.
type ImageOptions struct {
	Decoder Decoder
	Format  Formatter
	Scale   float64
}

func (o ImageOptions) decoder() Decoder {
	if o.Decoder == nil {
		return StdDecoder
	}
	return o.Decoder
}

// LoadImage reads and decodes the file at path. A missing file or
// undecodable content gives a placeholder block, never an error.
func LoadImage(path string, opts ImageOptions) Block {
	f, err := os.Open(path)
	if err != nil {
		code := FileNotFound
		if !errors.Is(err, fs.ErrNotExist) {
			code = CannotDecode
		}
		return NewPlaceholder(Problem{Code: code, Subject: filepath.Base(path), Err: err}, opts.Format)
	}
	defer f.Close()
	return decodeFrom(filepath.Base(path), f, opts)
}

// DecodeImage decodes data named name. Undecodable data gives a
// placeholder block.
func DecodeImage(name string, data []byte, opts ImageOptions) Block {
	return decodeFrom(name, bytes.NewReader(data), opts)
}

func decodeFrom(name string, r io.Reader, opts ImageOptions) Block {
	img, err := opts.decoder().Decode(r)
	if err == nil && img == nil {
		err = errors.New("block: decoder returned no image")
	}
	if err != nil {
		return NewPlaceholder(Problem{Code: CannotDecode, Subject: name, Err: err}, opts.Format)
	}
	return NewImage(img, opts.Scale)
}
