// Package reference handles user-uploaded reference images. They are shown
// next to the editor and never feed the avatar builder.
package reference

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxSize is the largest accepted upload.
const MaxSize = 10 << 20

// ThumbnailSize is the default bounding box edge for thumbnails.
const ThumbnailSize = 256

var (
	ErrTooLarge    = errors.New("reference: image exceeds 10 MiB")
	ErrEmpty       = errors.New("reference: empty upload")
	ErrUnsupported = errors.New("reference: unsupported image format")
)

// Image is an accepted upload.
type Image struct {
	ID        string // content hash prefix, stable across re-uploads
	Name      string
	Format    string
	Data      []byte
	Size      int
	Width     int
	Height    int
	Thumbnail image.Image
}

// Decode validates an upload and builds its thumbnail. PNG, JPEG, GIF,
// WebP and TGA are accepted.
func Decode(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, name, len(data))
	}

	img, format, err := decodeImage(name, data)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	b := img.Bounds()
	return &Image{
		ID:        hex.EncodeToString(sum[:8]),
		Name:      name,
		Format:    format,
		Data:      data,
		Size:      len(data),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Thumbnail: Thumbnail(img, ThumbnailSize),
	}, nil
}

// format is one accepted upload type. image.Decode is not used: the tga
// package registers an empty magic string that matches every input.
type format struct {
	name   string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}

var formats = []format{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", func(b []byte) bool { return prefix("GIF87a")(b) || prefix("GIF89a")(b) }, gif.Decode},
	{"webp", func(b []byte) bool { return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" }, webp.Decode},
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// decodeImage picks a decoder by magic number. TGA has none, so it is
// tried for .tga names and for data no other format claims.
func decodeImage(name string, data []byte) (image.Image, string, error) {
	isTGA := strings.EqualFold(filepath.Ext(name), ".tga")
	if !isTGA {
		for _, f := range formats {
			if !f.match(data) {
				continue
			}
			img, err := f.decode(bytes.NewReader(data))
			if err != nil {
				return nil, "", fmt.Errorf("reference: decode %s: %w", name, err)
			}
			return img, f.name, nil
		}
	}

	img, err := tga.Decode(bytes.NewReader(data))
	if err != nil {
		if isTGA {
			return nil, "", fmt.Errorf("reference: decode %s: %w", name, err)
		}
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return img, "tga", nil
}

// Read is Decode for a stream; it stops reading one byte past MaxSize.
func Read(name string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reference: read %s: %w", name, err)
	}
	return Decode(name, data)
}

// Thumbnail scales img to fit a size×size box keeping its aspect ratio.
// Images already inside the box are copied unscaled.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	scale := float64(size) / float64(max(w, h))
	tw := max(1, int(float64(w)*scale+0.5))
	th := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("reference: webp encode: %w", err)
	}
	return nil
}
