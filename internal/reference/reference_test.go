package reference

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/webp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := pngBytes(t, 640, 320)
	img, err := Decode("face.png", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Format != "png" {
		t.Errorf("format = %q", img.Format)
	}
	if img.Size != len(data) || img.Width != 640 || img.Height != 320 {
		t.Errorf("unexpected metadata: size=%d %dx%d", img.Size, img.Width, img.Height)
	}
	if len(img.ID) != 16 {
		t.Errorf("id = %q, want 16 hex chars", img.ID)
	}
	if got := img.Thumbnail.Bounds(); got.Dx() != 256 || got.Dy() != 128 {
		t.Errorf("thumbnail bounds = %v", got)
	}

	again, _ := Decode("other-name.png", data)
	if again.ID != img.ID {
		t.Error("same content produced different IDs")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrEmpty},
		{"too large", make([]byte, MaxSize+1), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.name, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(16 * x), G: uint8(16 * y), B: 200, A: 255})
		}
	}
	return img
}

// tgaBytes builds an uncompressed 24-bit top-left TGA with a v2 footer.
func tgaBytes(w, h int) []byte {
	var buf bytes.Buffer
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true color
	header[12], header[13] = byte(w), byte(w>>8)
	header[14], header[15] = byte(h), byte(h>>8)
	header[16] = 24
	header[17] = 0x20
	buf.Write(header)
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{200, 100, 50})
	}
	buf.Write(make([]byte, 8))
	buf.WriteString("TRUEVISION-XFILE.\x00")
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	src := testImage(8, 6)
	encode := func(fn func(*bytes.Buffer) error) []byte {
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"face.png", encode(func(b *bytes.Buffer) error { return png.Encode(b, src) }), "png"},
		{"face.jpg", encode(func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) }), "jpeg"},
		{"face.gif", encode(func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) }), "gif"},
		{"face.webp", encode(func(b *bytes.Buffer) error { return nativewebp.Encode(b, src, nil) }), "webp"},
		{"face.TGA", tgaBytes(8, 6), "tga"},
		{"upload.bin", encode(func(b *bytes.Buffer) error { return png.Encode(b, src) }), "png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.name, tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Format != tt.format {
				t.Errorf("format = %q, want %q", img.Format, tt.format)
			}
			if img.Width != 8 || img.Height != 6 {
				t.Errorf("size = %dx%d, want 8x6", img.Width, img.Height)
			}
		})
	}
}

func TestDecodeCorruptPNG(t *testing.T) {
	data := pngBytes(t, 4, 4)[:20]
	_, err := Decode("broken.png", data)
	if err == nil || errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want a png decode error", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode("notes.txt", []byte("definitely not an image")); err == nil {
		t.Error("garbage accepted")
	}
}

func TestReadStopsPastLimit(t *testing.T) {
	_, err := Read("big", bytes.NewReader(make([]byte, MaxSize+100)))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestThumbnailSmallImageUnscaled(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	got := Thumbnail(src, 256)
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 30 {
		t.Errorf("bounds = %v", got.Bounds())
	}
}

func TestEncodeWebPDecodes(t *testing.T) {
	img, err := Decode("face.png", pngBytes(t, 64, 48))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeWebP(&buf, img.Thumbnail); err != nil {
		t.Fatalf("EncodeWebP: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("webp decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("webp size = %dx%d", cfg.Width, cfg.Height)
	}
}
