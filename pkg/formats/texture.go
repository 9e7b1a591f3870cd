package formats

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
)

// FreckleTextureSize is the edge length of the generated freckle map.
const FreckleTextureSize = 64

// FreckleTexture renders a deterministic freckle mask over the base skin
// color as a PNG. density in [0,1] controls how many spots are drawn.
func FreckleTexture(base [3]float32, density float32) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, FreckleTextureSize, FreckleTextureSize))
	bg := color.NRGBA{R: to8(base[0]), G: to8(base[1]), B: to8(base[2]), A: 255}
	spot := color.NRGBA{R: to8(base[0] * 0.72), G: to8(base[1] * 0.6), B: to8(base[2] * 0.5), A: 255}

	for y := 0; y < FreckleTextureSize; y++ {
		for x := 0; x < FreckleTextureSize; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}

	rng := rand.New(rand.NewPCG(0x5eed, uint64(density*1000)))
	spots := int(density * 160)
	for i := 0; i < spots; i++ {
		cx, cy := rng.IntN(FreckleTextureSize), rng.IntN(FreckleTextureSize)
		// Freckles concentrate on the upper half of the UV map (the face
		// band of the head sphere).
		cy /= 2
		img.SetNRGBA(cx, cy, spot)
		if rng.IntN(3) == 0 && cx+1 < FreckleTextureSize {
			img.SetNRGBA(cx+1, cy, spot)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
