package avatar

import (
	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/math"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

var lipTint = params.Color{R: 0xb0, G: 0x4a, B: 0x4a}

// SkinMaterial derives the skin surface from the skin section.
func SkinMaterial(s params.Skin) *scene.Material {
	return &scene.Material{
		Name:         "skin",
		BaseColor:    s.Tone.Linear(),
		Roughness:    float32(0.35 + s.Roughness*0.55),
		Clearcoat:    float32(s.Sheen * 0.3),
		Sheen:        float32(s.Sheen * 0.6),
		SheenColor:   s.Tone.Linear(),
		Transmission: float32(s.Subsurface * 0.15),
		Freckles:     float32(s.Freckles),
	}
}

// LipMaterial tints the skin tone towards red.
func LipMaterial(s params.Skin) *scene.Material {
	return &scene.Material{
		Name:         "lips",
		BaseColor:    s.Tone.Mix(lipTint, 0.45),
		Roughness:    float32(0.3 + s.Roughness*0.3),
		Sheen:        float32(s.Sheen * 0.4),
		SheenColor:   lipTint.Linear(),
		Transmission: float32(s.Subsurface * 0.1),
	}
}

// EyeMaterial is a glossy dark iris.
func EyeMaterial() *scene.Material {
	return &scene.Material{
		Name:      "eye",
		BaseColor: [3]float32{0.05, 0.05, 0.06},
		Roughness: 0.1,
		Clearcoat: 1,
	}
}

// HairMaterial returns the material for a hair layer whose vertical offset
// fraction is t: layer 0 is the pure primary color, the top layer carries
// HairSecondaryBlend of the secondary color.
func HairMaterial(h params.Hair, t float64) *scene.Material {
	return &scene.Material{
		Name:       "hair",
		BaseColor:  h.Color.Mix(h.SecondaryColor, t*HairSecondaryBlend),
		Roughness:  float32(0.45 + h.Curl*0.3),
		Sheen:      0.5,
		SheenColor: h.SecondaryColor.Linear(),
	}
}

type outfitTweak struct {
	roughness float64
	clearcoat float64
	sheen     float64
}

var outfitTweaks = map[params.Outfit]outfitTweak{
	params.OutfitCasual:   {0, 0, 1},
	params.OutfitAthletic: {-0.1, 0, 1.2},
	params.OutfitFormal:   {-0.05, 0.2, 1},
	params.OutfitStreet:   {0.05, 0, 0.8},
}

// ClothingMaterial derives the garment surface: primary color as base,
// secondary as sheen tint.
func ClothingMaterial(c params.Clothing) *scene.Material {
	tw, ok := outfitTweaks[c.Outfit]
	if !ok {
		tw = outfitTweaks[params.OutfitCasual]
	}
	return &scene.Material{
		Name:       "clothing",
		BaseColor:  c.PrimaryColor.Linear(),
		Roughness:  unit(0.9 - c.FabricSheen*0.6 + tw.roughness),
		Clearcoat:  unit(c.FabricSheen*0.4 + tw.clearcoat),
		Sheen:      unit(c.FabricSheen * tw.sheen),
		SheenColor: c.SecondaryColor.Linear(),
	}
}

func unit(v float64) float32 {
	return float32(math.Clamp01(v))
}
