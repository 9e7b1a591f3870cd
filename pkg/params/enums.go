package params

import (
	"errors"
	"fmt"
)

// ErrInvalidEnum is returned when a style or outfit name is not declared.
var ErrInvalidEnum = errors.New("invalid enumeration value")

// HairStyle selects the hair representation.
type HairStyle string

// Hair styles.
const (
	HairBuzz   HairStyle = "buzz"
	HairShort  HairStyle = "short"
	HairMedium HairStyle = "medium"
	HairLong   HairStyle = "long"
	HairBraids HairStyle = "braids"
)

// HairStyles lists every declared style.
var HairStyles = []HairStyle{HairBuzz, HairShort, HairMedium, HairLong, HairBraids}

// ParseHairStyle validates a style name.
func ParseHairStyle(s string) (HairStyle, error) {
	for _, h := range HairStyles {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: hair style %q", ErrInvalidEnum, s)
}

// UnmarshalText validates the style when decoding YAML or JSON.
func (h *HairStyle) UnmarshalText(text []byte) error {
	v, err := ParseHairStyle(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Outfit selects the clothing preset.
type Outfit string

// Outfits.
const (
	OutfitCasual   Outfit = "casual"
	OutfitAthletic Outfit = "athletic"
	OutfitFormal   Outfit = "formal"
	OutfitStreet   Outfit = "street"
)

// Outfits lists every declared outfit.
var Outfits = []Outfit{OutfitCasual, OutfitAthletic, OutfitFormal, OutfitStreet}

// ParseOutfit validates an outfit name.
func ParseOutfit(s string) (Outfit, error) {
	for _, o := range Outfits {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: outfit %q", ErrInvalidEnum, s)
}

// UnmarshalText validates the outfit when decoding YAML or JSON.
func (o *Outfit) UnmarshalText(text []byte) error {
	v, err := ParseOutfit(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
