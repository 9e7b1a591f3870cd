package params

import (
	"errors"
	"fmt"
)

// Field addressing errors.
var (
	ErrUnknownField = errors.New("unknown parameter field")
	ErrInvalidValue = errors.New("invalid parameter value")
)

// Section names, as used by SetField.
const (
	SectionFacial   = "facial"
	SectionHead     = "head"
	SectionSkin     = "skin"
	SectionHair     = "hair"
	SectionBody     = "body"
	SectionClothing = "clothing"
)

type fieldKind int

const (
	kindFraction fieldKind = iota
	kindColor
	kindHairStyle
	kindOutfit
)

type field struct {
	name string
	kind fieldKind
	ptr  func(*Set) any
}

type section struct {
	name   string
	fields []field
}

func frac(name string, p func(*Set) *float64) field {
	return field{name: name, kind: kindFraction, ptr: func(s *Set) any { return p(s) }}
}

func color(name string, p func(*Set) *Color) field {
	return field{name: name, kind: kindColor, ptr: func(s *Set) any { return p(s) }}
}

// sections is the declaration-ordered table behind SetField and Field.
var sections = []section{
	{SectionFacial, []field{
		frac("eyeSpacing", func(s *Set) *float64 { return &s.Facial.EyeSpacing }),
		frac("eyeSize", func(s *Set) *float64 { return &s.Facial.EyeSize }),
		frac("noseWidth", func(s *Set) *float64 { return &s.Facial.NoseWidth }),
		frac("noseLength", func(s *Set) *float64 { return &s.Facial.NoseLength }),
		frac("lipFullness", func(s *Set) *float64 { return &s.Facial.LipFullness }),
		frac("earSize", func(s *Set) *float64 { return &s.Facial.EarSize }),
	}},
	{SectionHead, []field{
		frac("headHeight", func(s *Set) *float64 { return &s.Head.HeadHeight }),
		frac("headWidth", func(s *Set) *float64 { return &s.Head.HeadWidth }),
		frac("chinDefinition", func(s *Set) *float64 { return &s.Head.ChinDefinition }),
		frac("jawWidth", func(s *Set) *float64 { return &s.Head.JawWidth }),
		frac("neckThickness", func(s *Set) *float64 { return &s.Head.NeckThickness }),
	}},
	{SectionSkin, []field{
		color("tone", func(s *Set) *Color { return &s.Skin.Tone }),
		frac("roughness", func(s *Set) *float64 { return &s.Skin.Roughness }),
		frac("sheen", func(s *Set) *float64 { return &s.Skin.Sheen }),
		frac("subsurface", func(s *Set) *float64 { return &s.Skin.Subsurface }),
		frac("freckles", func(s *Set) *float64 { return &s.Skin.Freckles }),
	}},
	{SectionHair, []field{
		{name: "style", kind: kindHairStyle, ptr: func(s *Set) any { return &s.Hair.Style }},
		color("color", func(s *Set) *Color { return &s.Hair.Color }),
		color("secondaryColor", func(s *Set) *Color { return &s.Hair.SecondaryColor }),
		frac("length", func(s *Set) *float64 { return &s.Hair.Length }),
		frac("curl", func(s *Set) *float64 { return &s.Hair.Curl }),
		frac("volume", func(s *Set) *float64 { return &s.Hair.Volume }),
	}},
	{SectionBody, []field{
		frac("height", func(s *Set) *float64 { return &s.Body.Height }),
		frac("weight", func(s *Set) *float64 { return &s.Body.Weight }),
		frac("muscle", func(s *Set) *float64 { return &s.Body.Muscle }),
		frac("posture", func(s *Set) *float64 { return &s.Body.Posture }),
		frac("shoulderWidth", func(s *Set) *float64 { return &s.Body.ShoulderWidth }),
	}},
	{SectionClothing, []field{
		{name: "outfit", kind: kindOutfit, ptr: func(s *Set) any { return &s.Clothing.Outfit }},
		color("primaryColor", func(s *Set) *Color { return &s.Clothing.PrimaryColor }),
		color("secondaryColor", func(s *Set) *Color { return &s.Clothing.SecondaryColor }),
		frac("fabricSheen", func(s *Set) *float64 { return &s.Clothing.FabricSheen }),
		frac("layering", func(s *Set) *float64 { return &s.Clothing.Layering }),
	}},
}

func lookup(sectionName, fieldName string) (field, error) {
	for _, sec := range sections {
		if sec.name != sectionName {
			continue
		}
		for _, f := range sec.fields {
			if f.name == fieldName {
				return f, nil
			}
		}
		break
	}
	return field{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, sectionName, fieldName)
}

// Sections returns every section name with its field names, in declaration
// order.
func Sections() map[string][]string {
	out := make(map[string][]string, len(sections))
	for _, sec := range sections {
		names := make([]string, len(sec.fields))
		for i, f := range sec.fields {
			names[i] = f.name
		}
		out[sec.name] = names
	}
	return out
}

// SectionNames returns the section names in declaration order.
func SectionNames() []string {
	names := make([]string, len(sections))
	for i, sec := range sections {
		names[i] = sec.name
	}
	return names
}

// Field returns the current value of one leaf field.
func (s *Set) Field(sectionName, fieldName string) (any, error) {
	f, err := lookup(sectionName, fieldName)
	if err != nil {
		return nil, err
	}
	switch p := f.ptr(s).(type) {
	case *float64:
		return *p, nil
	case *Color:
		return *p, nil
	case *HairStyle:
		return *p, nil
	case *Outfit:
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, sectionName, fieldName)
}

// SetField replaces exactly one leaf field. Fractions accept any Go
// numeric type and are clamped to [0,1]; colors accept a Color or a hex
// string; enumerations accept their own type or a string.
//
// Addressing an undeclared field is a caller error and is reported as
// ErrUnknownField; the set is left untouched on every error.
func (s *Set) SetField(sectionName, fieldName string, value any) error {
	f, err := lookup(sectionName, fieldName)
	if err != nil {
		return err
	}

	switch p := f.ptr(s).(type) {
	case *float64:
		v, ok := toFloat(value)
		if !ok {
			return invalid(sectionName, fieldName, value)
		}
		*p = clamp01(v)
	case *Color:
		switch v := value.(type) {
		case Color:
			*p = v
		case string:
			c, err := ParseColor(v)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", sectionName, fieldName, err)
			}
			*p = c
		default:
			return invalid(sectionName, fieldName, value)
		}
	case *HairStyle:
		v, err := enumString(value)
		if err != nil {
			return invalid(sectionName, fieldName, value)
		}
		h, err := ParseHairStyle(v)
		if err != nil {
			return err
		}
		*p = h
	case *Outfit:
		v, err := enumString(value)
		if err != nil {
			return invalid(sectionName, fieldName, value)
		}
		o, err := ParseOutfit(v)
		if err != nil {
			return err
		}
		*p = o
	}
	return nil
}

func invalid(sectionName, fieldName string, value any) error {
	return fmt.Errorf("%w: %s.%s = %v (%T)", ErrInvalidValue, sectionName, fieldName, value, value)
}

func enumString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case HairStyle:
		return string(v), nil
	case Outfit:
		return string(v), nil
	}
	return "", ErrInvalidValue
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
