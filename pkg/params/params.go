// Package params defines the avatar parameter set: six sections of unit
// fractions, colors and enumerations that fully describe an avatar.
//
// Every fraction is interpreted in [0,1]. Consumers interpolate it into a
// feature-specific physical range; see internal/avatar.
package params

// Facial holds face feature proportions.
type Facial struct {
	EyeSpacing  float64 `yaml:"eye_spacing" json:"eyeSpacing"`
	EyeSize     float64 `yaml:"eye_size" json:"eyeSize"`
	NoseWidth   float64 `yaml:"nose_width" json:"noseWidth"`
	NoseLength  float64 `yaml:"nose_length" json:"noseLength"`
	LipFullness float64 `yaml:"lip_fullness" json:"lipFullness"`
	EarSize     float64 `yaml:"ear_size" json:"earSize"`
}

// Head holds skull and neck proportions.
type Head struct {
	HeadHeight     float64 `yaml:"head_height" json:"headHeight"`
	HeadWidth      float64 `yaml:"head_width" json:"headWidth"`
	ChinDefinition float64 `yaml:"chin_definition" json:"chinDefinition"`
	JawWidth       float64 `yaml:"jaw_width" json:"jawWidth"`
	NeckThickness  float64 `yaml:"neck_thickness" json:"neckThickness"`
}

// Skin holds skin tone and surface response.
type Skin struct {
	Tone       Color   `yaml:"tone" json:"tone"`
	Roughness  float64 `yaml:"roughness" json:"roughness"`
	Sheen      float64 `yaml:"sheen" json:"sheen"`
	Subsurface float64 `yaml:"subsurface" json:"subsurface"`
	Freckles   float64 `yaml:"freckles" json:"freckles"`
}

// Hair holds hair style, colors and shape.
type Hair struct {
	Style          HairStyle `yaml:"style" json:"style"`
	Color          Color     `yaml:"color" json:"color"`
	SecondaryColor Color     `yaml:"secondary_color" json:"secondaryColor"`
	Length         float64   `yaml:"length" json:"length"`
	Curl           float64   `yaml:"curl" json:"curl"`
	Volume         float64   `yaml:"volume" json:"volume"`
}

// Body holds overall body proportions.
type Body struct {
	Height        float64 `yaml:"height" json:"height"`
	Weight        float64 `yaml:"weight" json:"weight"`
	Muscle        float64 `yaml:"muscle" json:"muscle"`
	Posture       float64 `yaml:"posture" json:"posture"`
	ShoulderWidth float64 `yaml:"shoulder_width" json:"shoulderWidth"`
}

// Clothing holds outfit selection and fabric response.
type Clothing struct {
	Outfit         Outfit  `yaml:"outfit" json:"outfit"`
	PrimaryColor   Color   `yaml:"primary_color" json:"primaryColor"`
	SecondaryColor Color   `yaml:"secondary_color" json:"secondaryColor"`
	FabricSheen    float64 `yaml:"fabric_sheen" json:"fabricSheen"`
	Layering       float64 `yaml:"layering" json:"layering"`
}

// Set is a complete avatar description. All fields are required; the zero
// value is structurally valid but not a sensible avatar, use Default.
type Set struct {
	Facial   Facial   `yaml:"facial" json:"facial"`
	Head     Head     `yaml:"head" json:"head"`
	Skin     Skin     `yaml:"skin" json:"skin"`
	Hair     Hair     `yaml:"hair" json:"hair"`
	Body     Body     `yaml:"body" json:"body"`
	Clothing Clothing `yaml:"clothing" json:"clothing"`
}

// Default returns the parameter set a new session starts with.
func Default() Set {
	return Set{
		Facial: Facial{
			EyeSpacing:  0.5,
			EyeSize:     0.5,
			NoseWidth:   0.5,
			NoseLength:  0.5,
			LipFullness: 0.5,
			EarSize:     0.5,
		},
		Head: Head{
			HeadHeight:     0.5,
			HeadWidth:      0.5,
			ChinDefinition: 0.5,
			JawWidth:       0.5,
			NeckThickness:  0.5,
		},
		Skin: Skin{
			Tone:       Color{R: 0xc6, G: 0x86, B: 0x42},
			Roughness:  0.5,
			Sheen:      0.3,
			Subsurface: 0.6,
			Freckles:   0.1,
		},
		Hair: Hair{
			Style:          HairMedium,
			Color:          Color{R: 0x2c, G: 0x1b, B: 0x12},
			SecondaryColor: Color{R: 0x6b, G: 0x44, B: 0x23},
			Length:         0.5,
			Curl:           0.3,
			Volume:         0.5,
		},
		Body: Body{
			Height:        0.5,
			Weight:        0.5,
			Muscle:        0.4,
			Posture:       0.5,
			ShoulderWidth: 0.5,
		},
		Clothing: Clothing{
			Outfit:         OutfitCasual,
			PrimaryColor:   Color{R: 0x3a, G: 0x5b, B: 0x8c},
			SecondaryColor: Color{R: 0xe8, G: 0xe4, B: 0xd8},
			FabricSheen:    0.3,
			Layering:       0.4,
		},
	}
}

// Clamp forces every fraction into [0,1]. Enumerations are not touched.
func (s *Set) Clamp() {
	for _, sec := range sections {
		for _, f := range sec.fields {
			if f.kind != kindFraction {
				continue
			}
			p := f.ptr(s).(*float64)
			*p = clamp01(*p)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
