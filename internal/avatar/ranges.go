package avatar

import "github.com/Faultbox/avatar-forge/pkg/math"

// Vertical placement. Every upper-body feature follows body height with
// its own literal range, so all features rise in lockstep.
var (
	TorsoY = math.Range{Lo: 0.95, Hi: 1.25}
	HeadY  = math.Range{Lo: 1.4, Hi: 1.9}
	EyeY   = math.Range{Lo: 1.43, Hi: 1.93}
	NoseY  = math.Range{Lo: 1.38, Hi: 1.88}
	MouthY = math.Range{Lo: 1.31, Hi: 1.81}
	EarY   = math.Range{Lo: 1.41, Hi: 1.91}
	HairY  = math.Range{Lo: 1.5, Hi: 2.0}
	ClothY = math.Range{Lo: 0.9, Hi: 1.2}
)

// Head.
var (
	HeadWidthScale  = math.Range{Lo: 0.9, Hi: 1.2}
	HeadHeightScale = math.Range{Lo: 0.9, Hi: 1.25}
	JawWidthScale   = math.Range{Lo: 0.95, Hi: 1.08}
	ChinDepthScale  = math.Range{Lo: 0.95, Hi: 1.1}
)

// HeadRadius is the unscaled head sphere radius.
const HeadRadius = 0.22

// Face.
var (
	EyeSpacing  = math.Range{Lo: 0.06, Hi: 0.1}
	EyeRadius   = math.Range{Lo: 0.022, Hi: 0.036}
	NoseWidth   = math.Range{Lo: 0.7, Hi: 1.4}
	NoseLength  = math.Range{Lo: 0.05, Hi: 0.1}
	LipRadius   = math.Range{Lo: 0.01, Hi: 0.024}
	EarScale    = math.Range{Lo: 0.035, Hi: 0.06}
	MouthLength = float32(0.07)
)

// Body.
var (
	TorsoRadius    = math.Range{Lo: 0.2, Hi: 0.32}
	TorsoLength    = math.Range{Lo: 0.45, Hi: 0.7}
	MuscleBulk     = math.Range{Lo: 1.0, Hi: 1.15}
	ShoulderScale  = math.Range{Lo: 0.9, Hi: 1.3}
	NeckDepthScale = math.Range{Lo: 0.85, Hi: 1.1}
	PostureTilt    = math.Range{Lo: -0.06, Hi: 0.12}
)

// Hair.
var (
	HairLayerRadius = math.Range{Lo: 0.4, Hi: 0.85}
	HairLayerHeight = math.Range{Lo: 0.15, Hi: 0.9}
	HairCurlTwist   = math.Range{Lo: 0, Hi: 0.35}
)

// HairLayerCount is the number of layers for every style but buzz.
const HairLayerCount = 6

// HairGroupScale shrinks the unit-sized hair layers onto the head.
const HairGroupScale = 0.32

// HairSecondaryBlend is the secondary-color share of the top layer.
const HairSecondaryBlend = 0.6

// BuzzScale is the scale of the single buzz-cut shell relative to the
// head.
const BuzzScale = 1.04

// Cloth.
var (
	ClothWidth  = math.Range{Lo: 0.55, Hi: 0.75}
	ClothHeight = math.Range{Lo: 0.6, Hi: 0.8}
)

// Cloth grid resolution.
const (
	ClothSegmentsX = 16
	ClothSegmentsY = 20
)
