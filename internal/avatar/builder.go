// Package avatar builds the procedural avatar scene graph from a parameter
// set. Every fraction is mapped into a physical quantity through the named
// ranges in ranges.go.
package avatar

import (
	gomath "math"
	"strconv"

	"github.com/Faultbox/avatar-forge/internal/geometry"
	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/math"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

// Node names in the built graph.
const (
	NameRoot   = "avatar"
	NameTorso  = "torso"
	NameHead   = "head"
	NameEyeL   = "eye_l"
	NameEyeR   = "eye_r"
	NameNose   = "nose"
	NameMouth  = "mouth"
	NameEarL   = "ear_l"
	NameEarR   = "ear_r"
	NameHair   = "hair"
	NameBuzz   = "hair_buzz"
	NameCloth  = "cloth"
	hairPrefix = "hair_layer_"
)

// HairLayer describes one stacked hair primitive.
type HairLayer struct {
	Radius         float32
	Height         float32
	OffsetFraction float64
}

// styleShape scales layer height and radius per hair style.
var styleShape = map[params.HairStyle]struct{ height, radius float32 }{
	params.HairShort:  {0.5, 1},
	params.HairMedium: {1, 1},
	params.HairLong:   {1.6, 1},
	params.HairBraids: {1.3, 0.8},
}

// HairLayers returns the layer stack for every style but buzz, which has
// no layers.
func HairLayers(h params.Hair) []HairLayer {
	if h.Style == params.HairBuzz {
		return nil
	}
	shape, ok := styleShape[h.Style]
	if !ok {
		shape = styleShape[params.HairMedium]
	}
	layers := make([]HairLayer, HairLayerCount)
	for i := range layers {
		t := float64(i) / float64(HairLayerCount-1)
		layers[i] = HairLayer{
			Radius:         HairLayerRadius.At(h.Volume) * float32(1-0.12*t) * shape.radius,
			Height:         HairLayerHeight.At(h.Length) * float32(1-0.4*t) * shape.height,
			OffsetFraction: t,
		}
	}
	return layers
}

// Build creates the avatar scene graph for p. It is pure: identical sets
// produce identical graphs.
func Build(p params.Set) *scene.Graph {
	g := scene.New(NameRoot)
	root := g.Root()

	skin := SkinMaterial(p.Skin)
	clothing := ClothingMaterial(p.Clothing)
	h := p.Body.Height

	// Torso.
	torsoRadius := TorsoRadius.At(p.Body.Weight)
	neckDepth := NeckDepthScale.At(p.Head.NeckThickness)
	g.AddPrimitive(root, NameTorso, scene.ShapeCapsule, scene.Transform{
		Position: math.Vec3{Y: TorsoY.At(h)},
		Rotation: math.Vec3{X: PostureTilt.At(1 - p.Body.Posture)},
		Scale: math.Vec3{
			X: ShoulderScale.At(p.Body.ShoulderWidth) * MuscleBulk.At(p.Body.Muscle),
			Y: 1,
			Z: neckDepth,
		},
	}, geometry.Capsule(torsoRadius, TorsoLength.At(h), geometry.CapsuleCapSegments, geometry.CapsuleRadialSegment), clothing)

	// Head.
	headW := HeadWidthScale.At(p.Head.HeadWidth)
	headH := HeadHeightScale.At(p.Head.HeadHeight)
	headD := ChinDepthScale.At(p.Head.ChinDefinition)
	g.AddPrimitive(root, NameHead, scene.ShapeSphere, scene.Transform{
		Position: math.Vec3{Y: HeadY.At(h)},
		Scale:    math.Vec3{X: headW * JawWidthScale.At(p.Head.JawWidth), Y: headH, Z: headD},
	}, geometry.Sphere(HeadRadius, geometry.SphereWidthSegments, geometry.SphereHeightSegments), skin)

	buildFace(g, p, headW, headD, skin)
	buildHair(g, p, headW, headH, headD)

	// Cloth overlay in front of the torso.
	cloth := geometry.Plane(ClothWidth.At(p.Body.ShoulderWidth), ClothHeight.At(p.Clothing.Layering), ClothSegmentsX, ClothSegmentsY)
	g.AddDeformable(root, NameCloth, scene.ShapePlane, scene.Transform{
		Position: math.Vec3{Y: ClothY.At(h), Z: torsoRadius*neckDepth + 0.03},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}, cloth, clothing)

	return g
}

func buildFace(g *scene.Graph, p params.Set, headW, headD float32, skin *scene.Material) {
	root := g.Root()
	h := p.Body.Height
	front := HeadRadius * headD
	eye := EyeMaterial()

	eyeR := EyeRadius.At(p.Facial.EyeSize)
	spacing := EyeSpacing.At(p.Facial.EyeSpacing) * headW
	for i, name := range []string{NameEyeL, NameEyeR} {
		side := float32(-1)
		if i == 1 {
			side = 1
		}
		g.AddPrimitive(root, name, scene.ShapeSphere, scene.Transform{
			Position: math.Vec3{X: side * spacing, Y: EyeY.At(h), Z: front * 0.88},
			Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		}, geometry.Sphere(eyeR, 12, 8), eye)
	}

	noseLen := NoseLength.At(p.Facial.NoseLength)
	g.AddPrimitive(root, NameNose, scene.ShapeCylinder, scene.Transform{
		Position: math.Vec3{Y: NoseY.At(h), Z: front + noseLen*0.3},
		Rotation: math.Vec3{X: gomath.Pi / 2},
		Scale:    math.Vec3{X: NoseWidth.At(p.Facial.NoseWidth), Y: 1, Z: 1},
	}, geometry.Cylinder(0.008, 0.018, noseLen, 12), skin)

	g.AddPrimitive(root, NameMouth, scene.ShapeCapsule, scene.Transform{
		Position: math.Vec3{Y: MouthY.At(h), Z: front * 0.92},
		Rotation: math.Vec3{Z: gomath.Pi / 2},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}, geometry.Capsule(LipRadius.At(p.Facial.LipFullness), MouthLength, 4, 12), LipMaterial(p.Skin))

	ear := EarScale.At(p.Facial.EarSize)
	for i, name := range []string{NameEarL, NameEarR} {
		side := float32(-1)
		if i == 1 {
			side = 1
		}
		g.AddPrimitive(root, name, scene.ShapeSphere, scene.Transform{
			Position: math.Vec3{X: side * HeadRadius * headW, Y: EarY.At(h)},
			Scale:    math.Vec3{X: 0.45 * ear, Y: ear, Z: 0.7 * ear},
		}, geometry.Sphere(1, 12, 8), skin)
	}
}

func buildHair(g *scene.Graph, p params.Set, headW, headH, headD float32) {
	h := p.Body.Height
	group := g.AddGroup(g.Root(), NameHair, scene.Transform{
		Position: math.Vec3{Y: HairY.At(h), Z: -0.015},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	})

	if p.Hair.Style == params.HairBuzz {
		// Centre the shell on the head.
		g.AddPrimitive(group, NameBuzz, scene.ShapeSphere, scene.Transform{
			Position: math.Vec3{Y: HeadY.At(h) - HairY.At(h), Z: 0.015},
			Scale:    math.Vec3{X: BuzzScale * headW, Y: BuzzScale * headH * 0.95, Z: BuzzScale * headD},
		}, geometry.Sphere(HeadRadius, geometry.SphereWidthSegments, geometry.SphereHeightSegments), HairMaterial(p.Hair, 0))
		return
	}

	twist := HairCurlTwist.At(p.Hair.Curl)
	for i, layer := range HairLayers(p.Hair) {
		r := layer.Radius * HairGroupScale
		height := layer.Height * HairGroupScale
		g.AddPrimitive(group, hairLayerName(i), scene.ShapeCylinder, scene.Transform{
			Position: math.Vec3{Y: float32(layer.OffsetFraction)*0.08 - height*0.5},
			Rotation: math.Vec3{Y: twist * float32(i)},
			Scale:    math.Vec3{X: headW, Y: 1, Z: headD},
		}, geometry.Cylinder(r*0.9, r, height, geometry.CylinderRadialSegs), HairMaterial(p.Hair, layer.OffsetFraction))
	}
}

func hairLayerName(i int) string {
	return hairPrefix + strconv.Itoa(i)
}

// HairNodes returns the ids of every hair primitive under the hair group.
func HairNodes(g *scene.Graph) []scene.NodeID {
	group, ok := g.Find(NameHair)
	if !ok {
		return nil
	}
	return append([]scene.NodeID(nil), g.Children(group)...)
}
