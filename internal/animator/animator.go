// Package animator applies the per-frame hair sway and cloth wave to a
// built avatar graph.
package animator

import (
	gomath "math"

	"github.com/Faultbox/avatar-forge/internal/avatar"
	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/math"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

// Sway is the hair group rotation for one frame.
type Sway struct {
	X, Z float32
}

// HairSway returns the hair group rotation at elapsed seconds t. Frequency
// rises with curl and amplitude with length.
func HairSway(t, curl, length float64) Sway {
	freq := 1.2 + curl*0.8
	amp := 0.02 + length*0.06
	return Sway{
		X: float32(gomath.Cos(t*freq*0.7) * amp * 0.5),
		Z: float32(gomath.Sin(t*freq) * amp),
	}
}

// WindStrength is the wind multiplier; it never drops below 0.3.
func WindStrength(layering, fabricSheen float64) float64 {
	return 0.3 + layering*0.4 + fabricSheen*0.3
}

// ClothOffset is the Z displacement of a cloth vertex with rest
// coordinates (x, y) at elapsed seconds t: two travelling waves plus wind.
func ClothOffset(x, y, t, layering, fabricSheen float64) float64 {
	wave := 0.02*gomath.Sin(4*x+2*t) + 0.015*gomath.Sin(3*y+1.5*t)
	wind := 0.01 * gomath.Sin(0.8*t+2*x) * WindStrength(layering, fabricSheen)
	return wave + wind
}

// Tick poses g for elapsed seconds t. The hair rotation is set absolutely
// and the cloth is recomputed from its rest buffer, so calling Tick twice
// with the same arguments yields the same state.
//
// p must hold finite values; NaN input is not guarded against.
func Tick(t float64, p params.Set, g *scene.Graph) {
	if g.Released() {
		return
	}
	if id, ok := g.Find(avatar.NameHair); ok {
		sway := HairSway(t, p.Hair.Curl, p.Hair.Length)
		n := g.Node(id)
		n.Transform.Rotation = math.Vec3{X: sway.X, Y: n.Transform.Rotation.Y, Z: sway.Z}
	}
	if id, ok := g.Find(avatar.NameCloth); ok {
		deform(g.Node(id), t, p.Clothing)
	}
}

func deform(n *scene.Node, t float64, c params.Clothing) {
	if n.Kind != scene.KindDeformable || n.Mesh == nil {
		return
	}
	pos := n.Mesh.Positions
	for i, rest := range n.Rest {
		off := ClothOffset(float64(rest[0]), float64(rest[1]), t, c.Layering, c.FabricSheen)
		pos[i] = [3]float32{rest[0], rest[1], rest[2] + float32(off)}
	}
	n.Mesh.ComputeNormals()
}
