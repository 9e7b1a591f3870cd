package geometry

import (
	"math"

	"github.com/chewxy/math32"
)

// Default tessellation used by the avatar builder.
const (
	SphereWidthSegments  = 24
	SphereHeightSegments = 16
	CapsuleCapSegments   = 6
	CapsuleRadialSegment = 16
	CylinderRadialSegs   = 20
)

func sincos(a float64) (float32, float32) {
	return math32.Sincos(float32(a))
}

// Sphere builds a UV sphere centred at the origin. Rows run from the north
// pole (+Y) to the south pole; each row has widthSegs+1 vertices so the
// seam carries duplicated positions.
func Sphere(radius float32, widthSegs, heightSegs int) *Mesh {
	m := &Mesh{}
	for y := 0; y <= heightSegs; y++ {
		v := float64(y) / float64(heightSegs)
		sinT, cosT := sincos(v * math.Pi)
		for x := 0; x <= widthSegs; x++ {
			u := float64(x) / float64(widthSegs)
			sinP, cosP := sincos(u * 2 * math.Pi)
			n := [3]float32{-cosP * sinT, cosT, sinP * sinT}
			m.Positions = append(m.Positions, [3]float32{n[0] * radius, n[1] * radius, n[2] * radius})
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, [2]float32{float32(u), float32(1 - v)})
		}
	}
	m.Indices = gridIndices(widthSegs, heightSegs, func(x, y int) bool {
		// Pole rows produce one degenerate triangle per quad; skip it.
		return y == 0
	}, func(x, y int) bool {
		return y == heightSegs-1
	})
	return m
}

// Capsule builds a capsule along Y: a cylinder of the given length capped
// by two hemispheres. Total height is length + 2*radius.
func Capsule(radius, length float32, capSegs, radialSegs int) *Mesh {
	m := &Mesh{}
	half := length / 2
	rows := 2*capSegs + 1 // top cap rows, one cylinder span, bottom cap rows

	for y := 0; y <= rows; y++ {
		var ringY, ringR, ny, nr float32
		switch {
		case y <= capSegs:
			// Top hemisphere, pole to equator.
			s, c := sincos(float64(y) / float64(capSegs) * math.Pi / 2)
			ringR, ringY = radius*s, half+radius*c
			nr, ny = s, c
		default:
			// Bottom hemisphere, equator to pole.
			k := y - capSegs - 1
			s, c := sincos(float64(k) / float64(capSegs) * math.Pi / 2)
			ringR, ringY = radius*c, -half-radius*s
			nr, ny = c, -s
		}
		for x := 0; x <= radialSegs; x++ {
			sinP, cosP := sincos(float64(x) / float64(radialSegs) * 2 * math.Pi)
			m.Positions = append(m.Positions, [3]float32{-cosP * ringR, ringY, sinP * ringR})
			m.Normals = append(m.Normals, [3]float32{-cosP * nr, ny, sinP * nr})
			m.UVs = append(m.UVs, [2]float32{float32(x) / float32(radialSegs), 1 - float32(y)/float32(rows)})
		}
	}
	m.Indices = gridIndices(radialSegs, rows, func(x, y int) bool {
		return y == 0
	}, func(x, y int) bool {
		return y == rows-1
	})
	return m
}

// Cylinder builds a closed cylinder (or truncated cone) along Y centred at
// the origin.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegs int) *Mesh {
	m := &Mesh{}
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	// Side: two rings.
	for y := 0; y <= 1; y++ {
		r, py := radiusTop, half
		if y == 1 {
			r, py = radiusBottom, -half
		}
		for x := 0; x <= radialSegs; x++ {
			sinP, cosP := sincos(float64(x) / float64(radialSegs) * 2 * math.Pi)
			m.Positions = append(m.Positions, [3]float32{r * sinP, py, r * cosP})
			n := [3]float32{sinP, slope, cosP}
			l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
			m.Normals = append(m.Normals, [3]float32{n[0] / l, n[1] / l, n[2] / l})
			m.UVs = append(m.UVs, [2]float32{float32(x) / float32(radialSegs), float32(1 - y)})
		}
	}
	m.Indices = gridIndices(radialSegs, 1, nil, nil)

	// Caps: centre vertex plus a ring with flat normals.
	addCap := func(top bool) {
		r, py, ny := radiusTop, half, float32(1)
		if !top {
			r, py, ny = radiusBottom, -half, -1
		}
		if r <= 0 {
			return
		}
		center := uint32(len(m.Positions))
		m.Positions = append(m.Positions, [3]float32{0, py, 0})
		m.Normals = append(m.Normals, [3]float32{0, ny, 0})
		m.UVs = append(m.UVs, [2]float32{0.5, 0.5})
		for x := 0; x <= radialSegs; x++ {
			sinP, cosP := sincos(float64(x) / float64(radialSegs) * 2 * math.Pi)
			m.Positions = append(m.Positions, [3]float32{r * sinP, py, r * cosP})
			m.Normals = append(m.Normals, [3]float32{0, ny, 0})
			m.UVs = append(m.UVs, [2]float32{sinP*0.5 + 0.5, cosP*0.5 + 0.5})
		}
		for x := 0; x < radialSegs; x++ {
			a, b := center+1+uint32(x), center+2+uint32(x)
			if top {
				m.Indices = append(m.Indices, a, b, center)
			} else {
				m.Indices = append(m.Indices, b, a, center)
			}
		}
	}
	addCap(true)
	addCap(false)
	return m
}

// Plane builds a grid in the XY plane facing +Z, centred at the origin.
// Vertices are laid out row by row from top (+Y) to bottom.
func Plane(width, height float32, wSegs, hSegs int) *Mesh {
	m := &Mesh{}
	for y := 0; y <= hSegs; y++ {
		py := height/2 - float32(y)*height/float32(hSegs)
		for x := 0; x <= wSegs; x++ {
			px := float32(x)*width/float32(wSegs) - width/2
			m.Positions = append(m.Positions, [3]float32{px, py, 0})
			m.Normals = append(m.Normals, [3]float32{0, 0, 1})
			m.UVs = append(m.UVs, [2]float32{float32(x) / float32(wSegs), 1 - float32(y)/float32(hSegs)})
		}
	}
	m.Indices = gridIndices(wSegs, hSegs, nil, nil)
	return m
}

// gridIndices triangulates a (cols+1) x (rows+1) vertex grid laid out row
// by row. skipA/skipB drop the first/second triangle of a quad.
func gridIndices(cols, rows int, skipA, skipB func(x, y int) bool) []uint32 {
	stride := uint32(cols + 1)
	idx := make([]uint32, 0, cols*rows*6)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			a := uint32(y)*stride + uint32(x)
			b := a + stride
			c := b + 1
			d := a + 1
			if skipA == nil || !skipA(x, y) {
				idx = append(idx, a, b, d)
			}
			if skipB == nil || !skipB(x, y) {
				idx = append(idx, b, c, d)
			}
		}
	}
	return idx
}
