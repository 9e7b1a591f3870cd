package scene

// Material is a physically-based surface description. Colors are linear
// RGB in [0,1].
type Material struct {
	Name         string
	BaseColor    [3]float32
	Roughness    float32
	Metalness    float32
	Clearcoat    float32
	Sheen        float32
	SheenColor   [3]float32
	Transmission float32

	// Freckles is the density of the procedural freckle texture, 0 for
	// none. Only skin uses it.
	Freckles float32

	released bool
}

// Released reports whether the owning graph disposed this material.
func (m *Material) Released() bool {
	return m.released
}
