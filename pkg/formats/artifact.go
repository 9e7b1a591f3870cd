package formats

// Artifact is an encoded export ready to hand to a download collaborator.
// It is produced per call and not retained.
type Artifact struct {
	Data     []byte
	MIME     string
	Filename string
}

// Size returns the payload length in bytes.
func (a *Artifact) Size() int {
	return len(a.Data)
}
