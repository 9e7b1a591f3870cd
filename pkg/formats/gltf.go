package formats

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/math"
)

// glTF constants.
const (
	GLBMIME      = "model/gltf-binary"
	GLTFMIME     = "model/gltf+json"
	GLBFilename  = "avatar.glb"
	GLTFFilename = "avatar.gltf"

	extClearcoat    = "KHR_materials_clearcoat"
	extSheen        = "KHR_materials_sheen"
	extTransmission = "KHR_materials_transmission"
)

// glTF errors.
var (
	ErrEncode     = errors.New("gltf: encode failed")
	ErrEmptyScene = errors.New("gltf: scene has no visible geometry")
)

// GLTFOptions configures the glTF encoder.
type GLTFOptions struct {
	// Binary selects GLB output; otherwise a single JSON document with the
	// buffer embedded as a data URI.
	Binary bool
	// Textures embeds the procedural freckle texture for skin materials.
	Textures  bool
	Generator string
}

// DefaultGLTFOptions returns binary output with textures.
func DefaultGLTFOptions() GLTFOptions {
	return GLTFOptions{Binary: true, Textures: true, Generator: DefaultCreator}
}

// Result is the outcome of an asynchronous export.
type Result struct {
	Artifact *Artifact
	Err      error
}

// EncodeGLTFAsync runs EncodeGLTF on its own goroutine. g must not be
// mutated until the result arrives; pass a snapshot (scene.Graph.Clone).
// The channel receives exactly one Result and is then closed.
func EncodeGLTFAsync(ctx context.Context, g *scene.Graph, opts GLTFOptions) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		a, err := EncodeGLTF(ctx, g, opts)
		out <- Result{Artifact: a, Err: err}
	}()
	return out
}

// EncodeGLTF walks g, keeps visible nodes only, and serialises them with
// their local transforms, non-indexed triangle lists and PBR materials.
// When binary output fails the JSON form is attempted before giving up.
func EncodeGLTF(ctx context.Context, g *scene.Graph, opts GLTFOptions) (*Artifact, error) {
	if g.Released() {
		return nil, fmt.Errorf("%w: %w", ErrEncode, scene.ErrReleased)
	}
	doc, err := buildDocument(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	if opts.Binary {
		data, binErr := encodeDocument(doc, true)
		if binErr == nil {
			return &Artifact{Data: data, MIME: GLBMIME, Filename: GLBFilename}, nil
		}
		data, jsonErr := encodeDocument(doc, false)
		if jsonErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, errors.Join(binErr, jsonErr))
		}
		return &Artifact{Data: data, MIME: GLTFMIME, Filename: GLTFFilename}, nil
	}

	data, err := encodeDocument(doc, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return &Artifact{Data: data, MIME: GLTFMIME, Filename: GLTFFilename}, nil
}

func encodeDocument(doc *gltf.Document, binary bool) ([]byte, error) {
	if !binary && len(doc.Buffers) > 0 {
		// Work on a shallow copy so a failed attempt leaves doc intact.
		cp := *doc
		cp.Buffers = make([]*gltf.Buffer, len(doc.Buffers))
		for i, b := range doc.Buffers {
			nb := *b
			nb.EmbeddedResource()
			cp.Buffers[i] = &nb
		}
		doc = &cp
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type docBuilder struct {
	doc       *gltf.Document
	opts      GLTFOptions
	materials map[*scene.Material]uint32
	order     []*scene.Material
	used      map[string]bool
	meshes    int
}

func buildDocument(ctx context.Context, g *scene.Graph, opts GLTFOptions) (*gltf.Document, error) {
	b := &docBuilder{
		doc:       gltf.NewDocument(),
		opts:      opts,
		materials: make(map[*scene.Material]uint32),
		used:      make(map[string]bool),
	}
	if opts.Generator != "" {
		b.doc.Asset.Generator = opts.Generator
	}

	root := g.Root()
	if !g.Node(root).Visible {
		return nil, ErrEmptyScene
	}
	idx, err := b.node(ctx, g, root)
	if err != nil {
		return nil, err
	}
	if b.meshes == 0 {
		return nil, ErrEmptyScene
	}
	b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, idx)

	for _, ext := range []string{extClearcoat, extSheen, extTransmission} {
		if b.used[ext] {
			b.doc.ExtensionsUsed = append(b.doc.ExtensionsUsed, ext)
		}
	}

	if opts.Textures {
		if err := b.textures(); err != nil {
			return nil, fmt.Errorf("%w: texture: %w", ErrEncode, err)
		}
	}
	return b.doc, nil
}

// node appends n and its visible descendants, returning n's index.
func (b *docBuilder) node(ctx context.Context, g *scene.Graph, id scene.NodeID) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := g.Node(id)
	t := n.Transform
	gn := &gltf.Node{
		Name:        n.Name,
		Translation: t.Position.Array(),
		Rotation:    math.QuatFromEuler(t.Rotation).Array(),
		Scale:       t.Scale.Array(),
	}
	idx := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, gn)

	if n.Mesh != nil && len(n.Mesh.Positions) > 0 {
		mesh, err := b.mesh(n)
		if err != nil {
			return 0, err
		}
		gn.Mesh = gltf.Index(mesh)
	}

	for _, c := range g.Children(id) {
		if !g.Node(c).Visible {
			continue
		}
		ci, err := b.node(ctx, g, c)
		if err != nil {
			return 0, err
		}
		gn.Children = append(gn.Children, ci)
	}
	return idx, nil
}

func (b *docBuilder) mesh(n *scene.Node) (uint32, error) {
	if len(n.Mesh.Normals) != len(n.Mesh.Positions) {
		return 0, fmt.Errorf("%w: node %q has %d normals for %d positions",
			ErrEncode, n.Name, len(n.Mesh.Normals), len(n.Mesh.Positions))
	}
	soup := n.Mesh.Expand()
	attrs := map[string]uint32{
		gltf.POSITION: uint32(modeler.WritePosition(b.doc, soup.Positions)),
		gltf.NORMAL:   uint32(modeler.WriteNormal(b.doc, soup.Normals)),
	}
	if len(soup.UVs) == len(soup.Positions) {
		attrs[gltf.TEXCOORD_0] = uint32(modeler.WriteTextureCoord(b.doc, soup.UVs))
	}
	prim := &gltf.Primitive{Attributes: attrs}
	if n.Material != nil {
		prim.Material = gltf.Index(b.material(n.Material))
	}

	idx := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: n.Name, Primitives: []*gltf.Primitive{prim}})
	b.meshes++
	return idx, nil
}

func (b *docBuilder) material(m *scene.Material) uint32 {
	if idx, ok := b.materials[m]; ok {
		return idx
	}
	gm := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2], 1},
			MetallicFactor:  gltf.Float(m.Metalness),
			RoughnessFactor: gltf.Float(m.Roughness),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	ext := gltf.Extensions{}
	if m.Clearcoat > 0 {
		ext[extClearcoat] = map[string]any{"clearcoatFactor": m.Clearcoat, "clearcoatRoughnessFactor": m.Roughness * 0.5}
		b.used[extClearcoat] = true
	}
	if m.Sheen > 0 {
		ext[extSheen] = map[string]any{
			"sheenColorFactor":     [3]float32{m.SheenColor[0] * m.Sheen, m.SheenColor[1] * m.Sheen, m.SheenColor[2] * m.Sheen},
			"sheenRoughnessFactor": m.Roughness,
		}
		b.used[extSheen] = true
	}
	if m.Transmission > 0 {
		ext[extTransmission] = map[string]any{"transmissionFactor": m.Transmission}
		b.used[extTransmission] = true
	}
	if len(ext) > 0 {
		gm.Extensions = ext
	}

	idx := uint32(len(b.doc.Materials))
	b.doc.Materials = append(b.doc.Materials, gm)
	b.materials[m] = idx
	b.order = append(b.order, m)
	return idx
}

// textures embeds a freckle map for every material that asks for one. The
// PNG is appended to the binary buffer after all vertex data.
func (b *docBuilder) textures() error {
	for idx, m := range b.order {
		if m.Freckles <= 0 {
			continue
		}
		data, err := FreckleTexture(m.BaseColor, m.Freckles)
		if err != nil {
			return err
		}
		view := b.appendBufferView(data)
		img := uint32(len(b.doc.Images))
		b.doc.Images = append(b.doc.Images, &gltf.Image{
			Name:       m.Name + "_freckles",
			MimeType:   "image/png",
			BufferView: gltf.Index(view),
		})
		tex := uint32(len(b.doc.Textures))
		b.doc.Textures = append(b.doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		b.doc.Materials[idx].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: tex}
		// The texture already carries the tone.
		b.doc.Materials[idx].PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, 1}
	}
	return nil
}

func (b *docBuilder) appendBufferView(data []byte) uint32 {
	if len(b.doc.Buffers) == 0 {
		b.doc.Buffers = append(b.doc.Buffers, &gltf.Buffer{})
	}
	buf := b.doc.Buffers[0]
	for len(buf.Data)%4 != 0 {
		buf.Data = append(buf.Data, 0)
	}
	offset := len(buf.Data)
	buf.Data = append(buf.Data, data...)
	buf.ByteLength = uint32(len(buf.Data))

	idx := uint32(len(b.doc.BufferViews))
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(offset),
		ByteLength: uint32(len(data)),
	})
	return idx
}
