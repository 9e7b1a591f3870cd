package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/avatar-forge/internal/flatten"
)

// FBX constants.
const (
	FBXVersion       = 7400
	FBXHeaderVersion = 1003
	FBXMIME          = "application/octet-stream"
	FBXFilename      = "avatar.fbx"
	DefaultCreator   = "avatar-forge"

	fbxGeometryID = 1000
	fbxModelID    = 2000
)

// FBX parse errors.
var (
	ErrFBXNoVertices     = errors.New("fbx: Vertices block not found")
	ErrFBXLengthMismatch = errors.New("fbx: declared array length does not match contents")
)

// FBXOptions controls header metadata.
type FBXOptions struct {
	Creator string
	Time    time.Time
}

// PolygonIndices returns the polygon-vertex index array for a triangle
// soup of vertexCount vertices: (3i, 3i+1, -(3i+2)-1) per triangle. The
// negated last index closes each polygon. Trailing vertices that do not
// form a triangle are ignored.
func PolygonIndices(vertexCount int) []int {
	tris := vertexCount / 3
	idx := make([]int, 0, tris*3)
	for i := 0; i < tris; i++ {
		base := 3 * i
		idx = append(idx, base, base+1, -(base + 2 + 1))
	}
	return idx
}

// EncodeFBX writes s as an FBX 7.4 ASCII document.
func EncodeFBX(s flatten.Stream, opts FBXOptions) []byte {
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}
	ts := opts.Time.UTC()

	tris := s.TriangleCount()
	positions := s.Positions[:tris*3]
	normals := s.Normals[:tris*3]

	var b bytes.Buffer
	w := &fbxWriter{buf: &b}

	w.line(0, "; FBX %d.%d.0 project file", FBXVersion/1000, FBXVersion%1000/100)
	w.line(0, "; Created by %s", opts.Creator)
	w.line(0, "; ----------------------------------------------------")
	w.line(0, "")

	w.open(0, "FBXHeaderExtension: ")
	w.line(1, "FBXHeaderVersion: %d", FBXHeaderVersion)
	w.line(1, "FBXVersion: %d", FBXVersion)
	w.open(1, "CreationTimeStamp: ")
	w.line(2, "Version: 1000")
	w.line(2, "Year: %d", ts.Year())
	w.line(2, "Month: %d", int(ts.Month()))
	w.line(2, "Day: %d", ts.Day())
	w.line(2, "Hour: %d", ts.Hour())
	w.line(2, "Minute: %d", ts.Minute())
	w.line(2, "Second: %d", ts.Second())
	w.line(2, "Millisecond: %d", ts.Nanosecond()/int(time.Millisecond))
	w.close(1)
	w.line(1, "Creator: %q", opts.Creator)
	w.close(0)

	w.open(0, "GlobalSettings: ")
	w.line(1, "Version: 1000")
	w.open(1, "Properties70: ")
	w.line(2, `P: "UpAxis", "int", "Integer", "",1`)
	w.line(2, `P: "UpAxisSign", "int", "Integer", "",1`)
	w.line(2, `P: "FrontAxis", "int", "Integer", "",2`)
	w.line(2, `P: "FrontAxisSign", "int", "Integer", "",1`)
	w.line(2, `P: "CoordAxis", "int", "Integer", "",0`)
	w.line(2, `P: "CoordAxisSign", "int", "Integer", "",1`)
	w.line(2, `P: "UnitScaleFactor", "double", "Number", "",1`)
	w.close(1)
	w.close(0)

	w.open(0, "Definitions: ")
	w.line(1, "Version: 100")
	w.line(1, "Count: 2")
	w.open(1, `ObjectType: "Geometry" `)
	w.line(2, "Count: 1")
	w.close(1)
	w.open(1, `ObjectType: "Model" `)
	w.line(2, "Count: 1")
	w.close(1)
	w.close(0)

	w.open(0, "Objects: ")
	w.open(1, fmt.Sprintf(`Geometry: %d, "Geometry::Avatar", "Mesh" `, fbxGeometryID))
	w.array(2, "Vertices", flattenTriples(positions))
	w.intArray(2, "PolygonVertexIndex", PolygonIndices(len(positions)))
	w.line(2, "GeometryVersion: 124")
	w.open(2, "LayerElementNormal: 0 ")
	w.line(3, "Version: 101")
	w.line(3, `Name: ""`)
	w.line(3, `MappingInformationType: "ByPolygonVertex"`)
	w.line(3, `ReferenceInformationType: "Direct"`)
	w.array(3, "Normals", flattenTriples(normals))
	w.close(2)
	w.open(2, "Layer: 0 ")
	w.line(3, "Version: 100")
	w.open(3, "LayerElement: ")
	w.line(4, `Type: "LayerElementNormal"`)
	w.line(4, "TypedIndex: 0")
	w.close(3)
	w.close(2)
	w.close(1)
	w.open(1, fmt.Sprintf(`Model: %d, "Model::Avatar", "Mesh" `, fbxModelID))
	w.line(2, "Version: 232")
	w.open(2, "Properties70: ")
	w.line(3, `P: "Lcl Translation", "Lcl Translation", "", "A",0,0,0`)
	w.line(3, `P: "Lcl Rotation", "Lcl Rotation", "", "A",0,0,0`)
	w.line(3, `P: "Lcl Scaling", "Lcl Scaling", "", "A",1,1,1`)
	w.close(2)
	w.line(2, "Shading: T")
	w.line(2, `Culling: "CullingOff"`)
	w.close(1)
	w.close(0)

	w.open(0, "Connections: ")
	w.line(1, `C: "OO",%d,0`, fbxModelID)
	w.line(1, `C: "OO",%d,%d`, fbxGeometryID, fbxModelID)
	w.close(0)

	return b.Bytes()
}

// FBXArtifact encodes s and wraps it for download.
func FBXArtifact(s flatten.Stream, opts FBXOptions) *Artifact {
	return &Artifact{Data: EncodeFBX(s, opts), MIME: FBXMIME, Filename: FBXFilename}
}

type fbxWriter struct {
	buf *bytes.Buffer
}

func (w *fbxWriter) indent(depth int) {
	for i := 0; i < depth; i++ {
		w.buf.WriteByte('\t')
	}
}

func (w *fbxWriter) line(depth int, format string, args ...any) {
	if format == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.indent(depth)
	fmt.Fprintf(w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *fbxWriter) open(depth int, head string) {
	w.indent(depth)
	w.buf.WriteString(head)
	w.buf.WriteString("{\n")
}

func (w *fbxWriter) close(depth int) {
	w.indent(depth)
	w.buf.WriteString("}\n")
}

func (w *fbxWriter) array(depth int, name string, values []float64) {
	w.open(depth, fmt.Sprintf("%s: *%d ", name, len(values)))
	w.indent(depth + 1)
	w.buf.WriteString("a: ")
	for i, v := range values {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	w.buf.WriteByte('\n')
	w.close(depth)
}

func (w *fbxWriter) intArray(depth int, name string, values []int) {
	w.open(depth, fmt.Sprintf("%s: *%d ", name, len(values)))
	w.indent(depth + 1)
	w.buf.WriteString("a: ")
	for i, v := range values {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteString(strconv.Itoa(v))
	}
	w.buf.WriteByte('\n')
	w.close(depth)
}

func flattenTriples(v [][3]float64) []float64 {
	out := make([]float64, 0, len(v)*3)
	for _, t := range v {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// FBXArray is one numeric array block read back from an ASCII document.
type FBXArray struct {
	Declared int
	Values   []float64
}

// ParseFBXArrays reads every "Name: *N { a: ... }" block in an ASCII FBX
// document, keyed by block name. Later blocks with the same name replace
// earlier ones.
func ParseFBXArrays(r io.Reader) (map[string]FBXArray, error) {
	out := make(map[string]FBXArray)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)

	var (
		name     string
		declared int
		inArray  bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case !inArray && strings.Contains(line, ": *") && strings.HasSuffix(line, "{"):
			head, rest, _ := strings.Cut(line, ": *")
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(rest, "{")))
			if err != nil {
				return nil, fmt.Errorf("fbx: array %s length: %w", head, err)
			}
			name, declared, inArray = head, n, true
		case inArray && strings.HasPrefix(line, "a:"):
			values, err := parseFloats(strings.TrimSpace(strings.TrimPrefix(line, "a:")))
			if err != nil {
				return nil, fmt.Errorf("fbx: array %s: %w", name, err)
			}
			out[name] = FBXArray{Declared: declared, Values: values}
		case inArray && line == "}":
			if _, ok := out[name]; !ok {
				out[name] = FBXArray{Declared: declared}
			}
			inArray = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fbx: scan: %w", err)
	}
	return out, nil
}

// ParseFBXVertices reads the Vertices block back as triples and checks its
// declared length.
func ParseFBXVertices(r io.Reader) ([][3]float64, error) {
	arrays, err := ParseFBXArrays(r)
	if err != nil {
		return nil, err
	}
	arr, ok := arrays["Vertices"]
	if !ok {
		return nil, ErrFBXNoVertices
	}
	if arr.Declared != len(arr.Values) || len(arr.Values)%3 != 0 {
		return nil, fmt.Errorf("%w: Vertices declared %d, got %d", ErrFBXLengthMismatch, arr.Declared, len(arr.Values))
	}
	out := make([][3]float64, len(arr.Values)/3)
	for i := range out {
		out[i] = [3]float64{arr.Values[3*i], arr.Values[3*i+1], arr.Values[3*i+2]}
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
