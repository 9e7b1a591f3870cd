package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/avatar-forge/internal/avatar"
	"github.com/Faultbox/avatar-forge/internal/logger"
	"github.com/Faultbox/avatar-forge/internal/progress"
	"github.com/Faultbox/avatar-forge/pkg/formats"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New(Options{
		Logger: logger.Nop(),
		Clock:  clk,
		GLTF:   formats.DefaultGLTFOptions(),
	})
	t.Cleanup(func() { s.Close() })
	return s, clk
}

func TestSetFieldRebuildsAndReleases(t *testing.T) {
	s, _ := newTestSession(t)

	old := s.graph
	torso, _ := old.Find(avatar.NameTorso)
	mat := old.Node(torso).Material

	if err := s.SetField("body", "height", 0.9); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if s.graph == old {
		t.Fatal("graph was not rebuilt")
	}
	if !old.Released() {
		t.Error("previous graph not released")
	}
	if !mat.Released() {
		t.Error("previous material not released")
	}
	if got := s.Params().Body.Height; got != 0.9 {
		t.Errorf("height = %v, want 0.9", got)
	}
}

func TestSetFieldErrorLeavesStateAlone(t *testing.T) {
	s, _ := newTestSession(t)
	before := s.Params()
	g := s.graph

	err := s.SetField("body", "wingspan", 0.5)
	if !errors.Is(err, params.ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}
	if s.graph != g {
		t.Error("graph rebuilt on failed SetField")
	}
	if diff := cmp.Diff(before, s.Params()); diff != "" {
		t.Errorf("params changed (-before +after):\n%s", diff)
	}
}

func TestReplaceAllClamps(t *testing.T) {
	s, _ := newTestSession(t)
	p := params.Default()
	p.Hair.Style = params.HairBuzz
	p.Facial.EyeSize = 3

	if err := s.ReplaceAll(p); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if got := s.Params().Facial.EyeSize; got != 1 {
		t.Errorf("eye size = %v, want 1", got)
	}
	if n := len(avatar.HairNodes(s.graph)); n != 1 {
		t.Errorf("buzz hair nodes = %d, want 1", n)
	}
}

func TestEditWhileReadyGoesIdle(t *testing.T) {
	s, clk := newTestSession(t)

	if !s.RequestGeneration() {
		t.Fatal("RequestGeneration from idle returned false")
	}
	if s.RequestGeneration() {
		t.Error("second RequestGeneration should be a no-op")
	}

	// Edits while processing do not interrupt.
	_ = s.SetField("skin", "freckles", 0.2)
	if got := s.Progress().Status; got != progress.Processing {
		t.Errorf("status = %v, want processing", got)
	}

	clk.now = clk.now.Add(progress.DefaultDuration)
	if got := s.Progress(); got != (progress.State{Status: progress.Ready, Progress: 100}) {
		t.Fatalf("state = %+v, want ready/100", got)
	}

	var notes []progress.State
	s.SubscribeProgress(func(st progress.State) { notes = append(notes, st) })

	_ = s.SetField("skin", "freckles", 0.4)
	_ = s.SetField("skin", "freckles", 0.5)

	if got := s.Progress(); got != (progress.State{Status: progress.Idle, Progress: 100}) {
		t.Errorf("state = %+v, want idle/100", got)
	}
	if len(notes) != 1 {
		t.Errorf("got %d notifications, want exactly 1", len(notes))
	}
}

func TestExportFBX(t *testing.T) {
	s, _ := newTestSession(t)
	a, err := s.ExportFBX()
	if err != nil {
		t.Fatalf("ExportFBX: %v", err)
	}
	if a.MIME != formats.FBXMIME || a.Filename != formats.FBXFilename {
		t.Errorf("artifact = %s %s", a.MIME, a.Filename)
	}
	if !bytes.Contains(a.Data, []byte("Year: 2024")) {
		t.Error("creation time not taken from the session clock")
	}

	stream, _ := s.Flatten()
	verts, err := formats.ParseFBXVertices(bytes.NewReader(a.Data))
	if err != nil {
		t.Fatalf("ParseFBXVertices: %v", err)
	}
	if diff := cmp.Diff(stream.Positions, verts); diff != "" {
		t.Errorf("vertex round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportGLTFWhileTicking(t *testing.T) {
	s, _ := newTestSession(t)

	ch := s.ExportGLTF(context.Background())
	for i := 0; i < 10; i++ {
		s.Tick(float64(i) / 60)
	}
	r := <-ch
	if r.Err != nil {
		t.Fatalf("ExportGLTF: %v", r.Err)
	}
	if r.Artifact.MIME != formats.GLBMIME {
		t.Errorf("mime = %s", r.Artifact.MIME)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(r.Artifact.Data)).Decode(doc); err != nil {
		t.Fatalf("decode glb: %v", err)
	}
	if len(doc.Nodes) != s.Stats().Nodes {
		t.Errorf("glTF nodes = %d, scene nodes = %d", len(doc.Nodes), s.Stats().Nodes)
	}
}

func TestClosed(t *testing.T) {
	s, _ := newTestSession(t)
	g := s.graph
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !g.Released() {
		t.Error("Close did not release the scene")
	}
	if err := s.SetField("body", "height", 0.1); !errors.Is(err, ErrClosed) {
		t.Errorf("SetField after Close: %v", err)
	}
	if _, err := s.ExportFBX(); !errors.Is(err, ErrClosed) {
		t.Errorf("ExportFBX after Close: %v", err)
	}
	r := <-s.ExportGLTF(context.Background())
	if !errors.Is(r.Err, ErrClosed) {
		t.Errorf("ExportGLTF after Close: %v", r.Err)
	}
	s.Tick(1) // must not panic
}
