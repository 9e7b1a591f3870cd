// Package session owns one avatar being edited: its parameters, the live
// scene built from them, the generation progress and the exports.
//
// All methods are safe for concurrent use. Frame updates (Tick) take the
// write lock; exports read under the read lock so no export observes a
// half-deformed cloth buffer.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-forge/internal/animator"
	"github.com/Faultbox/avatar-forge/internal/avatar"
	"github.com/Faultbox/avatar-forge/internal/flatten"
	"github.com/Faultbox/avatar-forge/internal/progress"
	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/formats"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("session: closed")

// Options configures a session. Zero values select defaults.
type Options struct {
	Logger *zap.Logger
	Clock  progress.Clock
	// Params is the initial parameter set; nil means params.Default().
	Params *params.Set

	GenerationDuration time.Duration
	FBX                formats.FBXOptions
	GLTF               formats.GLTFOptions
}

// Session is the single owner of the live scene graph.
type Session struct {
	mu     sync.RWMutex
	log    *zap.Logger
	clock  progress.Clock
	params params.Set
	graph  *scene.Graph
	sim    *progress.Simulator
	fbx    formats.FBXOptions
	gltf   formats.GLTFOptions
	closed bool

	// rebuilds counts graph constructions, for diagnostics.
	rebuilds int
}

// New builds the initial scene.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = progress.SystemClock
	}
	p := params.Default()
	if opts.Params != nil {
		p = *opts.Params
		p.Clamp()
	}

	s := &Session{
		log:    log,
		clock:  clock,
		params: p,
		sim:    progress.New(clock, opts.GenerationDuration),
		fbx:    opts.FBX,
		gltf:   opts.GLTF,
	}
	s.rebuild()
	return s
}

// Params returns a copy of the current parameter set.
func (s *Session) Params() params.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetField replaces one leaf of the parameter set and rebuilds the scene.
// On error nothing changes.
func (s *Session) SetField(section, field string, value any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next := s.params
	if err := next.SetField(section, field, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.params = next
	s.rebuild()
	s.mu.Unlock()

	s.log.Debug("field set", zap.String("section", section), zap.String("field", field), zap.Any("value", value))
	s.invalidate()
	return nil
}

// ReplaceAll swaps in a whole parameter set, e.g. a loaded preset.
func (s *Session) ReplaceAll(p params.Set) error {
	p.Clamp()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.params = p
	s.rebuild()
	s.mu.Unlock()

	s.log.Info("parameters replaced")
	s.invalidate()
	return nil
}

// rebuild must be called with mu held for writing.
func (s *Session) rebuild() {
	prev := s.graph
	s.graph = avatar.Build(s.params)
	s.rebuilds++
	if prev != nil {
		prev.Release()
	}
	st := s.graph.Stats()
	s.log.Debug("scene rebuilt",
		zap.Int("rebuild", s.rebuilds),
		zap.Int("nodes", st.Nodes),
		zap.Int("vertices", st.Vertices))
}

func (s *Session) invalidate() {
	if s.sim.Invalidate() {
		s.log.Info("generation result is stale")
	}
}

// RequestGeneration starts the simulated generation. It reports false
// while one is already running.
func (s *Session) RequestGeneration() bool {
	ok := s.sim.Start()
	if ok {
		s.log.Info("generation started", zap.Duration("duration", s.sim.Duration()))
	} else {
		s.log.Debug("generation already running")
	}
	return ok
}

// Progress returns the current generation state.
func (s *Session) Progress() progress.State {
	return s.sim.Snapshot()
}

// SubscribeProgress registers fn for generation state changes.
func (s *Session) SubscribeProgress(fn func(progress.State)) {
	s.sim.Subscribe(fn)
}

// Tick poses the live scene at elapsed seconds. It satisfies
// animator.Target.
func (s *Session) Tick(elapsed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	animator.Tick(elapsed, s.params, s.graph)
}

// Snapshot returns a deep copy of the live scene.
func (s *Session) Snapshot() (*scene.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.graph.Clone(), nil
}

// Flatten returns the live scene as a world-space triangle stream.
func (s *Session) Flatten() (flatten.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return flatten.Stream{}, ErrClosed
	}
	return flatten.Flatten(s.graph), nil
}

// ExportFBX encodes the live scene as minimal ASCII FBX.
func (s *Session) ExportFBX() (*formats.Artifact, error) {
	stream, err := s.Flatten()
	if err != nil {
		return nil, err
	}
	opts := s.fbx
	if opts.Time.IsZero() {
		opts.Time = s.clock.Now()
	}
	a := formats.FBXArtifact(stream, opts)
	s.log.Info("fbx exported",
		zap.Int("vertices", stream.VertexCount()),
		zap.Int("bytes", a.Size()))
	return a, nil
}

// ExportGLTF snapshots the scene and encodes it off the caller's
// goroutine. The channel yields one Result; Tick may keep running while
// the encode is in progress.
func (s *Session) ExportGLTF(ctx context.Context) <-chan formats.Result {
	snap, err := s.Snapshot()
	if err != nil {
		out := make(chan formats.Result, 1)
		out <- formats.Result{Err: err}
		close(out)
		return out
	}

	start := time.Now()
	in := formats.EncodeGLTFAsync(ctx, snap, s.gltf)
	out := make(chan formats.Result, 1)
	go func() {
		defer close(out)
		defer snap.Release()
		r := <-in
		if r.Err != nil {
			s.log.Error("gltf export failed", zap.Error(r.Err))
		} else {
			s.log.Info("gltf exported",
				zap.String("mime", r.Artifact.MIME),
				zap.Int("bytes", r.Artifact.Size()),
				zap.Duration("took", time.Since(start)))
		}
		out <- r
	}()
	return out
}

// Stats reports the live scene's size.
func (s *Session) Stats() scene.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return scene.Stats{}
	}
	return s.graph.Stats()
}

// Close releases the live scene. Further calls return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.graph.Release()
	s.log.Debug("session closed", zap.Int("rebuilds", s.rebuilds))
	return nil
}
