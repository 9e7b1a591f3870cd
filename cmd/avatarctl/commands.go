package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-forge/internal/animator"
	"github.com/Faultbox/avatar-forge/internal/config"
	"github.com/Faultbox/avatar-forge/internal/logger"
	"github.com/Faultbox/avatar-forge/internal/preset"
	"github.com/Faultbox/avatar-forge/internal/progress"
	"github.com/Faultbox/avatar-forge/internal/reference"
	"github.com/Faultbox/avatar-forge/internal/session"
	"github.com/Faultbox/avatar-forge/pkg/formats"
	"github.com/Faultbox/avatar-forge/pkg/params"
)

// env is what every session-backed command starts from.
type env struct {
	cfg    *config.Config
	preset string
}

func setup(name string, args []string, extra func(*flag.FlagSet)) (*env, *flag.FlagSet, error) {
	fset := flag.NewFlagSet(name, flag.ExitOnError)
	cf := config.RegisterFlags(fset)
	presetPath := fset.String("preset", "", "Parameter preset file")
	if extra != nil {
		extra(fset)
	}
	fset.Parse(args)

	cfg, err := config.Load(cf)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	e := &env{cfg: cfg, preset: *presetPath}
	if e.preset == "" {
		e.preset = cfg.Preset.Path
	}
	return e, fset, nil
}

// newSession opens a session on the preset if it exists, else on defaults.
func (e *env) newSession() (*session.Session, error) {
	opts := session.Options{
		Logger:             logger.For("session"),
		GenerationDuration: e.cfg.Generation.Duration,
		FBX:                formats.FBXOptions{Creator: e.cfg.Export.Creator},
		GLTF: formats.GLTFOptions{
			Binary:    e.cfg.Export.Binary,
			Textures:  e.cfg.Export.Textures,
			Generator: e.cfg.Export.Creator,
		},
	}

	p, err := preset.Load(e.preset)
	switch {
	case err == nil:
		opts.Params = &p.Params
		logger.Info("preset loaded", zap.String("path", e.preset))
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("no preset, using defaults", zap.String("path", e.preset))
	default:
		return nil, err
	}
	return session.New(opts), nil
}

func cmdExport(args []string) error {
	var at float64
	e, fset, err := setup("export", args, func(fs *flag.FlagSet) {
		fs.Float64Var(&at, "t", 0, "Pose the avatar at this animation time (seconds)")
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fset.NArg() < 1 {
		return errors.New("usage: avatarctl export [flags] <fbx|gltf>")
	}
	format := strings.ToLower(fset.Arg(0))

	s, err := e.newSession()
	if err != nil {
		return err
	}
	defer s.Close()
	s.Tick(at)

	var a *formats.Artifact
	switch format {
	case "fbx":
		a, err = s.ExportFBX()
	case "gltf", "glb":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r := <-s.ExportGLTF(ctx)
		a, err = r.Artifact, r.Err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.cfg.Export.OutputDir, 0755); err != nil {
		return err
	}
	out := filepath.Join(e.cfg.Export.OutputDir, a.Filename)
	if err := os.WriteFile(out, a.Data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s, %d bytes)\n", out, a.MIME, a.Size())
	return nil
}

func cmdPreset(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: avatarctl preset init|show [file]")
	}
	path := "avatar.yaml"
	if len(args) > 1 {
		path = args[1]
	}

	switch args[0] {
	case "init":
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := preset.Save(path, params.Default(), time.Now()); err != nil {
			return err
		}
		fmt.Printf("Wrote default preset to %s\n", path)
	case "show":
		p, err := preset.Load(path)
		if err != nil {
			return err
		}
		if p.SavedAt != nil {
			fmt.Printf("Saved: %s\n", p.SavedAt.Local().Format(time.RFC1123))
		}
		printParams(p.Params)
	default:
		return fmt.Errorf("unknown preset action %q", args[0])
	}
	return nil
}

func cmdSet(args []string) error {
	path := "avatar.yaml"
	if len(args) > 0 && !strings.Contains(args[0], "=") {
		path, args = args[0], args[1:]
	}
	if len(args) == 0 {
		return errors.New("usage: avatarctl set [file] <section.field=value>...")
	}

	set := params.Default()
	p, err := preset.Load(path)
	switch {
	case err == nil:
		set = p.Params
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	for _, kv := range args {
		section, field, value, err := parseAssignment(kv)
		if err != nil {
			return err
		}
		if err := set.SetField(section, field, value); err != nil {
			return err
		}
	}
	if err := preset.Save(path, set, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Updated %d field(s) in %s\n", len(args), path)
	return nil
}

// parseAssignment splits "section.field=value". Numeric values become
// float64; anything else is passed through as a string.
func parseAssignment(kv string) (section, field string, value any, err error) {
	lhs, rhs, ok := strings.Cut(kv, "=")
	if !ok {
		return "", "", nil, fmt.Errorf("expected section.field=value, got %q", kv)
	}
	section, field, ok = strings.Cut(lhs, ".")
	if !ok {
		return "", "", nil, fmt.Errorf("expected section.field, got %q", lhs)
	}
	if f, err := strconv.ParseFloat(rhs, 64); err == nil {
		return section, field, f, nil
	}
	return section, field, rhs, nil
}

func cmdSimulate(args []string) error {
	e, _, err := setup("simulate", args, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := e.newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan struct{})
	var once sync.Once
	s.SubscribeProgress(func(st progress.State) {
		fmt.Printf("  %-10s %3d%%\n", st.Status, st.Progress)
		if st.Status == progress.Ready {
			once.Do(func() { close(done) })
		}
	})

	frames := make(chan int, 1)
	loopCtx, cancel := context.WithCancel(ctx)
	go func() { frames <- animator.Loop(loopCtx, s, e.cfg.Animation.FPS) }()

	// Keep animating for at least the configured run time, and until the
	// generation is ready.
	minRun := time.After(e.cfg.Animation.Duration)
	ready, ran := false, false

	s.RequestGeneration()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	readyC := (<-chan struct{})(done)
	for !ready || !ran {
		select {
		case <-ctx.Done():
			ready, ran = true, true
		case <-readyC:
			ready = true
			readyC = nil
		case <-minRun:
			ran = true
		case <-ticker.C:
			s.Progress()
		}
	}
	cancel()

	n := <-frames
	logger.Info("simulation finished", zap.Int("frames", n))
	fmt.Printf("Rendered %d frames\n", n)
	return ctx.Err()
}

func cmdInspect(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: avatarctl inspect <file.fbx>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	arrays, err := formats.ParseFBXArrays(f)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("File: %s\n", args[0])
	for _, name := range names {
		a := arrays[name]
		fmt.Printf("  %-20s *%d\n", name, a.Declared)
	}
	if v, ok := arrays["Vertices"]; ok {
		fmt.Printf("Vertices:  %d\n", len(v.Values)/3)
		fmt.Printf("Triangles: %d\n", len(v.Values)/9)
	}
	return nil
}

func cmdInfo(args []string) error {
	e, _, err := setup("info", args, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := e.newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	printParams(s.Params())
	st := s.Stats()
	fmt.Println()
	fmt.Printf("Scene: %d nodes, %d meshes, %d materials, %d vertices, %d triangles\n",
		st.Nodes, st.Meshes, st.Materials, st.Vertices, st.Triangles)
	return nil
}

func printParams(p params.Set) {
	sections := params.Sections()
	for _, name := range params.SectionNames() {
		fmt.Printf("%s:\n", name)
		for _, field := range sections[name] {
			v, _ := p.Field(name, field)
			if f, ok := v.(float64); ok {
				fmt.Printf("  %-16s %.3f\n", field, f)
				continue
			}
			fmt.Printf("  %-16s %v\n", field, v)
		}
	}
}

func cmdThumb(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: avatarctl thumb <image> [out.webp]")
	}
	in := args[0]
	out := strings.TrimSuffix(in, filepath.Ext(in)) + "_thumb.webp"
	if len(args) > 1 {
		out = args[1]
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	img, err := reference.Read(filepath.Base(in), f)
	f.Close()
	if err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := reference.EncodeWebP(w, img.Thumbnail); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	b := img.Thumbnail.Bounds()
	fmt.Printf("%s: %s %dx%d, %d bytes, id %s\n", img.Name, img.Format, img.Width, img.Height, img.Size, img.ID)
	fmt.Printf("Wrote %s (%dx%d)\n", out, b.Dx(), b.Dy())
	return nil
}
