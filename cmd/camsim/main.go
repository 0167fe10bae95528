package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
	"github.com/milk9111/camtrack/ecs/entity"
	"github.com/milk9111/camtrack/ecs/system"
	"github.com/milk9111/camtrack/prefabs"
)

type options struct {
	scene  string
	frames int
	dt     float64
	report int
	snap   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "", "scene yaml to simulate (extra scenes may follow as arguments)")
	flag.IntVar(&opts.frames, "frames", 600, "number of frames to simulate")
	flag.Float64Var(&opts.dt, "dt", system.FixedTickDelta(), "seconds per frame")
	flag.IntVar(&opts.report, "report", 60, "log camera state every N frames (0 = never)")
	flag.BoolVar(&opts.snap, "snap", false, "frame the targets on demand before the first frame")
	watch := flag.Bool("watch", false, "re-run when the scene or prefab files change")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "camsim: logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	scenes := flag.Args()
	if opts.scene != "" {
		scenes = append([]string{opts.scene}, scenes...)
	}
	if len(scenes) == 0 {
		logger.Error("missing -scene")
		flag.Usage()
		os.Exit(2)
	}

	if err := simulateAll(scenes, opts, logger, os.Stdout); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		if !*watch {
			os.Exit(1)
		}
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watchAndRerun(ctx, scenes, opts, logger, os.Stdout); err != nil {
			logger.Error("watch failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableCaller = true
	return cfg.Build()
}

// simulateAll runs every scene concurrently. With more than one scene each
// result line is prefixed with the scene path; output keeps argument order.
func simulateAll(scenes []string, opts options, logger *zap.Logger, out io.Writer) error {
	if len(scenes) == 1 {
		opts.scene = scenes[0]
		return simulate(opts, logger, out)
	}

	results := make([]bytes.Buffer, len(scenes))
	var g errgroup.Group
	for i, scene := range scenes {
		g.Go(func() error {
			o := opts
			o.scene = scene
			return simulate(o, logger, &results[i])
		})
	}
	err := g.Wait()
	for i := range results {
		if results[i].Len() == 0 {
			continue
		}
		if _, werr := fmt.Fprintf(out, "%s: %s", scenes[i], results[i].String()); werr != nil {
			return werr
		}
	}
	return err
}

// simulate builds the scene and runs it for opts.frames fixed-size frames,
// writing the final camera state to out.
func simulate(opts options, logger *zap.Logger, out io.Writer) error {
	if opts.frames < 0 {
		return fmt.Errorf("camsim: frames must be >= 0, got %d", opts.frames)
	}
	if opts.dt <= 0 {
		return fmt.Errorf("camsim: dt must be > 0, got %v", opts.dt)
	}

	scene, err := prefabs.LoadSceneFile(opts.scene)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	cam, err := entity.BuildScene(w, scene)
	if err != nil {
		return err
	}

	delta := func() float64 { return opts.dt }
	motion := system.NewMotionScriptSystem(logger)
	motion.DeltaTime = delta
	physics := system.NewPhysicsSystem()
	physics.DeltaTime = delta
	tracking := system.NewCameraTrackSystem(logger)
	tracking.DeltaTime = delta
	scheduler := ecs.NewScheduler(motion, physics, tracking)

	if opts.snap || !scene.Camera.Track.RealTime {
		if err := entity.RequestFraming(w, cam); err != nil {
			return err
		}
	}

	logger = logger.With(zap.String("run", uuid.NewString()))
	logger.Info("simulation started",
		zap.String("scene", scene.Name),
		zap.Int("targets", len(scene.Targets)),
		zap.Int("frames", opts.frames),
		zap.Float64("dt", opts.dt),
	)

	for frame := 1; frame <= opts.frames; frame++ {
		scheduler.Update(w)
		if opts.report > 0 && frame%opts.report == 0 {
			x, y, z, size, err := cameraState(w, cam)
			if err != nil {
				return err
			}
			logger.Info("camera",
				zap.Int("frame", frame),
				zap.Float64("x", x),
				zap.Float64("y", y),
				zap.Float64("z", z),
				zap.Float64("size", size),
			)
		}
	}

	x, y, z, size, err := cameraState(w, cam)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "position=(%.4f, %.4f, %.4f) size=%.4f\n", x, y, z, size)
	return err
}

var errNoCamera = errors.New("camsim: camera entity lost its components")

func cameraState(w *ecs.World, cam ecs.Entity) (x, y, z, size float64, err error) {
	tr, ok := ecs.Get(w, cam, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, 0, 0, errNoCamera
	}
	c, ok := ecs.Get(w, cam, component.CameraComponent.Kind())
	if !ok {
		return 0, 0, 0, 0, errNoCamera
	}
	return tr.X, tr.Y, tr.Z, c.OrthographicSize, nil
}

func watchAndRerun(ctx context.Context, scenes []string, opts options, logger *zap.Logger, out io.Writer) error {
	var dirs []string
	seen := make(map[string]bool)
	addDir := func(dir string) {
		if seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, scene := range scenes {
		addDir(filepath.Dir(scene))
	}
	addDir(prefabs.DiskDir)
	addDir(filepath.Join(prefabs.DiskDir, "scripts"))

	watcher, err := prefabs.NewWatcher(logger, dirs...)
	if err != nil {
		return fmt.Errorf("camsim: watch: %w", err)
	}
	defer watcher.Close()

	digests := make(map[string]uint64)
	logger.Info("watching for changes", zap.Strings("dirs", dirs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !contentChanged(digests, name) {
				logger.Debug("content unchanged, skipping", zap.String("file", name))
				continue
			}
			logger.Info("change detected, re-running", zap.String("file", name))
			if err := simulateAll(scenes, opts, logger, out); err != nil {
				logger.Error("simulation failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// contentChanged reports whether the file's content hash differs from the last
// one recorded in digests. Unreadable files count as changed.
func contentChanged(digests map[string]uint64, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		delete(digests, path)
		return true
	}
	sum := xxhash.Sum64(data)
	if prev, ok := digests[path]; ok && prev == sum {
		return false
	}
	digests[path] = sum
	return true
}
