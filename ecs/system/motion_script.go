package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/camtrack/common"
	"github.com/milk9111/camtrack/ecs"
	"github.com/milk9111/camtrack/ecs/component"
	"github.com/milk9111/camtrack/prefabs"
)

var (
	ErrNoMotionScript = errors.New("motion script: no path or source")
	ErrNotNumber      = errors.New("motion script: position is not a finite number")
)

// MotionScriptSystem moves entities with tengo scripts. Each frame a script
// sees t (seconds since it started), dt, start_x, start_y and the current x
// and y; whatever it leaves in x and y becomes the entity's position.
type MotionScriptSystem struct {
	DeltaTime DeltaTimeFunc

	logger   *zap.Logger
	runtimes map[ecs.Entity]*motionRuntime
}

type motionRuntime struct {
	key      string
	compiled *tengo.Compiled
	elapsed  float64
	startX   float64
	startY   float64
	failed   bool
}

func NewMotionScriptSystem(logger *zap.Logger) *MotionScriptSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MotionScriptSystem{
		logger:   logger,
		runtimes: make(map[ecs.Entity]*motionRuntime),
	}
}

func (ms *MotionScriptSystem) Update(w *ecs.World) {
	dt := resolveDelta(ms.DeltaTime)
	seen := make(map[ecs.Entity]struct{}, len(ms.runtimes))

	ecs.ForEach2(w, component.MotionScriptComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, script *component.MotionScript, t *component.Transform) {
			seen[e] = struct{}{}
			rt, err := ms.runtime(e, script, t)
			if err != nil {
				ms.logger.Error("motion script: compile", zap.Object("entity", e), zap.String("path", script.Path), zap.Error(err))
				return
			}
			if rt.failed {
				return
			}
			rt.elapsed += dt
			x, y, err := rt.run(dt, t.X, t.Y)
			if err != nil {
				// a script that fails once is disabled rather than logged every frame
				rt.failed = true
				ms.logger.Error("motion script: run", zap.Object("entity", e), zap.Error(err))
				return
			}
			t.X, t.Y = x, y
		})

	for e := range ms.runtimes {
		if _, ok := seen[e]; !ok {
			delete(ms.runtimes, e)
		}
	}
}

func (ms *MotionScriptSystem) runtime(e ecs.Entity, script *component.MotionScript, t *component.Transform) (*motionRuntime, error) {
	key := script.Path + "\x00" + script.Source
	if rt, ok := ms.runtimes[e]; ok && rt.key == key {
		return rt, nil
	}

	src := []byte(script.Source)
	if strings.TrimSpace(script.Source) == "" {
		if strings.TrimSpace(script.Path) == "" {
			return nil, ErrNoMotionScript
		}
		data, err := prefabs.LoadScript(script.Path)
		if err != nil {
			return nil, err
		}
		src = data
	}

	s := tengo.NewScript(src)
	for _, name := range []string{"t", "dt", "x", "y", "start_x", "start_y"} {
		if err := s.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	s.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}
	rt := &motionRuntime{key: key, compiled: compiled, startX: t.X, startY: t.Y}
	ms.runtimes[e] = rt
	return rt, nil
}

func (rt *motionRuntime) run(dt, x, y float64) (float64, float64, error) {
	vars := []struct {
		name  string
		value float64
	}{
		{"t", rt.elapsed},
		{"dt", dt},
		{"x", x},
		{"y", y},
		{"start_x", rt.startX},
		{"start_y", rt.startY},
	}
	for _, v := range vars {
		if err := rt.compiled.Set(v.name, v.value); err != nil {
			return 0, 0, err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return 0, 0, err
	}
	nx, err := scriptNumber(rt.compiled.Get("x"))
	if err != nil {
		return 0, 0, err
	}
	ny, err := scriptNumber(rt.compiled.Get("y"))
	if err != nil {
		return 0, 0, err
	}
	return nx, ny, nil
}

func scriptNumber(v *tengo.Variable) (float64, error) {
	var f float64
	switch n := v.Value().(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w: %s is %s", ErrNotNumber, v.Name(), v.ValueType())
	}
	if !common.Finite(f) {
		return 0, fmt.Errorf("%w: %s is %v", ErrNotNumber, v.Name(), f)
	}
	return f, nil
}
