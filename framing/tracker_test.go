package framing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// testCamera is an orthographic camera with Y-up viewport space. project
// overrides the projection when set.
type testCamera struct {
	aspect  float64
	pos     Vec3
	size    float64
	ortho   bool
	project func(Vec3) Vec3

	positionWrites int
	sizeWrites     int
}

func newTestCamera(aspect, size float64) *testCamera {
	return &testCamera{aspect: aspect, size: size}
}

func (c *testCamera) Aspect() float64 { return c.aspect }

func (c *testCamera) WorldToViewport(p Vec3) Vec3 {
	if c.project != nil {
		return c.project(p)
	}
	halfH := c.size
	if halfH <= 0 {
		halfH = 1
	}
	return Vec3{
		X: (p.X-c.pos.X)/(2*halfH*c.aspect) + 0.5,
		Y: (p.Y-c.pos.Y)/(2*halfH) + 0.5,
		Z: p.Z - c.pos.Z,
	}
}

func (c *testCamera) Position() Vec3 { return c.pos }

func (c *testCamera) SetPosition(p Vec3) {
	c.positionWrites++
	c.pos = p
}

func (c *testCamera) OrthographicSize() float64 { return c.size }

func (c *testCamera) SetOrthographicSize(size float64) {
	c.sizeWrites++
	c.size = size
}

func (c *testCamera) SetOrthographic(orthographic bool) { c.ortho = orthographic }

func points(vs ...Vec3) []Target {
	out := make([]Target, 0, len(vs))
	for _, v := range vs {
		out = append(out, Point(v))
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("nil_camera", func(t *testing.T) {
		_, err := New(nil, DefaultConfig())
		require.ErrorIs(t, err, ErrNilCamera)
	})

	t.Run("switches_to_orthographic", func(t *testing.T) {
		cam := newTestCamera(16.0/9.0, 5)
		tr, err := New(cam, DefaultConfig())
		require.NoError(t, err)
		assert.True(t, cam.ortho)
		assert.Same(t, cam, tr.Camera().(*testCamera))
	})

	t.Run("rejects_bad_config", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Config)
			want   error
		}{
			{"negative_padding", func(c *Config) { c.Padding = -1 }, ErrInvalidPadding},
			{"nan_padding", func(c *Config) { c.Padding = math.NaN() }, ErrInvalidPadding},
			{"negative_speed", func(c *Config) { c.ZoomSpeed = -0.5 }, ErrInvalidSpeed},
			{"inf_speed", func(c *Config) { c.ZoomSpeed = math.Inf(1) }, ErrInvalidSpeed},
			{"inf_depth", func(c *Config) { c.Depth = math.Inf(-1) }, ErrInvalidDepth},
			{"bad_blend", func(c *Config) { c.Blend = BlendMode(9) }, ErrUnknownBlend},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				cfg := DefaultConfig()
				c.mutate(&cfg)
				_, err := New(newTestCamera(1, 5), cfg)
				require.ErrorIs(t, err, c.want)
			})
		}
	})

	t.Run("options", func(t *testing.T) {
		tr, err := New(newTestCamera(1, 5), DefaultConfig(),
			WithTargets(Point{X: 1}, nil, Point{X: 2}),
			WithLogger(nil),
		)
		require.NoError(t, err)
		assert.Len(t, tr.Targets(), 2)
		assert.NotNil(t, tr.logger)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2.0, cfg.Padding)
	assert.Equal(t, 20.0, cfg.ZoomSpeed)
	assert.Equal(t, -10.0, cfg.Depth)
	assert.False(t, cfg.RealTimeUpdate)
	assert.Equal(t, BlendExponential, cfg.Blend)
	assert.NoError(t, cfg.Validate())
}

func TestUpdateCameraEmptyTargetsIsNoop(t *testing.T) {
	cam := newTestCamera(2, 3)
	cam.pos = Vec3{X: 9, Y: 9, Z: -10}

	cfg := DefaultConfig()
	cfg.RealTimeUpdate = true
	tr, err := New(cam, cfg)
	require.NoError(t, err)

	assert.False(t, tr.UpdateCamera())
	assert.False(t, tr.Tick(1.0/60))

	assert.Equal(t, Vec3{X: 9, Y: 9, Z: -10}, cam.pos)
	assert.Equal(t, 3.0, cam.size)
	assert.Zero(t, cam.positionWrites)
	assert.Zero(t, cam.sizeWrites)
	_, ok := tr.Frame()
	assert.False(t, ok)
}

func TestUpdateCameraSingleTarget(t *testing.T) {
	cam := newTestCamera(1, 5)
	cfg := DefaultConfig()
	cfg.Padding = 1.5
	tr, err := New(cam, cfg, WithTargets(Point{X: 4, Y: -2}))
	require.NoError(t, err)

	require.True(t, tr.UpdateCamera())

	frame, ok := tr.Frame()
	require.True(t, ok)
	assert.Equal(t, Rect{MinX: 2.5, MinY: -3.5, MaxX: 5.5, MaxY: -0.5}, frame)
	assert.Equal(t, Vec3{X: 4, Y: -2, Z: DefaultDepth}, cam.pos)
	// square frame on a square viewport: both branches agree.
	assert.InDelta(t, 1.5, cam.size, 1e-12)
}

func TestOrthographicSizeBranches(t *testing.T) {
	cases := []struct {
		name     string
		rect     Rect
		stub     Vec3
		wantSize float64
	}{
		{
			name:     "width_constrained",
			rect:     Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 5},
			stub:     Vec3{X: 1.0, Y: 0.625},
			wantSize: 20.0 / 2.0 / 2.0,
		},
		{
			name:     "height_constrained",
			rect:     Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 20},
			stub:     Vec3{X: 0.525, Y: 1.0},
			wantSize: 20.0 / 2.0,
		},
		{
			name:     "tie_goes_to_width",
			rect:     Rect{MinX: 0, MinY: 0, MaxX: 8, MaxY: 4},
			stub:     Vec3{X: 0.75, Y: 0.75},
			wantSize: 8.0 / 2.0 / 2.0,
		},
	}

	for _, c := range cases {
		t.Run(c.name+"/stubbed", func(t *testing.T) {
			cam := newTestCamera(2, 5)
			var probed []Vec3
			cam.project = func(p Vec3) Vec3 {
				probed = append(probed, p)
				return c.stub
			}
			assert.InDelta(t, c.wantSize, OrthographicSize(c.rect, cam), 1e-12)
			require.Len(t, probed, 1)
			assert.Equal(t, c.rect.TopRight(), probed[0])
		})

		t.Run(c.name+"/projected", func(t *testing.T) {
			cam := newTestCamera(2, 5)
			cam.pos = CameraPosition(c.rect, DefaultDepth)
			assert.InDelta(t, c.wantSize, OrthographicSize(c.rect, cam), 1e-12)
		})
	}
}

func TestOrthographicSizeUsesAbsoluteExtent(t *testing.T) {
	// An inverted rectangle still yields a positive size.
	r := Rect{MinX: 10, MinY: 5, MaxX: 0, MaxY: 0}
	cam := newTestCamera(2, 5)
	cam.project = func(Vec3) Vec3 { return Vec3{X: 0.2, Y: 0.1} }
	assert.InDelta(t, 2.5, OrthographicSize(r, cam), 1e-12)

	cam.project = func(Vec3) Vec3 { return Vec3{X: 0.1, Y: 0.2} }
	assert.InDelta(t, 2.5, OrthographicSize(r, cam), 1e-12)
}

func TestOrthographicSizeDegenerateProjection(t *testing.T) {
	tall := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 20}
	wide := Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 2}
	cases := []struct {
		name string
		v    Vec3
	}{
		{"centre", Vec3{X: 0.5, Y: 0.5}},
		{"nan", Vec3{X: math.NaN(), Y: 0.5}},
		{"inf", Vec3{X: 0.5, Y: math.Inf(1)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := newTestCamera(2, 0)
			cam.project = func(Vec3) Vec3 { return c.v }
			assert.InDelta(t, 10.0, OrthographicSize(tall, cam), 1e-12)
			assert.InDelta(t, 5.0, OrthographicSize(wide, cam), 1e-12)
		})
	}
}

func TestUpdateCameraFromNonPositiveSize(t *testing.T) {
	for _, size := range []float64{0, -3} {
		cam := newTestCamera(2, size)
		cfg := DefaultConfig()
		cfg.Padding = 0
		tr, err := New(cam, cfg, WithTargets(points(Vec3{}, Vec3{X: 2, Y: 20})...))
		require.NoError(t, err)

		require.True(t, tr.UpdateCamera())
		first := cam.size
		require.True(t, tr.UpdateCamera())

		assert.InDelta(t, 10.0, first, 1e-12, "size %v", size)
		assert.Equal(t, first, cam.size, "size %v", size)
	}
}

func TestUpdateCameraIdempotent(t *testing.T) {
	cam := newTestCamera(16.0/9.0, 1)
	tr, err := New(cam, DefaultConfig(), WithTargets(points(
		Vec3{X: -3, Y: 2}, Vec3{X: 11, Y: 4}, Vec3{X: 5, Y: -6},
	)...))
	require.NoError(t, err)

	require.True(t, tr.UpdateCamera())
	pos, size := cam.pos, cam.size

	require.True(t, tr.UpdateCamera())
	assert.Equal(t, pos, cam.pos)
	assert.Equal(t, size, cam.size)
}

func TestTickRequiresRealTimeUpdate(t *testing.T) {
	cam := newTestCamera(1, 5)
	tr, err := New(cam, DefaultConfig(), WithTargets(Point{X: 1, Y: 1}))
	require.NoError(t, err)

	assert.False(t, tr.Tick(1.0/60))
	assert.Zero(t, cam.positionWrites)
	assert.Zero(t, cam.sizeWrites)
}

func TestTickConverges(t *testing.T) {
	for _, blend := range []BlendMode{BlendExponential, BlendLinear} {
		t.Run(blend.String(), func(t *testing.T) {
			const (
				dt    = 1.0 / 60.0
				h0    = 1.0
				h1    = 5.0
				speed = 20.0
			)
			cam := newTestCamera(2, h0)
			cfg := DefaultConfig()
			cfg.Padding = 0
			cfg.ZoomSpeed = speed
			cfg.RealTimeUpdate = true
			cfg.Blend = blend

			// 20 wide, 5 tall on a 2:1 viewport: width bound, half-height 5.
			tr, err := New(cam, cfg, WithTargets(points(Vec3{X: 0, Y: 0}, Vec3{X: 20, Y: 5})...))
			require.NoError(t, err)

			prev := cam.size
			for i := 0; i < 600; i++ {
				require.True(t, tr.Tick(dt))
				assert.Equal(t, Vec3{X: 10, Y: 2.5, Z: DefaultDepth}, cam.pos)
				assert.GreaterOrEqual(t, cam.size, prev, "frame %d", i)
				assert.LessOrEqual(t, cam.size, h1+1e-9, "frame %d", i)
				prev = cam.size
			}
			assert.InDelta(t, h1, cam.size, 1e-6)
		})
	}
}

func TestTickPositionDoesNotLag(t *testing.T) {
	cam := newTestCamera(1, 5)
	cfg := DefaultConfig()
	cfg.RealTimeUpdate = true
	cfg.ZoomSpeed = 1

	x := 0.0
	mover := TargetFunc(func() Vec3 { return Vec3{X: x, Y: 0} })
	tr, err := New(cam, cfg, WithTargets(mover, Point{X: 0, Y: 4}))
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		x = float64(i) * 3
		require.True(t, tr.Tick(1.0/30))
		frame, ok := tr.Frame()
		require.True(t, ok)
		assert.Equal(t, CameraPosition(frame, DefaultDepth), cam.pos)
		assert.InDelta(t, x/2, cam.pos.X, 1e-12)
	}
}

func TestTickZeroDeltaKeepsSize(t *testing.T) {
	cam := newTestCamera(1, 3)
	cfg := DefaultConfig()
	cfg.RealTimeUpdate = true
	tr, err := New(cam, cfg, WithTargets(Point{X: 50, Y: 50}))
	require.NoError(t, err)

	require.True(t, tr.Tick(0))
	assert.Equal(t, 3.0, cam.size)
	assert.Equal(t, Vec3{X: 50, Y: 50, Z: DefaultDepth}, cam.pos)
}

func TestLinearBlendSnapsWhenStepIsLarge(t *testing.T) {
	cam := newTestCamera(1, 1)
	cfg := DefaultConfig()
	cfg.Padding = 0
	cfg.RealTimeUpdate = true
	cfg.Blend = BlendLinear
	tr, err := New(cam, cfg, WithTargets(points(Vec3{X: 0, Y: 0}, Vec3{X: 8, Y: 8})...))
	require.NoError(t, err)

	require.True(t, tr.Tick(1))
	assert.InDelta(t, 4.0, cam.size, 1e-12)
}

func TestTrackerLogsUpdates(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cam := newTestCamera(1, 5)
	tr, err := New(cam, DefaultConfig(), WithLogger(zap.New(core)), WithTargets(Point{}))
	require.NoError(t, err)

	require.True(t, tr.UpdateCamera())
	entries := logs.FilterMessage("camera framed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["targets"])
}

func TestBlendModeText(t *testing.T) {
	cases := []struct {
		in   string
		want BlendMode
	}{
		{"", BlendExponential},
		{"exponential", BlendExponential},
		{" EXP ", BlendExponential},
		{"linear", BlendLinear},
		{"lerp", BlendLinear},
	}
	for _, c := range cases {
		got, err := ParseBlendMode(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := ParseBlendMode("cubic")
	require.ErrorIs(t, err, ErrUnknownBlend)

	var m BlendMode
	require.NoError(t, m.UnmarshalText([]byte("linear")))
	assert.Equal(t, BlendLinear, m)
	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "linear", string(text))
	assert.Equal(t, "BlendMode(7)", BlendMode(7).String())
}
