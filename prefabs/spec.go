package prefabs

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/camtrack/framing"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type ScreenSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TrackSpec configures target tracking. Unset numeric fields fall back to
// framing.DefaultConfig.
type TrackSpec struct {
	TargetTag string            `yaml:"target_tag"`
	Padding   *float64          `yaml:"padding"`
	ZoomSpeed *float64          `yaml:"zoom_speed"`
	Depth     *float64          `yaml:"depth"`
	RealTime  bool              `yaml:"realtime"`
	Blend     framing.BlendMode `yaml:"blend"`
}

func (s TrackSpec) Config() framing.Config {
	cfg := framing.DefaultConfig()
	if s.Padding != nil {
		cfg.Padding = *s.Padding
	}
	if s.ZoomSpeed != nil {
		cfg.ZoomSpeed = *s.ZoomSpeed
	}
	if s.Depth != nil {
		cfg.Depth = *s.Depth
	}
	cfg.RealTimeUpdate = s.RealTime
	cfg.Blend = s.Blend
	return cfg
}

type CameraSpec struct {
	Name        string        `yaml:"name"`
	Transform   TransformSpec `yaml:"transform"`
	Screen      ScreenSpec    `yaml:"screen"`
	Size        float64       `yaml:"size"`
	FieldOfView float64       `yaml:"field_of_view"`
	Track       TrackSpec     `yaml:"track"`
}

var (
	ErrInvalidScreen = errors.New("prefabs: camera screen must be positive")
	ErrInvalidSize   = errors.New("prefabs: camera size must be positive")
)

// Validate checks the camera's screen, its starting half-height and its
// tracking config.
func (s *CameraSpec) Validate() error {
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return fmt.Errorf("%w, got %dx%d", ErrInvalidScreen, s.Screen.Width, s.Screen.Height)
	}
	if !(s.Size > 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidSize, s.Size)
	}
	if err := s.Track.Config().Validate(); err != nil {
		return fmt.Errorf("prefabs: camera track: %w", err)
	}
	return nil
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BodySpec struct {
	Mass       float64 `yaml:"mass"`
	Radius     float64 `yaml:"radius"`
	Elasticity float64 `yaml:"elasticity"`
	VelX       float64 `yaml:"vel_x"`
	VelY       float64 `yaml:"vel_y"`
}

type TargetSpec struct {
	Name      string        `yaml:"name"`
	Tags      []string      `yaml:"tags"`
	Transform TransformSpec `yaml:"transform"`
	Body      *BodySpec     `yaml:"body"`
	// Script names a file under prefabs/scripts; ScriptSource is inline tengo.
	Script       string `yaml:"script"`
	ScriptSource string `yaml:"script_source"`
}

type PhysicsSpec struct {
	GravityX float64  `yaml:"gravity_x"`
	GravityY float64  `yaml:"gravity_y"`
	GroundY  *float64 `yaml:"ground_y"`
	// GroundHalfWidth defaults to 1000 when a ground is set.
	GroundHalfWidth float64 `yaml:"ground_half_width"`
}

// SceneSpec describes a camera and the targets it should keep in view.
type SceneSpec struct {
	Name    string       `yaml:"name"`
	Camera  CameraSpec   `yaml:"camera"`
	Physics PhysicsSpec  `yaml:"physics"`
	Targets []TargetSpec `yaml:"targets"`
}

// ParseScene decodes a scene on top of the default camera spec, so a scene only
// lists the camera fields it changes.
func ParseScene(data []byte) (*SceneSpec, error) {
	cam, err := LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	scene := SceneSpec{Camera: *cam}
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

func LoadSceneFile(path string) (*SceneSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read scene %s: %w", path, err)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %s: %w", path, err)
	}
	return scene, nil
}

func (s *SceneSpec) Validate() error {
	if err := s.Camera.Validate(); err != nil {
		return err
	}
	for i, t := range s.Targets {
		if t.Script != "" && t.ScriptSource != "" {
			return fmt.Errorf("prefabs: target %d (%s): script and script_source are exclusive", i, t.Name)
		}
	}
	return nil
}
