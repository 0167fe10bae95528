package framing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/camtrack/common"
)

var (
	ErrNilCamera      = errors.New("framing: camera is nil")
	ErrInvalidPadding = errors.New("framing: padding must be finite and >= 0")
	ErrInvalidSpeed   = errors.New("framing: zoom speed must be finite and >= 0")
	ErrInvalidDepth   = errors.New("framing: depth must be finite")
	ErrUnknownBlend   = errors.New("framing: unknown blend mode")
)

// BlendMode selects how the continuous mode eases the half-height.
type BlendMode uint8

const (
	// BlendExponential uses 1 - e^(-speed*dt), independent of frame rate.
	BlendExponential BlendMode = iota
	// BlendLinear uses clamp01(speed*dt) like a per-frame Lerp.
	BlendLinear
)

func (m BlendMode) String() string {
	switch m {
	case BlendExponential:
		return "exponential"
	case BlendLinear:
		return "linear"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// Factor is the fraction of the remaining distance covered in a step of dt.
func (m BlendMode) Factor(speed, dt float64) float64 {
	if m == BlendLinear {
		if dt <= 0 {
			return 0
		}
		return common.Clamp01(speed * dt)
	}
	return common.ExpBlend(speed, dt)
}

func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exponential", "exp":
		return BlendExponential, nil
	case "linear", "lerp":
		return BlendLinear, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlend, s)
}

func (m *BlendMode) UnmarshalText(text []byte) error {
	parsed, err := ParseBlendMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m BlendMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Config is fixed for the lifetime of a Tracker.
type Config struct {
	// Padding is added to all four sides of the targets' bounding box.
	Padding float64
	// ZoomSpeed drives the half-height blend in continuous mode.
	ZoomSpeed float64
	// Depth is the Z the camera is placed at.
	Depth float64
	// RealTimeUpdate enables Tick. Without it only UpdateCamera moves the camera.
	RealTimeUpdate bool
	Blend          BlendMode
}

func DefaultConfig() Config {
	return Config{
		Padding:   2,
		ZoomSpeed: 20,
		Depth:     DefaultDepth,
		Blend:     BlendExponential,
	}
}

func (c Config) Validate() error {
	if !common.Finite(c.Padding) || c.Padding < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPadding, c.Padding)
	}
	if !common.Finite(c.ZoomSpeed) || c.ZoomSpeed < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, c.ZoomSpeed)
	}
	if !common.Finite(c.Depth) {
		return fmt.Errorf("%w: %v", ErrInvalidDepth, c.Depth)
	}
	if c.Blend != BlendExponential && c.Blend != BlendLinear {
		return fmt.Errorf("%w: %v", ErrUnknownBlend, c.Blend)
	}
	return nil
}
