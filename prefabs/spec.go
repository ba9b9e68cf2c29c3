package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

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

// DecodeSpec re-decodes loosely typed data (script results, nested maps) into T
// through its YAML tags.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type AvatarSpec struct {
	Name                         string         `yaml:"name"`
	EyeHeight                    float64        `yaml:"eye_height"`
	Radius                       float64        `yaml:"radius"`
	SafetyBuffer                 float64        `yaml:"safety_buffer"`
	MovementSpeed                float64        `yaml:"movement_speed"`
	RotationSpeed                float64        `yaml:"rotation_speed"`
	MovementAccelerationDuration float64        `yaml:"movement_acceleration_duration"`
	RotationAccelerationDuration float64        `yaml:"rotation_acceleration_duration"`
	ArrivalThreshold             float64        `yaml:"arrival_threshold"`
	MaxDeltaTime                 float64        `yaml:"max_delta_time"`
	Navigation                   NavigationSpec `yaml:"navigation"`
}

type NavigationSpec struct {
	CellSize        float64 `yaml:"cell_size"`
	OriginX         float64 `yaml:"origin_x"`
	OriginZ         float64 `yaml:"origin_z"`
	Width           float64 `yaml:"width"`
	Length          float64 `yaml:"length"`
	SampleStep      float64 `yaml:"sample_step"`
	RecoveryRings   int     `yaml:"recovery_rings"`
	ProbeHeight     float64 `yaml:"probe_height"`
	ProbeHalfHeight float64 `yaml:"probe_half_height"`
}

func DefaultAvatarSpec() AvatarSpec {
	return AvatarSpec{
		Name:                         "visitor",
		EyeHeight:                    1.7,
		Radius:                       0.3,
		SafetyBuffer:                 0.3,
		MovementSpeed:                3,
		RotationSpeed:                5,
		MovementAccelerationDuration: 0.5,
		RotationAccelerationDuration: 0.5,
		ArrivalThreshold:             0.1,
		MaxDeltaTime:                 0.1,
		Navigation: NavigationSpec{
			CellSize:        0.5,
			OriginX:         -15,
			OriginZ:         -15,
			Width:           30,
			Length:          30,
			SampleStep:      0.2,
			RecoveryRings:   5,
			ProbeHeight:     1.7,
			ProbeHalfHeight: 1,
		},
	}
}

// LoadAvatarSpec reads avatar.yaml over the defaults and validates the result.
func LoadAvatarSpec() (*AvatarSpec, error) {
	data, err := Load("avatar.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load avatar.yaml: %w", err)
	}
	return ParseAvatarSpec(data)
}

// ParseAvatarSpec decodes YAML over DefaultAvatarSpec, so omitted keys keep
// their defaults.
func ParseAvatarSpec(data []byte) (*AvatarSpec, error) {
	spec := DefaultAvatarSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal avatar.yaml: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Clearance is the radius used for every planning query.
func (s *AvatarSpec) Clearance() float64 {
	return s.Radius + s.SafetyBuffer
}

func (s *AvatarSpec) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"radius", s.Radius},
		{"movement_speed", s.MovementSpeed},
		{"rotation_speed", s.RotationSpeed},
		{"arrival_threshold", s.ArrivalThreshold},
		{"max_delta_time", s.MaxDeltaTime},
		{"navigation.cell_size", s.Navigation.CellSize},
		{"navigation.width", s.Navigation.Width},
		{"navigation.length", s.Navigation.Length},
		{"navigation.sample_step", s.Navigation.SampleStep},
		{"navigation.probe_half_height", s.Navigation.ProbeHalfHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidSpec, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"safety_buffer", s.SafetyBuffer},
		{"movement_acceleration_duration", s.MovementAccelerationDuration},
		{"rotation_acceleration_duration", s.RotationAccelerationDuration},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidSpec, p.name, p.value)
		}
	}

	if s.Navigation.RecoveryRings < 1 {
		return fmt.Errorf("%w: navigation.recovery_rings must be at least 1, got %d", ErrInvalidSpec, s.Navigation.RecoveryRings)
	}
	return nil
}

type ViewerSpec struct {
	Title string `yaml:"title"`
	// Scale is screen pixels per world unit.
	Scale  float64 `yaml:"scale"`
	Margin int     `yaml:"margin"`
	// TurnSpeed is radians per second while a turn key is held.
	TurnSpeed float64 `yaml:"turn_speed"`
	// DragTurn is radians per pixel of horizontal drag with the primary button.
	DragTurn float64     `yaml:"drag_turn"`
	ShowGrid bool        `yaml:"show_grid"`
	Palette  PaletteSpec `yaml:"palette"`
}

type PaletteSpec struct {
	Background *YAMLColor `yaml:"background"`
	Floor      *YAMLColor `yaml:"floor"`
	Blocked    *YAMLColor `yaml:"blocked"`
	Wall       *YAMLColor `yaml:"wall"`
	Path       *YAMLColor `yaml:"path"`
	Avatar     *YAMLColor `yaml:"avatar"`
	Target     *YAMLColor `yaml:"target"`
	Text       *YAMLColor `yaml:"text"`
}

func LoadViewerSpec() (*ViewerSpec, error) {
	spec, err := LoadSpec[ViewerSpec]("viewer.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Scale <= 0 {
		return nil, fmt.Errorf("%w: viewer scale must be positive, got %v", ErrInvalidSpec, spec.Scale)
	}
	return &spec, nil
}

// Or returns the wrapped color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
