package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gallerywalk/nav"
)

//go:embed *.yaml
var LevelsFS embed.FS

const DefaultLevel = "gallery"

var ErrUnknownLevel = errors.New("levels: unknown level")

type Level struct {
	Name string `yaml:"name"`
	// Height is used for walls that do not set their own.
	Height      float64 `yaml:"height"`
	Spawn       Point   `yaml:"spawn"`
	SpawnFacing float64 `yaml:"spawn_facing"`
	Walls       []Wall  `yaml:"walls"`
}

type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// Wall is a box standing on the floor, centered on (X, Z). Width runs along
// x and Length along z.
type Wall struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Width  float64 `yaml:"width"`
	Length float64 `yaml:"length"`
	Height float64 `yaml:"height"`
}

func (w Wall) Obstacle(defaultHeight float64) nav.Obstacle {
	h := w.Height
	if h <= 0 {
		h = defaultHeight
	}
	hw, hl := w.Width/2, w.Length/2
	return nav.Obstacle{
		Min: mgl64.Vec3{w.X - hw, 0, w.Z - hl},
		Max: mgl64.Vec3{w.X + hw, h, w.Z + hl},
	}
}

// Obstacles converts every wall into a navigation obstacle.
func (l *Level) Obstacles() []nav.Obstacle {
	out := make([]nav.Obstacle, 0, len(l.Walls))
	for _, w := range l.Walls {
		out = append(out, w.Obstacle(l.Height))
	}
	return out
}

func (l *Level) SpawnPoint(eyeHeight float64) mgl64.Vec3 {
	return mgl64.Vec3{l.Spawn.X, eyeHeight, l.Spawn.Z}
}

func (l *Level) Validate() error {
	if l.Height <= 0 {
		return fmt.Errorf("levels: %s: height must be positive", l.Name)
	}
	for i, w := range l.Walls {
		if w.Width <= 0 || w.Length <= 0 {
			return fmt.Errorf("levels: %s: wall %d (%s) has non-positive size %vx%v", l.Name, i, w.Name, w.Width, w.Length)
		}
	}
	return nil
}

// Load reads levels/<name>.yaml from disk when present, otherwise the
// embedded copy.
func Load(name string) (*Level, error) {
	clean := cleanLevelName(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, name)
		}
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}
	return Parse(clean, data)
}

func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Names lists the embedded levels without extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// FileName returns the on-disk file name for a level name.
func FileName(name string) string {
	return cleanLevelName(name)
}

func cleanLevelName(name string) string {
	if name == "" {
		name = DefaultLevel
	}
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".yaml") {
		s += ".yaml"
	}
	return s
}
