package session

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type Waypoint struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type PathDocument struct {
	From      Waypoint   `yaml:"from"`
	To        Waypoint   `yaml:"to"`
	Reachable bool       `yaml:"reachable"`
	Waypoints []Waypoint `yaml:"waypoints"`
}

func waypointOf(p mgl64.Vec3) Waypoint {
	return Waypoint{X: p.X(), Z: p.Z()}
}

// EncodePath renders a planned path as YAML. A nil path is written as
// unreachable.
func EncodePath(from, to mgl64.Vec3, path []mgl64.Vec3) ([]byte, error) {
	doc := PathDocument{
		From:      waypointOf(from),
		To:        waypointOf(to),
		Reachable: path != nil,
		Waypoints: make([]Waypoint, 0, len(path)),
	}
	for _, p := range path {
		doc.Waypoints = append(doc.Waypoints, waypointOf(p))
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("session: encode path: %w", err)
	}
	return out, nil
}

func DecodePath(data []byte) (PathDocument, error) {
	var doc PathDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return PathDocument{}, fmt.Errorf("session: decode path: %w", err)
	}
	return doc, nil
}
