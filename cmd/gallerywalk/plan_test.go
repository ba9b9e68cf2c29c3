package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/gallerywalk/session"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    mgl64.Vec3
		wantErr bool
	}{
		{"1,2", mgl64.Vec3{1, 1.7, 2}, false},
		{" -3.5 , 10 ", mgl64.Vec3{-3.5, 1.7, 10}, false},
		{"1", mgl64.Vec3{}, true},
		{"a,2", mgl64.Vec3{}, true},
		{"1,", mgl64.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in, 1.7)
			if tt.wantErr {
				if !errors.Is(err, errBadPoint) {
					t.Fatalf("parsePoint(%q) err = %v, want errBadPoint", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePoint(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlanCmdPrintsPath(t *testing.T) {
	var out bytes.Buffer
	c := PlanCmd()
	c.SetOut(&out)
	c.SetArgs([]string{"--from", "0,13", "--to", "10,0"})
	if err := c.Execute(); err != nil {
		t.Fatalf("plan: %v", err)
	}

	doc, err := session.DecodePath(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !doc.Reachable || len(doc.Waypoints) < 3 {
		t.Fatalf("expected a detour across the gallery, got %+v", doc)
	}
	if doc.From != (session.Waypoint{X: 0, Z: 13}) {
		t.Fatalf("from = %+v", doc.From)
	}
}

func TestPlanCmdRequiresTarget(t *testing.T) {
	c := PlanCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(nil)
	if err := c.Execute(); err == nil {
		t.Fatalf("plan without --to should fail")
	}
}

func TestGridCmd(t *testing.T) {
	var out bytes.Buffer
	c := GridCmd()
	c.SetOut(&out)
	c.SetArgs([]string{"--level", "annex"})
	if err := c.Execute(); err != nil {
		t.Fatalf("grid: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 61 {
		t.Fatalf("expected 60 grid rows and a summary, got %d lines", len(lines))
	}
	if !strings.Contains(lines[60], "60x60 cells") {
		t.Fatalf("summary = %q", lines[60])
	}
	if !strings.Contains(out.String(), "#") || !strings.Contains(out.String(), ".") {
		t.Fatalf("grid should show walls and floor")
	}
}
