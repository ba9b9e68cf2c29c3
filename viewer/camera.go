package viewer

import "github.com/milk9111/gallerywalk/nav"

// Camera maps the floor plane onto the screen looking straight down: world x
// runs right and world z runs down.
type Camera struct {
	originX float64
	originZ float64
	width   float64
	length  float64
	scale   float64
	margin  float64
}

func NewCamera(region nav.GridConfig, scale float64, margin int) *Camera {
	return &Camera{
		originX: region.OriginX,
		originZ: region.OriginZ,
		width:   region.Width,
		length:  region.Length,
		scale:   scale,
		margin:  float64(margin),
	}
}

func (c *Camera) Scale() float64 { return c.scale }

// MapSize is the pixel size of the drawn floor including margins.
func (c *Camera) MapSize() (int, int) {
	return int(c.width*c.scale + 2*c.margin), int(c.length*c.scale + 2*c.margin)
}

func (c *Camera) WorldToScreen(x, z float64) (float32, float32) {
	return float32((x-c.originX)*c.scale + c.margin), float32((z-c.originZ)*c.scale + c.margin)
}

// ScreenToWorld is the floor-intersection query: the world point under a
// screen pixel.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx-c.margin)/c.scale + c.originX, (sy-c.margin)/c.scale + c.originZ
}

// OnFloor reports whether a screen pixel lies over the navigable region.
func (c *Camera) OnFloor(sx, sy float64) bool {
	x, z := c.ScreenToWorld(sx, sy)
	return x >= c.originX && z >= c.originZ && x < c.originX+c.width && z < c.originZ+c.length
}

func (c *Camera) Length(d float64) float32 {
	return float32(d * c.scale)
}
