package world

// CanvasTransform maps world (Y, Z) coordinates to canvas pixels. Canvas X
// increases rightward and canvas Y increases downward, the inverse of world
// Y, so the Y axis is negated during conversion. The renderer owns the
// origin placement and scale; this type owns the sign contract.
type CanvasTransform struct {
	// OriginX, OriginY locate the world origin on the canvas, in pixels.
	OriginX float64
	OriginY float64
	// Scale is pixels per world meter. Must be positive.
	Scale float64
}

// ToCanvas converts a world point to canvas pixel coordinates.
func (t CanvasTransform) ToCanvas(p Point) (x, y float64) {
	x = t.OriginX + p.Z*t.Scale
	y = t.OriginY + CanvasYSign*p.Y*t.Scale
	return x, y
}

// FromCanvas inverts ToCanvas, recovering the world point under a pixel.
// Used for hit-testing pointer input against targets.
func (t CanvasTransform) FromCanvas(x, y float64) Point {
	return Point{
		Y: CanvasYSign * (y - t.OriginY) / t.Scale,
		Z: (x - t.OriginX) / t.Scale,
	}
}
