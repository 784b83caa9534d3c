package obsgrid

// Coord is a point or extent in the observation volume, in meters.
type Coord struct {
	X, Y, Z float32
}

// Sub returns c - o component-wise.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Scale returns c multiplied by s.
func (c Coord) Scale(s float32) Coord {
	return Coord{X: c.X * s, Y: c.Y * s, Z: c.Z * s}
}

// lerp interpolates each component of a toward b by the matching component of t.
func lerp(a, b, t Coord) Coord {
	return Coord{
		X: a.X + t.X*(b.X-a.X),
		Y: a.Y + t.Y*(b.Y-a.Y),
		Z: a.Z + t.Z*(b.Z-a.Z),
	}
}

// Counts is the number of samples along each axis.
type Counts struct {
	X, Y, Z int
}

// Product returns X*Y*Z.
func (n Counts) Product() int {
	return n.X * n.Y * n.Z
}
