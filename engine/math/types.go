package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec4 represents a 4D vector. Colours use X,Y,Z,W as R,G,B,A in [0,1].
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief An axis aligned rectangle in pixels, Max exclusive. */
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec4Create(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec4Zero() Vec4 {
	return Vec4{}
}

func NewVec4One() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z, W: v.W + other.W}
}

func (v Vec4) Mul(other Vec4) Vec4 {
	return Vec4{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z, W: v.W * other.W}
}

func (v Vec4) MulScalar(s float32) Vec4 {
	return Vec4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

// Saturate clamps every component to [0,1].
func (v Vec4) Saturate() Vec4 {
	return Vec4{
		X: Clamp(v.X, 0, 1),
		Y: Clamp(v.Y, 0, 1),
		Z: Clamp(v.Z, 0, 1),
		W: Clamp(v.W, 0, 1),
	}
}

func NewRect(minX, minY, maxX, maxY int) Rect {
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Intersect returns the overlap of r and o, empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}
