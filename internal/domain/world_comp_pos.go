package domain

import "math"

// Point - позиция в пикселях мира (непрерывная).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает точное расстояние до другой точки
func (p Point) DistanceTo(other Point) float64 {
	return math.Sqrt(p.Dist2(other))
}

// Dist2 возвращает квадрат расстояния, для сравнения без корней
func (p Point) Dist2(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Within - цель в радиусе r (граница включительно).
func (p Point) Within(other Point, r float64) bool {
	return p.Dist2(other) <= r*r
}

// Shift возвращает новую позицию со смещением
func (p Point) Shift(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// MaxX/MaxY - правая и нижняя граница, куда может встать игрок.
func MaxX() float64 { return float64((WorldWidth - 1) * TileSize) }
func MaxY() float64 { return float64((WorldHeight - 1) * TileSize) }

// ClampToWorld прижимает точку к границам мира.
func ClampToWorld(p Point) Point {
	return Point{X: Clamp(p.X, 0, MaxX()), Y: Clamp(p.Y, 0, MaxY())}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Facing - направление взгляда.
type Facing string

const (
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// FacingFromDelta выбирает направление по доминирующей оси.
// При нулевом смещении направление не меняется.
func FacingFromDelta(dx, dy float64, current Facing) Facing {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if dy != 0 {
		if dy > 0 {
			return FacingDown
		}
		return FacingUp
	}
	return current
}

// Vector - единичный вектор направления.
func (f Facing) Vector() (float64, float64) {
	switch f {
	case FacingUp:
		return 0, -1
	case FacingLeft:
		return -1, 0
	case FacingRight:
		return 1, 0
	default:
		return 0, 1
	}
}
