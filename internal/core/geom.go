package core

// Rect is an axis-aligned area on a cell grid, used for HUD boxes and menus.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Bounds supplies the current playable area in world units.
// The simulation queries it every frame; it never owns the display.
type Bounds interface {
	Size() (w, h float64)
}

// FixedBounds is a Bounds with a constant size.
type FixedBounds struct {
	W, H float64
}

// Size implements Bounds.
func (b FixedBounds) Size() (float64, float64) {
	return b.W, b.H
}

// CellBounds maps a terminal grid onto world units.
// Each cell spans CellW x CellH world units; Reserved rows at the top are
// left for the HUD.
type CellBounds struct {
	Cols, Rows   int
	CellW, CellH float64
	Reserved     int
}

// Size implements Bounds.
func (b *CellBounds) Size() (float64, float64) {
	rows := b.Rows - b.Reserved
	if rows < 1 {
		rows = 1
	}
	cols := b.Cols
	if cols < 1 {
		cols = 1
	}
	return float64(cols) * b.CellW, float64(rows) * b.CellH
}

// ToCell converts a world position to a cell coordinate (HUD rows included).
func (b *CellBounds) ToCell(p Vec2) (int, int) {
	return int(p.X / b.CellW), int(p.Y/b.CellH) + b.Reserved
}

// ToWorld converts a cell coordinate to the world position of the cell centre.
func (b *CellBounds) ToWorld(x, y int) Vec2 {
	return Vec2{
		X: (float64(x) + 0.5) * b.CellW,
		Y: (float64(y-b.Reserved) + 0.5) * b.CellH,
	}
}
