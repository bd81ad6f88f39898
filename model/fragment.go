package model

// Fragment is a piece of text on a page with its rectangle in PDF point space.
// Y grows downwards from the top edge of the page.
type Fragment struct {
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
	Text string
}

// BoundingBox truncates the rectangle to integer points.
func (f Fragment) BoundingBox() BoundingBox {
	return BoundingBox{
		X1: int(f.X0),
		Y1: int(f.Y0),
		X2: int(f.X1),
		Y2: int(f.Y1),
	}
}
