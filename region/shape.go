package region

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
)

// ShapeType tags a Region's geometry variant.
type ShapeType uint32

// The seven MSB shape variants. Point is the default, represented on disk
// by the absence of any shape data block.
const (
	ShapePoint ShapeType = iota
	ShapeCircle
	ShapeSphere
	ShapeCylinder
	ShapeRectangle
	ShapeBox
	ShapeComposite
)

// Shape is a Region's geometry, a tagged variant held in Region's own shape
// field so Region remains its sole owner. Shapes that carry data are held
// as pointers to their struct (*Circle, *Box, ...); Point and Composite are
// plain values.
// Composite's 8 child-region references are deliberately NOT part of Shape
// — see Region.CompositeChildren — so the cross-entry reference resolver
// never has to descend into shape-specific state.
type Shape interface {
	Type() ShapeType
	dataSize() int
	deserializeData(r *binio.Reader) error
	serializeData(w *binio.Writer) error
}

// Point is the default shape: a single location with no extent.
type Point struct{}

func (Point) Type() ShapeType                          { return ShapePoint }
func (Point) dataSize() int                            { return 0 }
func (Point) deserializeData(*binio.Reader) error       { return nil }
func (Point) serializeData(*binio.Writer) error         { return nil }

// Circle is a flat disc shape.
type Circle struct {
	Radius float32
}

func (Circle) Type() ShapeType { return ShapeCircle }
func (Circle) dataSize() int   { return 4 }

func (c *Circle) deserializeData(r *binio.Reader) (err error) {
	c.Radius, err = r.ReadFloat32()
	return err
}

func (c Circle) serializeData(w *binio.Writer) error {
	return w.WriteFloat32(c.Radius)
}

// Sphere is a solid spherical shape.
type Sphere struct {
	Radius float32
}

func (Sphere) Type() ShapeType { return ShapeSphere }
func (Sphere) dataSize() int   { return 4 }

func (s *Sphere) deserializeData(r *binio.Reader) (err error) {
	s.Radius, err = r.ReadFloat32()
	return err
}

func (s Sphere) serializeData(w *binio.Writer) error {
	return w.WriteFloat32(s.Radius)
}

// Cylinder is a vertical cylindrical shape.
type Cylinder struct {
	Radius float32
	Height float32
}

func (Cylinder) Type() ShapeType { return ShapeCylinder }
func (Cylinder) dataSize() int   { return 8 }

func (c *Cylinder) deserializeData(r *binio.Reader) error {
	var err error
	if c.Radius, err = r.ReadFloat32(); err != nil {
		return err
	}
	c.Height, err = r.ReadFloat32()
	return err
}

func (c Cylinder) serializeData(w *binio.Writer) error {
	if err := w.WriteFloat32(c.Radius); err != nil {
		return err
	}
	return w.WriteFloat32(c.Height)
}

// Rectangle is a flat rectangular shape.
type Rectangle struct {
	Width float32
	Depth float32
}

func (Rectangle) Type() ShapeType { return ShapeRectangle }
func (Rectangle) dataSize() int   { return 8 }

func (rc *Rectangle) deserializeData(r *binio.Reader) error {
	var err error
	if rc.Width, err = r.ReadFloat32(); err != nil {
		return err
	}
	rc.Depth, err = r.ReadFloat32()
	return err
}

func (rc Rectangle) serializeData(w *binio.Writer) error {
	if err := w.WriteFloat32(rc.Width); err != nil {
		return err
	}
	return w.WriteFloat32(rc.Depth)
}

// Box is a solid rectangular shape.
type Box struct {
	Width  float32
	Depth  float32
	Height float32
}

func (Box) Type() ShapeType { return ShapeBox }
func (Box) dataSize() int   { return 12 }

func (b *Box) deserializeData(r *binio.Reader) error {
	var err error
	if b.Width, err = r.ReadFloat32(); err != nil {
		return err
	}
	if b.Depth, err = r.ReadFloat32(); err != nil {
		return err
	}
	b.Height, err = r.ReadFloat32()
	return err
}

func (b Box) serializeData(w *binio.Writer) error {
	if err := w.WriteFloat32(b.Width); err != nil {
		return err
	}
	if err := w.WriteFloat32(b.Depth); err != nil {
		return err
	}
	return w.WriteFloat32(b.Height)
}

// Composite is a shape built from up to 8 child Regions (see
// Region.CompositeChildren). The shape itself carries no data of its own.
type Composite struct{}

func (Composite) Type() ShapeType                    { return ShapeComposite }
func (Composite) dataSize() int                      { return 0 }
func (Composite) deserializeData(*binio.Reader) error { return nil }
func (Composite) serializeData(*binio.Writer) error   { return nil }

// newShape constructs the zero-value shape for a given tag.
func newShape(t ShapeType) (Shape, error) {
	switch t {
	case ShapePoint:
		return Point{}, nil
	case ShapeCircle:
		return &Circle{}, nil
	case ShapeSphere:
		return &Sphere{}, nil
	case ShapeCylinder:
		return &Cylinder{}, nil
	case ShapeRectangle:
		return &Rectangle{}, nil
	case ShapeBox:
		return &Box{}, nil
	case ShapeComposite:
		return Composite{}, nil
	default:
		return nil, fmt.Errorf("region: unknown shape type %d", t)
	}
}
