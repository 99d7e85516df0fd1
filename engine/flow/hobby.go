package flow

import (
	"math/cmplx"

	"github.com/gogpu/gg"
	"github.com/npillmayer/arithm"
	"github.com/npillmayer/arithm/jhobby"
	"github.com/npillmayer/textflow/core"
)

// Smooth creates a closed path shape from a smooth curve through the given
// points. The curve consists of cubic splines with control points chosen
// according to J. Hobby's algorithm (as used in MetaPost), with tension 1
// at every knot.
func Smooth(pts ...Point) (Shape, error) {
	if len(pts) < 3 {
		return Shape{}, core.LayoutError(core.InvalidText, nil,
			"smooth shape needs at least 3 points, have %d", len(pts))
	}
	var b jhobby.KnotAdder = jhobby.Nullpath()
	for _, pt := range pts {
		b = b.Knot(arithm.P(pt.X, pt.Y)).Curve()
	}
	path, controls := b.Cycle()
	controls = jhobby.FindHobbyControls(path, controls)
	n := path.N()
	p := gg.NewPath()
	start := pair(path.Z(0))
	p.MoveTo(start.X, start.Y)
	for i := 0; i < n; i++ {
		c1 := controls.PostControl(i)
		c2 := controls.PreControl((i + 1) % n)
		to := pair(path.Z(i + 1))
		if cmplx.IsNaN(c1.C()) || cmplx.IsNaN(c2.C()) {
			tracer().Debugf("smooth shape: no controls for segment %d", i)
			p.LineTo(to.X, to.Y)
			continue
		}
		a, b := pair(c1), pair(c2)
		p.CubicTo(a.X, a.Y, b.X, b.Y, to.X, to.Y)
	}
	p.Close()
	return Path(p), nil
}

func pair(pr arithm.Pair) Point {
	return gg.Pt(pr.X(), pr.Y())
}
