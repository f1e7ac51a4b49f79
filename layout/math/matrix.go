package math

import (
	"typstcore/layout"
	libmath "typstcore/library/math"
)

// matrix lays out a grid of cells with surrounding delimiters. Columns
// size to their widest cell; rows to their tallest. The whole grid
// centers on the math axis.
func (ctx *Context) matrix(e *libmath.MatrixElem) *ComposedFragment {
	if len(e.Rows) == 0 {
		return compose(ClassInner, nil)
	}

	cols := 0
	for _, row := range e.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	// Lay out every cell and collect column widths and row heights.
	cells := make([][]*ComposedFragment, len(e.Rows))
	colWidths := make([]layout.Abs, cols)
	rowAscents := make([]layout.Abs, len(e.Rows))
	rowDescents := make([]layout.Abs, len(e.Rows))
	for i, row := range e.Rows {
		cells[i] = make([]*ComposedFragment, len(row))
		for j, cell := range row {
			frag := ctx.run(ctx.layoutContent(cell))
			cells[i][j] = frag
			if frag.Width() > colWidths[j] {
				colWidths[j] = frag.Width()
			}
			if frag.Ascent() > rowAscents[i] {
				rowAscents[i] = frag.Ascent()
			}
			if frag.Descent() > rowDescents[i] {
				rowDescents[i] = frag.Descent()
			}
		}
	}

	colGap := ctx.em(0.5)
	rowGap := ctx.em(0.2)

	var total layout.Abs
	for i := range e.Rows {
		total += rowAscents[i] + rowDescents[i]
		if i > 0 {
			total += rowGap
		}
	}

	// Center the grid on the axis: the first row's ascent starts at the
	// grid top.
	axis := ctx.em(axisHeight)
	top := -(total/2 + axis)

	var children []Positioned
	y := top
	for i, row := range e.Rows {
		baseline := y + rowAscents[i]
		var x layout.Abs
		for j := range row {
			cell := cells[i][j]
			children = append(children, Positioned{
				X:        x + (colWidths[j]-cell.Width())/2,
				Y:        baseline,
				Fragment: cell,
			})
			x += colWidths[j] + colGap
		}
		y = baseline + rowDescents[i] + rowGap
	}

	grid := compose(ClassInner, children)

	// Wrap in stretched delimiters.
	openGlyph := ctx.text(string(e.DelimOpen()))
	closeGlyph := ctx.text(string(e.DelimClose()))
	target := Height(grid)

	var wrapped []Positioned
	var x layout.Abs
	stretchedOpen := ctx.stretch(openGlyph, target, grid)
	wrapped = append(wrapped, Positioned{X: x, Y: stretchedOpen.Y, Fragment: stretchedOpen.Fragment})
	x += stretchedOpen.Fragment.Width()
	wrapped = append(wrapped, Positioned{X: x, Y: 0, Fragment: grid})
	x += grid.Width()
	stretchedClose := ctx.stretch(closeGlyph, target, grid)
	wrapped = append(wrapped, Positioned{X: x, Y: stretchedClose.Y, Fragment: stretchedClose.Fragment})

	return compose(ClassInner, wrapped)
}
