// Package layout provides the geometric primitives shared by the layout
// engines: absolute and font-relative lengths, sizes, points, regions,
// frames, and the shape and stack helpers built on them.
package layout
