// Package flow places a sequence of flow children into a sequence of
// regions, producing frames.
//
// The distributor is an explicit loop over a child cursor: tags flush at
// their position, weak spacing trims at region boundaries, paragraphs
// measure against the region's exclusion bands and spill by value when a
// region ends mid-paragraph, blocks signal inability to place through
// the Stop protocol rather than by error, floats queue into insertion
// banks, and wrap-floats register exclusion bands without consuming
// vertical space. Widow and orphan prevention inflates the need of edge
// lines so they cannot be stranded alone.
package flow
