// Package inline lays out paragraphs: preparation (smart quotes, tab
// expansion, bidirectional analysis, shaping) runs once per paragraph
// and is memoized; breaking runs a cost-minimizing dynamic program over
// breakpoint candidates, with a variable-width extension for text that
// wraps around floats and a greedy first-fit fallback for paragraphs too
// large or too width-varied to optimize.
package inline
