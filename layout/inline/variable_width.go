package inline

// Variable-width line breaking for paragraphs that flow alongside
// wrap-floats. The effective width of each line depends on the vertical
// position it ends up at. Every line is taken to advance by the same
// lineHeight, so a line's width is a function of its index alone, and the
// optimizing breaker carries the line count to measure each candidate
// line against the width of the slot it would occupy. The breaker is run
// again until two consecutive attempts give the same break positions;
// actual line heights are not measured, so the width profile is the same
// for every attempt.

// maxWrapIterations bounds the fixed-point iteration.
const maxWrapIterations = 3

// greedyFallbackTextLen is the text length beyond which the optimizing
// variable-width breaker hands over to the greedy first-fit breaker.
// Without active-set pruning the optimizing pass is quadratic in the
// number of breakpoints.
const greedyFallbackTextLen = 8192

// greedyFallbackVariance is the width variance beyond which cost
// monotonicity degrades enough that optimizing is not worth quadratic
// work.
const greedyFallbackVariance = 0.75

// WrapResult is the outcome of variable-width breaking.
type WrapResult struct {
	// Lines are the broken lines.
	Lines []Line
	// Converged is false when the break positions were still changing
	// when the iteration limit was reached.
	Converged bool
}

// LinebreakWithExclusions breaks a paragraph whose line widths are
// shaped by excl. lineHeight is the advance between consecutive line
// tops, used to map line indices to vertical positions.
//
// Lines that spill past the region carry the widths computed here even
// if the next region has no matching exclusions; spilled lines are not
// re-measured.
func LinebreakWithExclusions(p *Preparation, width Abs, excl *ParExclusions, lineHeight Abs) WrapResult {
	if excl.IsEmpty() {
		return WrapResult{Lines: Linebreak(p, width), Converged: true}
	}
	if lineHeight <= 0 {
		lineHeight = p.Config.FontSize
	}

	widthFor := func(lineIdx int) Abs {
		y0 := Abs(lineIdx) * lineHeight
		return excl.AvailableWidth(width, y0, y0+lineHeight)
	}

	if len(p.Text) > greedyFallbackTextLen || excl.WidthVariance(width) > greedyFallbackVariance {
		return WrapResult{Lines: linebreakGreedyVariable(p, widthFor), Converged: true}
	}

	var prev []int
	var lines []Line
	for iter := 0; iter < maxWrapIterations; iter++ {
		lines = linebreakOptimizedVariable(p, widthFor)
		breaks := breakPositions(lines)
		if iter > 0 && equalBreaks(breaks, prev) {
			return WrapResult{Lines: lines, Converged: true}
		}
		prev = breaks
	}
	return WrapResult{Lines: lines, Converged: false}
}

// breakPositions summarizes a break sequence by the textual length of
// each line.
func breakPositions(lines []Line) []int {
	out := make([]int, len(lines))
	for i := range lines {
		for _, item := range lines[i].Items {
			out[i] += len(item.Textual())
		}
	}
	return out
}

func equalBreaks(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// varEntry is a dynamic programming entry carrying the line count, since
// the width of the next line depends on how many lines precede it.
type varEntry struct {
	pred      int
	total     Cost
	line      Line
	end       int
	lineCount int
}

// linebreakOptimizedVariable is the Knuth-Plass pass for varying line
// widths. Active-set pruning is off: with per-line widths the "shorter
// lines have worse ratios" monotonicity that justifies dropping early
// predecessors no longer holds, so every predecessor after the last
// mandatory break stays live.
func linebreakOptimizedVariable(p *Preparation, widthFor func(lineIdx int) Abs) []Line {
	metrics := computeCostMetrics(p)

	table := []varEntry{{pred: 0, total: 0.0, line: EmptyLine(), end: 0}}

	floor := 0
	prevEnd := 0

	breakpointsFn(p, func(end int, bp BreakpointInfo) {
		var best *varEntry

		for predIndex := floor; predIndex < len(table); predIndex++ {
			pred := &table[predIndex]
			start := pred.end
			unbreakable := prevEnd == start

			attempt := makeLine(p, start, end, bp, &pred.line)
			width := widthFor(pred.lineCount)
			_, lineCost := ratioAndCost(p, metrics, width, &pred.line, &attempt, bp, unbreakable)

			total := pred.total + lineCost
			if best == nil || best.total >= total {
				best = &varEntry{
					pred:      predIndex,
					total:     total,
					line:      attempt,
					end:       end,
					lineCount: pred.lineCount + 1,
				}
			}
		}

		// A mandatory break separates the problem: no line may span it,
		// so earlier entries stop being viable predecessors.
		if bp.IsMandatory() {
			floor = len(table)
		}

		if best != nil {
			table = append(table, *best)
		}
		prevEnd = end
	})

	lines := make([]Line, 0, 16)
	idx := len(table) - 1
	for idx != 0 {
		lines = append(lines, table[idx].line)
		idx = table[idx].pred
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// linebreakGreedyVariable is the first-fit fallback for paragraphs too
// large or too width-varied for the optimizing pass.
func linebreakGreedyVariable(p *Preparation, widthFor func(lineIdx int) Abs) []Line {
	lines := make([]Line, 0, 16)
	start := 0
	var last *struct {
		line Line
		end  int
	}

	breakpointsFn(p, func(end int, bp BreakpointInfo) {
		width := widthFor(len(lines))

		var pred *Line
		if len(lines) > 0 {
			pred = &lines[len(lines)-1]
		}
		attempt := makeLine(p, start, end, bp, pred)

		if !width.Fits(attempt.Width) && last != nil {
			lines = append(lines, last.line)
			start = last.end
			attempt = makeLine(p, start, end, bp, &lines[len(lines)-1])
			last = nil
			width = widthFor(len(lines))
		}

		if bp.IsMandatory() || !width.Fits(attempt.Width) {
			lines = append(lines, attempt)
			start = end
			last = nil
		} else {
			last = &struct {
				line Line
				end  int
			}{attempt, end}
		}
	})

	if last != nil {
		lines = append(lines, last.line)
	}

	return lines
}
