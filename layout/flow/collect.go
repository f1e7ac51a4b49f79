package flow

import (
	"strings"

	"typstcore/eval"
	"typstcore/layout"
	"typstcore/layout/inline"
	mathlayout "typstcore/layout/math"
)

// Collection turns a realized element stream into the flow children the
// distributor consumes. Inline runs accumulate into prepared paragraphs
// (deferred inline layout, measured against the region's exclusion bands
// at distribution time); blocks, equations, and breaks become their own
// children; everything flushes the running paragraph first.

// flowLeading is the vertical advance between line tops relative to the
// font size.
const flowLeading = 1.2

// StyleChain represents a chain of styles for content.
type StyleChain struct {
	// Styles contains the style values.
	Styles map[string]interface{}
}

// Get retrieves a style value.
func (s StyleChain) Get(key string) interface{} {
	if s.Styles == nil {
		return nil
	}
	return s.Styles[key]
}

// Locator tracks element locations for introspection.
type Locator struct {
	// Current is the current location counter.
	Current uint64
}

// Next returns the next location.
func (l *Locator) Next() Location {
	l.Current++
	return Location(l.Current)
}

// Collector converts content elements into flow layout children.
type Collector struct {
	// engine provides layout context.
	engine *Engine
	// mode determines how content is processed.
	mode FlowMode
	// styles provides style information.
	styles StyleChain
	// locator tracks element locations.
	locator *Locator
	// children accumulates the collected flow children.
	children []Child
	// text accumulates the running paragraph's plain text.
	text strings.Builder
	// fontSize is the base font size resolved from the styles.
	fontSize layout.Abs
	// area is the region size paragraphs and headings measure against.
	area layout.Size
}

// NewCollector creates a new content collector.
func NewCollector(engine *Engine, mode FlowMode, styles StyleChain, locator *Locator) *Collector {
	fontSize := layout.Abs(12)
	if v, ok := styles.Get("text.size").(float64); ok && v > 0 {
		fontSize = layout.Abs(v)
	}
	return &Collector{
		engine:   engine,
		mode:     mode,
		styles:   styles,
		locator:  locator,
		fontSize: fontSize,
		area:     layout.Size{Width: layout.Abs(1e6), Height: layout.Abs(1e6)},
	}
}

// Collect converts content into flow layout children.
// This is the main entry point for content collection.
func Collect(engine *Engine, content *eval.Content, mode FlowMode, styles StyleChain, locator *Locator) []Child {
	return CollectInArea(engine, content, mode, styles, locator, layout.Size{
		Width:  layout.Abs(1e6),
		Height: layout.Abs(1e6),
	})
}

// CollectInArea collects content with a known target area, so sized
// children (headings, equations) can clamp to the available width.
func CollectInArea(engine *Engine, content *eval.Content, mode FlowMode, styles StyleChain, locator *Locator, area layout.Size) []Child {
	c := NewCollector(engine, mode, styles, locator)
	c.area = area
	c.collectContent(content)
	c.flushParagraph()
	return c.children
}

// leading is the line advance for the current font size.
func (c *Collector) leading() layout.Abs {
	return layout.Abs(flowLeading * float64(c.fontSize))
}

// parConfig is the inline configuration paragraphs prepare against.
func (c *Collector) parConfig() *inline.Config {
	return &inline.Config{
		Linebreaks: layout.LinebreaksOptimized,
		FontSize:   c.fontSize,
		Costs:      inline.DefaultCosts(),
	}
}

// flushParagraph closes the running inline text into a paragraph child.
func (c *Collector) flushParagraph() {
	if c.text.Len() == 0 {
		return
	}
	text := strings.TrimSpace(c.text.String())
	c.text.Reset()
	if text == "" {
		return
	}
	prep := inline.PrepareSimple(text, c.parConfig())
	c.children = append(c.children, &ParChild{
		Prep:           prep,
		Leading:        c.leading(),
		PreventOrphans: true,
		PreventWidows:  true,
	})
}

// collectContent processes a Content value.
func (c *Collector) collectContent(content *eval.Content) {
	if content == nil {
		return
	}
	for _, elem := range content.Elements {
		c.collectElement(elem)
	}
}

// collectElement dispatches to the appropriate handler for each element type.
func (c *Collector) collectElement(elem eval.ContentElement) {
	if elem == nil {
		return
	}

	switch e := elem.(type) {
	// Inline content joins the running paragraph.
	case *eval.TextElement:
		c.text.WriteString(e.Text)
	case *eval.SpaceElement:
		c.text.WriteByte(' ')
	case *eval.LinebreakElement:
		c.text.WriteByte('\n')
	case *eval.SmartQuoteElement:
		if e.Double {
			c.text.WriteByte('"')
		} else {
			c.text.WriteByte('\'')
		}
	case *eval.StrongElement:
		c.collectContent(&e.Content)
	case *eval.EmphElement:
		c.collectContent(&e.Content)
	case *eval.LinkElement:
		c.text.WriteString(e.URL)
	case *eval.RefElement:
		c.text.WriteString(e.Target)

	// Paragraph structure
	case *eval.ParbreakElement:
		c.collectParbreak(e)
	case *eval.ParagraphElement:
		c.collectParagraph(e)

	// Block elements
	case *eval.HeadingElement:
		c.collectHeading(e)
	case *eval.RawElement:
		c.collectRaw(e)

	// List elements
	case *eval.ListElement:
		c.collectList(len(e.Items))
	case *eval.EnumElement:
		c.collectList(len(e.Items))
	case *eval.TermsElement:
		c.collectList(len(e.Items))

	// Math elements
	case *eval.EquationElement:
		c.collectEquation(e)

	// Breaks
	case *eval.PagebreakElem:
		c.flushParagraph()
		c.children = append(c.children, BreakChild{Weak: e.Weak})

	default:
		c.collectUnknown(elem)
	}
}

// collectParbreak ends the running paragraph and inserts weak spacing.
func (c *Collector) collectParbreak(elem *eval.ParbreakElement) {
	c.flushParagraph()
	c.addRelSpacing(c.leading()/2, 1)
}

// collectParagraph prepares an already-grouped paragraph.
func (c *Collector) collectParagraph(elem *eval.ParagraphElement) {
	c.flushParagraph()
	c.collectContent(&elem.Body)
	c.flushParagraph()
	c.addRelSpacing(c.leading()/2, 1)
}

// collectHeading emits a heading as a sized line with trailing spacing.
func (c *Collector) collectHeading(elem *eval.HeadingElement) {
	c.flushParagraph()

	size := headingSize(elem.Level, c.fontSize)
	width := estimateTextWidthAt(flattenText(elem.Content), size)
	if width > c.area.Width {
		width = c.area.Width
	}
	need := layout.Abs(flowLeading * float64(size))
	c.children = append(c.children, &LineChild{
		Frame: NewFrame(layout.Size{Width: width, Height: need}),
		Need:  need,
	})
	c.addRelSpacing(c.leading()/2, 1)
}

// collectRaw emits a block raw element as one line per source line;
// inline raw joins the paragraph.
func (c *Collector) collectRaw(elem *eval.RawElement) {
	if !elem.Block {
		c.text.WriteString(elem.Text)
		return
	}
	c.flushParagraph()
	for _, line := range strings.Split(elem.Text, "\n") {
		width := estimateTextWidthAt(line, c.fontSize)
		if width > c.area.Width {
			width = c.area.Width
		}
		c.children = append(c.children, &LineChild{
			Frame: NewFrame(layout.Size{Width: width, Height: c.leading()}),
			Need:  c.leading(),
		})
	}
	c.addRelSpacing(c.leading()/2, 1)
}

// collectList emits one line per list item.
func (c *Collector) collectList(items int) {
	c.flushParagraph()
	for i := 0; i < items; i++ {
		c.children = append(c.children, &LineChild{
			Frame: NewFrame(layout.Size{Width: c.area.Width, Height: c.leading()}),
			Need:  c.leading(),
		})
	}
	c.addRelSpacing(c.leading()/2, 1)
}

// collectEquation lays out an equation through the math engine. Block
// equations center as their own line; inline equations join the flow as
// a sized line too, since the metrics-only paragraph path cannot embed
// boxes mid-line.
func (c *Collector) collectEquation(elem *eval.EquationElement) {
	if elem.Block {
		c.flushParagraph()
	}
	frag := mathlayout.LayoutEquation(elem, c.fontSize)
	height := frag.Ascent() + frag.Descent()
	align := Axes[FixedAlignment]{}
	if elem.Block {
		align.X = FixedAlignCenter
	}
	c.children = append(c.children, &LineChild{
		Frame: NewFrame(layout.Size{Width: frag.Width(), Height: height}),
		Align: align,
		Need:  height,
	})
}

// collectUnknown emits an estimated line for elements the collector has
// no specific handling for, so no realized content silently vanishes.
func (c *Collector) collectUnknown(elem eval.ContentElement) {
	c.flushParagraph()
	c.children = append(c.children, &LineChild{
		Frame: NewFrame(layout.Size{Width: 0, Height: c.leading()}),
		Need:  c.leading(),
	})
}

// addRelSpacing appends relative spacing with the given weakness.
func (c *Collector) addRelSpacing(amount layout.Abs, weakness uint8) {
	c.children = append(c.children, RelChild{
		Amount:   Rel{Abs: amount},
		Weakness: weakness,
	})
}

// addTag appends an introspection tag child.
func (c *Collector) addTag(tag *Tag) {
	c.children = append(c.children, TagChild{Tag: tag})
}

// addFlush appends a float flush child.
func (c *Collector) addFlush() {
	c.children = append(c.children, FlushChild{})
}

// headingSize scales the font size by heading level.
func headingSize(level int, base layout.Abs) layout.Abs {
	switch level {
	case 1:
		return base * 2
	case 2:
		return base * 3 / 2
	case 3:
		return base * 5 / 4
	default:
		return base
	}
}

// flattenText concatenates the text elements of a content value.
func flattenText(content eval.Content) string {
	var b strings.Builder
	for _, elem := range content.Elements {
		switch e := elem.(type) {
		case *eval.TextElement:
			b.WriteString(e.Text)
		case *eval.SpaceElement:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// estimateTextWidthAt estimates text width at a given font size in the
// metrics-only path.
func estimateTextWidthAt(text string, size layout.Abs) layout.Abs {
	return layout.Abs(0.5 * float64(size) * float64(len([]rune(text))))
}
