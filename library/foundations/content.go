// Content type for Typst.
// Translated from foundations/content/mod.rs

package foundations

import "typstcore/syntax"

// Content represents typeset content.
//
// Content is immutable and shareable: methods that "modify" content
// (Labelled, WithSpan, StyledWithMap) return a new value sharing the
// element slice with the original.
type Content struct {
	// Elements contains the content elements.
	Elements []ContentElement

	// span is the source location this content was produced from, used
	// for diagnostics. The zero span means detached.
	span syntax.Span
}

// ContentElement is a placeholder interface for content elements.
// IsContentElement is exported to allow cross-package type assertions.
type ContentElement interface {
	IsContentElement()
}

// Unlabellable marks elements that cannot carry a label: pure layout
// directives like spaces, breaks, and tags. Attaching a label in markup
// skips over these and lands on the nearest labellable element.
type Unlabellable interface {
	Unlabellable()
}

// UpdateEvent marks elements that update a counter or state register.
// Corresponds to Rust's StateUpdateElem/CounterUpdateElem detection in
// Content::is::<...> checks.
type UpdateEvent interface {
	UpdateEventKey() string
}

// ContentValue represents content as a Value.
type ContentValue struct {
	Content Content
}

func (ContentValue) Type() Type         { return TypeContent }
func (v ContentValue) Display() Content { return v.Content }
func (v ContentValue) Clone() Value     { return v }
func (ContentValue) isValue()           {}

// Hash returns the structural digest of the content.
func (v ContentValue) Hash() uint64 { return HashContent(v.Content) }

// Span returns the source span attached to this content.
func (c Content) Span() syntax.Span {
	return c.span
}

// WithSpan returns the content with the given source span attached.
func (c Content) WithSpan(span syntax.Span) Content {
	c.span = span
	return c
}

// IsEmpty reports whether the content has no elements.
func (c Content) IsEmpty() bool {
	return len(c.Elements) == 0
}

// LabelledElem attaches a label to its child content. Labels participate
// in references, label selectors, and introspection queries.
// Corresponds to Rust's Content::labelled, which stores the label inline;
// this implementation wraps instead so the element slice stays homogeneous.
type LabelledElem struct {
	// Label is the attached label.
	Label LabelValue
	// Child is the labelled content.
	Child Content
}

func (*LabelledElem) IsContentElement() {}

// Labelled returns the content wrapped with the given label.
// Corresponds to Rust's Content::labelled.
func (c Content) Labelled(label LabelValue) Content {
	return Content{
		Elements: []ContentElement{&LabelledElem{Label: label, Child: c}},
		span:     c.span,
	}
}

// Label returns the label attached to this content, or nil.
func (c Content) Label() *LabelValue {
	if len(c.Elements) == 1 {
		if le, ok := c.Elements[0].(*LabelledElem); ok {
			return &le.Label
		}
	}
	return nil
}

// IsUnlabellable reports whether no element of this content can carry a
// label (empty content, or only spaces/breaks/tags).
func (c Content) IsUnlabellable() bool {
	if len(c.Elements) == 0 {
		return true
	}
	for _, elem := range c.Elements {
		if _, ok := elem.(Unlabellable); !ok {
			return false
		}
	}
	return true
}

// ContainsStateOrCounter reports whether the content contains a counter
// or state update event, including nested inside sequences, styling, and
// labels. Used to hint when such updates are discarded.
func (c Content) ContainsStateOrCounter() bool {
	for _, elem := range c.Elements {
		switch e := elem.(type) {
		case UpdateEvent:
			return true
		case *StyledElem:
			if e.Child.ContainsStateOrCounter() {
				return true
			}
		case *LabelledElem:
			if e.Child.ContainsStateOrCounter() {
				return true
			}
		case *SequenceElem:
			for _, child := range e.Children {
				if child.ContainsStateOrCounter() {
					return true
				}
			}
		}
	}
	return false
}

// Sequence concatenates multiple content values into one.
// Corresponds to Rust's Content::sequence.
func Sequence(parts []Content) Content {
	if len(parts) == 1 {
		return parts[0]
	}
	n := 0
	for _, p := range parts {
		n += len(p.Elements)
	}
	elements := make([]ContentElement, 0, n)
	for _, p := range parts {
		elements = append(elements, p.Elements...)
	}
	return Content{Elements: elements}
}

// StyledElem is content alongside styles.
// Corresponds to Rust's StyledElem in foundations/content/mod.rs.
type StyledElem struct {
	// Child is the content being styled.
	Child Content
	// Styles are the styles to apply.
	Styles *Styles
}

func (*StyledElem) IsContentElement() {}

// StyledWithMap wraps content with a style map.
// Corresponds to Rust's Content::styled_with_map.
func StyledWithMap(content Content, styles *Styles) Content {
	if styles == nil || styles.IsEmpty() {
		return content
	}
	return Content{
		Elements: []ContentElement{&StyledElem{
			Child:  content,
			Styles: styles,
		}},
		span: content.span,
	}
}

// StyledWithMap wraps the content with a style map. Method form of the
// package-level StyledWithMap.
func (c Content) StyledWithMap(styles *Styles) Content {
	return StyledWithMap(c, styles)
}

// StyledWithRecipe wraps the content with a show rule recipe.
// Corresponds to Rust's Content::styled_with_recipe.
//
// A recipe with a selector is deferred: it is attached to the styles and
// applied during realization when matching elements are encountered. A
// selectorless recipe applies to the content as a whole right away where
// that is possible without realization machinery (none and plain content
// replacements); function transformations stay deferred because invoking
// them requires the evaluator.
func (c Content) StyledWithRecipe(engine *Engine, context *Context, recipe *Recipe) (Content, error) {
	if recipe.Selector == nil {
		switch t := recipe.Transform.(type) {
		case NoneTransformation:
			return Content{span: c.span}, nil
		case ContentTransformation:
			return t.Content.WithSpan(c.span), nil
		case StyleTransformation:
			return StyledWithMap(c, t.Styles), nil
		}
	}
	styles := NewStyles()
	styles.AddRecipe(recipe)
	return StyledWithMap(c, styles), nil
}

// SequenceElem is a sequence of content elements.
// Corresponds to Rust's SequenceElem in foundations/content/mod.rs.
type SequenceElem struct {
	// Children are the content elements in sequence.
	Children []Content
}

func (*SequenceElem) IsContentElement() {}

// SymbolElem represents a symbol in math mode.
// Corresponds to Rust's SymbolElem in typst-library/src/text/symbol.rs.
type SymbolElem struct {
	// Text is the symbol text/character.
	Text string
}

func (*SymbolElem) IsContentElement() {}
