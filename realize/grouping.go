package realize

import (
	"typstcore/eval"
)

// Grouping collects consecutive realized elements into one composite
// before layout sees them: inline runs become paragraphs, runs of list
// items become lists. A group opens when a rule's trigger matches,
// swallows elements its inner predicate accepts, and closes as soon as
// anything else arrives.

// groupingRule describes one kind of group.
type groupingRule struct {
	// trigger reports whether elem opens a group of this kind.
	trigger func(elem eval.ContentElement) bool
	// inner reports whether elem continues an open group.
	inner func(elem eval.ContentElement) bool
	// finish builds the composite element from the collected members.
	finish func(elements []eval.ContentElement) eval.ContentElement
}

// activeGroup is a group currently being collected.
type activeGroup struct {
	rule     *groupingRule
	elements []eval.ContentElement
	styles   *StyleChain
	label    string
}

// paragraphRule collects inline content into a paragraph. Spaces join a
// running paragraph but never start one.
var paragraphRule = &groupingRule{
	trigger: isInlineElement,
	inner: func(elem eval.ContentElement) bool {
		if _, ok := elem.(*eval.SpaceElement); ok {
			return true
		}
		return isInlineElement(elem)
	},
	finish: func(elements []eval.ContentElement) eval.ContentElement {
		if len(elements) == 0 {
			return nil
		}
		return &eval.ParagraphElement{Body: eval.Content{Elements: elements}}
	},
}

// listRuleFor builds the grouping rule for one list item kind. Spaces
// between items stay inside the group and are dropped at finish.
func listRuleFor(
	matches func(elem eval.ContentElement) bool,
	finish func(items []eval.ContentElement) eval.ContentElement,
) *groupingRule {
	return &groupingRule{
		trigger: matches,
		inner: func(elem eval.ContentElement) bool {
			if _, ok := elem.(*eval.SpaceElement); ok {
				return true
			}
			if _, ok := elem.(*eval.ParbreakElement); ok {
				return true
			}
			return matches(elem)
		},
		finish: func(elements []eval.ContentElement) eval.ContentElement {
			items := make([]eval.ContentElement, 0, len(elements))
			for _, elem := range elements {
				if matches(elem) {
					items = append(items, elem)
				}
			}
			if len(items) == 0 {
				return nil
			}
			return finish(items)
		},
	}
}

var bulletListRule = listRuleFor(
	func(elem eval.ContentElement) bool {
		_, ok := elem.(*eval.ListItemElement)
		return ok
	},
	func(items []eval.ContentElement) eval.ContentElement {
		list := &eval.ListElement{Items: make([]*eval.ListItemElement, 0, len(items))}
		for _, item := range items {
			list.Items = append(list.Items, item.(*eval.ListItemElement))
		}
		return list
	},
)

var enumListRule = listRuleFor(
	func(elem eval.ContentElement) bool {
		_, ok := elem.(*eval.EnumItemElement)
		return ok
	},
	func(items []eval.ContentElement) eval.ContentElement {
		list := &eval.EnumElement{Items: make([]*eval.EnumItemElement, 0, len(items))}
		for _, item := range items {
			list.Items = append(list.Items, item.(*eval.EnumItemElement))
		}
		return list
	},
)

var termListRule = listRuleFor(
	func(elem eval.ContentElement) bool {
		_, ok := elem.(*eval.TermItemElement)
		return ok
	},
	func(items []eval.ContentElement) eval.ContentElement {
		list := &eval.TermsElement{Items: make([]*eval.TermItemElement, 0, len(items))}
		for _, item := range items {
			list.Items = append(list.Items, item.(*eval.TermItemElement))
		}
		return list
	},
)

// groupingRules is the closed rule set, tried in order. List rules come
// first so a list item opens a list rather than being treated as the
// interruption of a paragraph.
var groupingRules = []*groupingRule{
	bulletListRule,
	enumListRule,
	termListRule,
	paragraphRule,
}

// group routes an element through the grouping machinery. It reports
// whether the element was consumed into a group; otherwise the caller
// emits it directly (after any open group has been closed).
func (s *State) group(elem eval.ContentElement, styles *StyleChain, label string) bool {
	if s.active != nil {
		if s.active.rule.inner(elem) {
			s.active.elements = append(s.active.elements, elem)
			if s.active.label == "" {
				s.active.label = label
			}
			return true
		}
		s.closeGroup()
	}

	// Grouping applies to document and fragment realization only; math
	// and HTML realization keep the raw stream.
	switch s.Kind.(type) {
	case LayoutDocument, *LayoutFragment:
	default:
		return false
	}

	for _, rule := range groupingRules {
		if rule.trigger(elem) {
			s.active = &activeGroup{
				rule:     rule,
				elements: []eval.ContentElement{elem},
				styles:   styles,
				label:    label,
			}
			return true
		}
	}
	return false
}

// closeGroup finishes the open group, if any, and emits its composite.
func (s *State) closeGroup() {
	if s.active == nil {
		return
	}
	group := s.active
	s.active = nil

	// Trailing spaces of a paragraph group belong after it, not in it.
	elements := group.elements
	for len(elements) > 0 {
		if _, ok := elements[len(elements)-1].(*eval.SpaceElement); !ok {
			break
		}
		elements = elements[:len(elements)-1]
	}

	if composite := group.rule.finish(elements); composite != nil {
		styles := group.styles
		if styles == nil {
			styles = EmptyStyleChain()
		}
		s.Output = append(s.Output, Pair{
			Element: composite,
			Styles:  styles,
			Label:   group.label,
		})
	}
}

// isInlineElement reports whether an element belongs to paragraph
// content.
func isInlineElement(elem eval.ContentElement) bool {
	switch e := elem.(type) {
	case *eval.TextElement, *eval.StrongElement, *eval.EmphElement,
		*eval.LinkElement, *eval.RefElement, *eval.SmartQuoteElement,
		*eval.LinebreakElement:
		return true
	case *eval.RawElement:
		return !e.Block
	case *eval.EquationElement:
		return !e.Block
	}
	return false
}

// isBlockElement reports whether an element always interrupts inline
// content.
func isBlockElement(elem eval.ContentElement) bool {
	switch elem.(type) {
	case *eval.ParagraphElement, *eval.HeadingElement,
		*eval.ListElement, *eval.EnumElement, *eval.TermsElement,
		*eval.BlockElement:
		return true
	}
	return false
}
