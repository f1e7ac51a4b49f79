// Structural hashing for values and content.
//
// Content is equatable and hashable structurally: two values built the
// same way hash the same, regardless of where they were allocated. The
// digests feed the memoization fabric — a cached computation keyed on a
// value stays valid exactly as long as the value's structure does.

package foundations

import (
	"fmt"

	"typstcore/memo"
)

// HashValue returns the structural digest of a value. Every value kind
// contributes its own discriminator, so values of different types never
// hash alike by construction.
func HashValue(v Value) uint64 {
	h := memo.NewHasher()
	hashValueInto(h, v)
	return h.Sum64()
}

func hashValueInto(h *memo.Hasher, v Value) {
	switch t := v.(type) {
	case nil:
		h.WriteString("nil")
	case NoneValue:
		h.WriteString("none")
	case AutoValue:
		h.WriteString("auto")
	case Bool:
		h.WriteString("bool")
		if t {
			h.WriteUint64(1)
		} else {
			h.WriteUint64(0)
		}
	case Int:
		h.WriteString("int").WriteUint64(uint64(int64(t)))
	case Float:
		h.WriteString("float").WriteUint64(float64Bits(float64(t)))
	case Str:
		h.WriteString("str").WriteString(string(t))
	case LabelValue:
		h.WriteString("label").WriteString(string(t))
	case BytesValue:
		h.WriteString("bytes").WriteString(string(t))
	case LengthValue:
		h.WriteString("length").WriteUint64(float64Bits(t.Length.Points))
	case AngleValue:
		h.WriteString("angle").WriteUint64(float64Bits(t.Angle.Radians))
	case RatioValue:
		h.WriteString("ratio").WriteUint64(float64Bits(t.Ratio.Value))
	case RelativeValue:
		h.WriteString("relative").
			WriteUint64(float64Bits(t.Relative.Abs.Points)).
			WriteUint64(float64Bits(t.Relative.Rel.Value))
	case FractionValue:
		h.WriteString("fraction").WriteUint64(float64Bits(t.Fraction.Value))
	case *Datetime:
		h.WriteString("datetime")
		hashDatetimeInto(h, t)
	case ContentValue:
		h.WriteString("content")
		hashContentInto(h, t.Content)
	case *Array:
		h.WriteString("array").WriteUint64(uint64(t.Len()))
		for _, item := range t.Items() {
			hashValueInto(h, item)
		}
	case *Dict:
		h.WriteString("dict")
		for _, key := range t.SortedKeys() {
			item, _ := t.Get(key)
			h.WriteString(key)
			hashValueInto(h, item)
		}
	case FuncValue:
		h.WriteString("func")
		if t.Func != nil && t.Func.Name != nil {
			h.WriteString(*t.Func.Name)
		}
	case TypeValue:
		h.WriteString("type").WriteUint64(uint64(t.Inner))
	case SymbolValue:
		h.WriteString("symbol").WriteUint64(uint64(t.Char))
	default:
		// Remaining kinds hash by type identity only: enough to key a
		// cache conservatively (distinct kinds never collide, equal
		// instances of the same kind may miss).
		h.WriteString("dyn").WriteString(fmt.Sprintf("%T", v))
	}
}

// HashContent returns the structural digest of a content value.
func HashContent(c Content) uint64 {
	h := memo.NewHasher()
	hashContentInto(h, c)
	return h.Sum64()
}

func hashContentInto(h *memo.Hasher, c Content) {
	h.WriteUint64(uint64(len(c.Elements)))
	for _, elem := range c.Elements {
		hashElementInto(h, elem)
	}
}

func hashElementInto(h *memo.Hasher, elem ContentElement) {
	switch e := elem.(type) {
	case nil:
		h.WriteString("nil")
	case *StyledElem:
		h.WriteString("styled")
		hashContentInto(h, e.Child)
	case *LabelledElem:
		h.WriteString("labelled").WriteString(string(e.Label))
		hashContentInto(h, e.Child)
	case *SequenceElem:
		h.WriteString("sequence")
		for _, child := range e.Children {
			hashContentInto(h, child)
		}
	case *SymbolElem:
		h.WriteString("symbolelem").WriteString(e.Text)
	default:
		h.WriteString("elem").WriteString(fmt.Sprintf("%T", elem))
		if ev, ok := elem.(UpdateEvent); ok {
			h.WriteString(ev.UpdateEventKey())
		}
		if tx, ok := elem.(interface{ PlainText() string }); ok {
			h.WriteString(tx.PlainText())
		}
	}
}

func hashDatetimeInto(h *memo.Hasher, dt *Datetime) {
	if dt == nil {
		h.WriteString("nil")
		return
	}
	h.WriteUint64(uint64(int64(dt.YearOr(0)))).
		WriteUint64(uint64(int64(dt.MonthOr(0)))).
		WriteUint64(uint64(int64(dt.DayOr(0)))).
		WriteUint64(uint64(int64(dt.HourOr(0)))).
		WriteUint64(uint64(int64(dt.MinuteOr(0)))).
		WriteUint64(uint64(int64(dt.SecondOr(0))))
}
