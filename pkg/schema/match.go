package schema

// Element is a child that is a typed node.
type Element interface {
	TypeName() string
	CategoryOf(category string) bool
}

// Subject is an ordered child list a content model is matched against.
type Subject interface {
	Len() int
	// At returns the child at i as an Element, or nil if it is character
	// data (a scalar or an unsafe renderable).
	At(i int) Element
	// AlwaysValid reports whether the child at i excuses a failed match.
	AlwaysValid(i int) bool
}

// Match validates children against the model. On failure it returns the
// index of the first child the grammar could not account for.
//
// A failure at index i is forgiven when the child at i is always-valid.
func (m ContentModel) Match(children Subject) (int, bool) {
	switch m.Kind {
	case AnyChildren:
		return 0, true
	case NoChildren:
		return 0, children.Len() == 0
	}
	if m.Expr == nil {
		return 0, true
	}

	mt := matcher{children: children}
	i := 0
	if mt.expr(m.Expr, &i) && i == children.Len() {
		return i, true
	}
	if i < children.Len() && children.AlwaysValid(i) {
		return i, true
	}
	return i, false
}

type matcher struct {
	children Subject
}

// expr matches e at *index, advancing it on success. A failed expr leaves
// *index where it found it.
func (m matcher) expr(e Expr, index *int) bool {
	switch e := e.(type) {
	case Quantified:
		switch e.Occurs {
		case OccursOnce:
			return m.rule(e.Rule, index)
		case OccursZeroOrOne:
			m.rule(e.Rule, index)
			return true
		case OccursAnyNumber:
			m.repeat(e.Rule, index)
			return true
		case OccursOneOrMore:
			if !m.rule(e.Rule, index) {
				return false
			}
			m.repeat(e.Rule, index)
			return true
		}
		return false

	case Sequence:
		start := *index
		if m.expr(e.Left, index) && m.expr(e.Right, index) {
			return true
		}
		*index = start
		return false

	case Disjunction:
		start := *index
		if m.expr(e.Left, index) {
			return true
		}
		*index = start
		return m.expr(e.Right, index)
	}
	return false
}

// repeat matches r greedily until it fails or stops consuming children.
func (m matcher) repeat(r Rule, index *int) {
	for {
		start := *index
		if !m.rule(r, index) || *index == start {
			return
		}
	}
}

// rule matches one rule at *index.
func (m matcher) rule(r Rule, index *int) bool {
	i := *index
	switch r := r.(type) {
	case SubExprRule:
		return m.expr(r.Expr, index)
	}

	if i >= m.children.Len() {
		return false
	}
	el := m.children.At(i)

	var ok bool
	switch r := r.(type) {
	case AnyRule:
		ok = true
	case PCDataRule:
		ok = el == nil
	case ElementRule:
		ok = el != nil && el.TypeName() == r.Type
	case CategoryRule:
		ok = el != nil && el.CategoryOf(r.Category)
	}
	if ok {
		*index = i + 1
	}
	return ok
}
