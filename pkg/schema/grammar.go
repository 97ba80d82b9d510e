package schema

// Occurrence is the quantifier applied to a single rule.
type Occurrence uint8

const (
	OccursOnce      Occurrence = iota // rule
	OccursAnyNumber                   // rule*
	OccursZeroOrOne                   // rule?
	OccursOneOrMore                   // rule+
)

// suffix returns the declaration suffix for the quantifier.
func (o Occurrence) suffix() string {
	switch o {
	case OccursAnyNumber:
		return "*"
	case OccursZeroOrOne:
		return "?"
	case OccursOneOrMore:
		return "+"
	default:
		return ""
	}
}

// Expr is a content-model expression: a quantified rule, a sequence or a
// disjunction.
type Expr interface {
	String() string
	isExpr()
}

// Rule is one child predicate inside a quantified expression.
type Rule interface {
	String() string
	isRule()
}

// Quantified applies an occurrence quantifier to a rule.
type Quantified struct {
	Occurs Occurrence
	Rule   Rule
}

// Sequence matches Left and then Right.
type Sequence struct {
	Left, Right Expr
}

// Disjunction matches Left or, failing that, Right.
type Disjunction struct {
	Left, Right Expr
}

func (Quantified) isExpr()  {}
func (Sequence) isExpr()    {}
func (Disjunction) isExpr() {}

func (q Quantified) String() string  { return q.Rule.String() + q.Occurs.suffix() }
func (s Sequence) String() string    { return s.Left.String() + "," + s.Right.String() }
func (d Disjunction) String() string { return d.Left.String() + "|" + d.Right.String() }

// AnyRule matches any single child.
type AnyRule struct{}

// PCDataRule matches a single child that is not a node.
type PCDataRule struct{}

// ElementRule matches a node of exactly the named type.
type ElementRule struct {
	Type string
}

// CategoryRule matches a node whose type belongs to the category.
type CategoryRule struct {
	Category string
}

// SubExprRule matches a nested expression.
type SubExprRule struct {
	Expr Expr
}

func (AnyRule) isRule()      {}
func (PCDataRule) isRule()   {}
func (ElementRule) isRule()  {}
func (CategoryRule) isRule() {}
func (SubExprRule) isRule()  {}

func (AnyRule) String() string        { return "any" }
func (PCDataRule) String() string     { return "pcdata" }
func (r ElementRule) String() string  { return ":" + r.Type }
func (r CategoryRule) String() string { return "%" + r.Category }
func (r SubExprRule) String() string  { return "(" + r.Expr.String() + ")" }

// Rule constructors.

func Any() Rule                 { return AnyRule{} }
func PCData() Rule              { return PCDataRule{} }
func Elem(typeName string) Rule { return ElementRule{Type: typeName} }
func Cat(category string) Rule  { return CategoryRule{Category: trimCategory(category)} }
func Group(e Expr) Rule         { return SubExprRule{Expr: e} }

// Quantifier constructors.

func Single(r Rule) Expr    { return Quantified{Occurs: OccursOnce, Rule: r} }
func AnyNumber(r Rule) Expr { return Quantified{Occurs: OccursAnyNumber, Rule: r} }
func ZeroOrOne(r Rule) Expr { return Quantified{Occurs: OccursZeroOrOne, Rule: r} }
func OneOrMore(r Rule) Expr { return Quantified{Occurs: OccursOneOrMore, Rule: r} }

// Seq chains expressions left to right: Seq(a, b, c) is ((a, b), c).
func Seq(first, second Expr, rest ...Expr) Expr {
	e := Expr(Sequence{Left: first, Right: second})
	for _, r := range rest {
		e = Sequence{Left: e, Right: r}
	}
	return e
}

// Or chains alternatives left to right: Or(a, b, c) is ((a | b) | c).
func Or(first, second Expr, rest ...Expr) Expr {
	e := Expr(Disjunction{Left: first, Right: second})
	for _, r := range rest {
		e = Disjunction{Left: e, Right: r}
	}
	return e
}

// ModelKind distinguishes the three content-model shapes.
type ModelKind uint8

const (
	// AnyChildren accepts every child list. It is the zero value.
	AnyChildren ModelKind = iota
	// NoChildren accepts only an empty child list.
	NoChildren
	// Expression matches children against a grammar.
	Expression
)

// ContentModel is the children declaration of a node type.
type ContentModel struct {
	Kind ModelKind
	Expr Expr
}

var (
	// Empty declares that a node type takes no children.
	Empty = ContentModel{Kind: NoChildren}
	// Anything declares that a node type takes any children.
	Anything = ContentModel{Kind: AnyChildren}
)

// Children declares a content model matched by e.
func Children(e Expr) ContentModel {
	return ContentModel{Kind: Expression, Expr: e}
}

// String returns the declaration form: "any", "empty" or the grammar.
func (m ContentModel) String() string {
	switch m.Kind {
	case NoChildren:
		return "empty"
	case Expression:
		if m.Expr == nil {
			return "any"
		}
		return m.Expr.String()
	default:
		return "any"
	}
}
