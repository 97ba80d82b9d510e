package schema

import (
	"slices"
	"testing"
)

// child is a test child: an element when typ is set, character data otherwise.
type child struct {
	typ    string
	cats   []string
	always bool
}

func (c child) TypeName() string          { return c.typ }
func (c child) CategoryOf(cat string) bool { return slices.Contains(c.cats, cat) }

type children []child

func (c children) Len() int { return len(c) }
func (c children) At(i int) Element {
	if c[i].typ == "" {
		return nil
	}
	return c[i]
}
func (c children) AlwaysValid(i int) bool { return c[i].always }

var (
	a    = child{typ: "a"}
	b    = child{typ: "b"}
	x    = child{typ: "x"}
	span = child{typ: "span", cats: []string{"flow", "phrase"}}
	div  = child{typ: "div", cats: []string{"flow"}}
	text = child{}
)

func TestMatchContentModels(t *testing.T) {
	aThenBs := Children(Seq(Single(Elem("a")), AnyNumber(Elem("b"))))
	aOrB := Children(Or(Single(Elem("a")), Single(Elem("b"))))
	phrasing := Children(AnyNumber(Group(Or(Single(PCData()), Single(Cat("phrase"))))))
	greedy := Children(Seq(AnyNumber(Elem("x")), Single(Elem("x"))))

	tests := []struct {
		name      string
		model     ContentModel
		children  children
		wantOK    bool
		wantIndex int
	}{
		{"empty accepts nothing", Empty, nil, true, 0},
		{"empty rejects child", Empty, children{text}, false, 0},
		{"any accepts everything", Anything, children{a, text, b}, true, 0},

		{"seq [A]", aThenBs, children{a}, true, 1},
		{"seq [A,B]", aThenBs, children{a, b}, true, 2},
		{"seq [A,B,B]", aThenBs, children{a, b, b}, true, 3},
		{"seq []", aThenBs, nil, false, 0},
		{"seq [B]", aThenBs, children{b}, false, 0},
		{"seq [A,A]", aThenBs, children{a, a}, false, 1},

		{"or [A]", aOrB, children{a}, true, 1},
		{"or [B]", aOrB, children{b}, true, 1},
		{"or [A,B]", aOrB, children{a, b}, false, 1},

		{"pcdata or phrase", phrasing, children{text, span, text}, true, 3},
		{"flow is not phrase", phrasing, children{text, div}, false, 1},

		{"greedy star starves trailing", greedy, children{x, x}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := tt.model.Match(tt.children)
			if ok != tt.wantOK {
				t.Errorf("Match() ok = %v, want %v", ok, tt.wantOK)
			}
			if index != tt.wantIndex {
				t.Errorf("Match() index = %d, want %d", index, tt.wantIndex)
			}
		})
	}
}

func TestMatchQuantifiers(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		children children
		want     bool
	}{
		{"single needs one", Single(Elem("a")), nil, false},
		{"zero or one empty", ZeroOrOne(Elem("a")), nil, true},
		{"zero or one one", ZeroOrOne(Elem("a")), children{a}, true},
		{"zero or one two", ZeroOrOne(Elem("a")), children{a, a}, false},
		{"one or more empty", OneOrMore(Elem("a")), nil, false},
		{"one or more many", OneOrMore(Elem("a")), children{a, a, a}, true},
		{"any rule", OneOrMore(Any()), children{a, text, div}, true},
		{"category rule", OneOrMore(Cat("%flow")), children{div, span}, true},
		{"pcdata rejects nodes", Single(PCData()), children{a}, false},
		{"nested group repeats", AnyNumber(Group(Seq(Single(Elem("a")), Single(Elem("b"))))), children{a, b, a, b}, true},
		{"nested group partial", AnyNumber(Group(Seq(Single(Elem("a")), Single(Elem("b"))))), children{a, b, a}, false},
		{"star of star terminates", AnyNumber(Group(AnyNumber(Elem("a")))), children{a, a, b}, false},
		{
			"disjunction restarts from original cursor",
			Or(Seq(Single(Elem("a")), Single(Elem("a"))), Seq(Single(Elem("a")), Single(Elem("b")))),
			children{a, b},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Children(tt.expr).Match(tt.children); ok != tt.want {
				t.Errorf("Match(%s) = %v, want %v", tt.expr, ok, tt.want)
			}
		})
	}
}

func TestMatchAlwaysValidConsolation(t *testing.T) {
	escape := child{always: true}

	pair := Children(Seq(Single(Elem("a")), Single(Elem("b"))))
	if _, ok := pair.Match(children{escape, a, b}); !ok {
		t.Error("always-valid child at the failing index should be forgiven")
	}

	as := Children(AnyNumber(Elem("a")))
	if idx, ok := as.Match(children{a, escape, text}); !ok || idx != 1 {
		t.Errorf("Match() = %d, %v; want 1, true", idx, ok)
	}
	if idx, ok := as.Match(children{a, text, escape}); ok || idx != 1 {
		t.Errorf("Match() = %d, %v; want 1, false (escape value not at failing index)", idx, ok)
	}
}

func TestMatchSequenceRollsBack(t *testing.T) {
	pair := Children(Seq(Single(Elem("a")), Single(Elem("b"))))
	if idx, ok := pair.Match(children{a, a}); ok || idx != 0 {
		t.Errorf("Match() = %d, %v; want 0, false", idx, ok)
	}
}
