package schema

import (
	"errors"
	"sync"
	"testing"

	merrors "github.com/vango-dev/markup/internal/errors"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.MustDefine(Definition{
		Name:       "test:base",
		Attributes: []AttributeSpec{StringAttr("id"), StringAttr("title").WithDefault("base")},
	})
	r.MustDefine(Definition{
		Name:       "test:child",
		Inherit:    []string{"test:base"},
		Attributes: []AttributeSpec{StringAttr("title").WithDefault("child"), IntAttr("count")},
		Categories: []string{"%flow", "my-cat"},
		Children:   Children(AnyNumber(PCData())),
	})

	d, err := r.Lookup("test:child")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	var names []string
	for _, a := range d.Attributes() {
		names = append(names, a.Name)
	}
	if got, want := len(names), 3; got != want {
		t.Fatalf("attributes = %v, want %d entries", names, want)
	}
	if names[0] != "title" || names[1] != "count" || names[2] != "id" {
		t.Errorf("attribute order = %v", names)
	}

	title, _ := d.Attribute("title")
	if title.Default != "child" {
		t.Errorf("own attribute should win, got default %v", title.Default)
	}

	for _, c := range []string{"flow", "%flow", "my-cat", "my_cat"} {
		if !d.CategoryOf(c) {
			t.Errorf("CategoryOf(%q) = false", c)
		}
	}
	if d.CategoryOf("phrase") {
		t.Error("CategoryOf(phrase) = true")
	}

	again, _ := r.Lookup("test:child")
	if again != d {
		t.Error("Lookup() should return the cached declaration")
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Lookup("test:missing"); !errors.Is(err, merrors.Sentinel("E090")) {
		t.Errorf("unknown type error = %v, want E090", err)
	}

	r.MustDefine(Definition{Name: "test:dup"})
	if err := r.Define(Definition{Name: "test:dup"}); !errors.Is(err, merrors.Sentinel("E091")) {
		t.Errorf("duplicate error = %v, want E091", err)
	}
	if err := r.Define(Definition{}); err == nil {
		t.Error("nameless definition should fail")
	}

	r.MustDefine(Definition{Name: "test:a", Inherit: []string{"test:b"}})
	r.MustDefine(Definition{Name: "test:b", Inherit: []string{"test:a"}})
	if _, err := r.Lookup("test:a"); !errors.Is(err, merrors.Sentinel("E091")) {
		t.Errorf("cycle error = %v, want E091", err)
	}

	r.MustDefine(Definition{Name: "test:orphan", Inherit: []string{"test:nowhere"}})
	if _, err := r.Lookup("test:orphan"); !errors.Is(err, merrors.Sentinel("E090")) {
		t.Errorf("missing parent error = %v, want E090", err)
	}

	r.MustDefine(Definition{Name: "test:bad-enum", Attributes: []AttributeSpec{EnumAttr("e")}})
	if _, err := r.Lookup("test:bad-enum"); !errors.Is(err, merrors.Sentinel("E091")) {
		t.Errorf("empty enum error = %v, want E091", err)
	}

	r.MustDefine(Definition{Name: "test:bad-model", Children: ContentModel{Kind: Expression}})
	if _, err := r.Lookup("test:bad-model"); err == nil {
		t.Error("expression model without expression should fail")
	}
}

func TestRegistryMustDefinePanics(t *testing.T) {
	r := NewRegistry()
	r.MustDefine(Definition{Name: "test:once"})
	defer func() {
		if recover() == nil {
			t.Error("MustDefine() should panic on a duplicate")
		}
	}()
	r.MustDefine(Definition{Name: "test:once"})
}

func TestRegistryConcurrentLookup(t *testing.T) {
	r := NewRegistry()
	r.MustDefine(Definition{Name: "test:shared", Attributes: []AttributeSpec{StringAttr("id")}})

	const n = 32
	got := make([]*Declaration, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := r.Lookup("test:shared")
			if err != nil {
				t.Error(err)
				return
			}
			got[i] = d
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatal("concurrent lookups returned different declarations")
		}
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.MustDefine(Definition{Name: "b"})
	r.MustDefine(Definition{Name: "a"})
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v", names)
	}
	if !r.Has("a") || r.Has("c") {
		t.Error("Has() mismatch")
	}
}
