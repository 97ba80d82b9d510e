package errors

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "unknown type",
			code:    "E090",
			wantMsg: "Unknown node type",
			wantCat: CategoryType,
		},
		{
			name:    "attribute error",
			code:    "E100",
			wantMsg: "Attribute is not supported",
			wantCat: CategoryAttribute,
		},
		{
			name:    "children error",
			code:    "E110",
			wantMsg: "Invalid children",
			wantCat: CategoryChildren,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Index != -1 {
				t.Errorf("Index = %d, want -1", err.Index)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "markup.json")
	if err.Message != `file "markup.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want %q", err.Category, CategoryConfig)
	}
}

func TestMarkupError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *MarkupError
		want string
	}{
		{
			name: "code only",
			err:  New("E110"),
			want: "E110: Invalid children",
		},
		{
			name: "with subject",
			err:  New("E102").ForNode("div").ForAttribute("tabindex"),
			want: "E102: Invalid attribute value (div @tabindex)",
		},
		{
			name: "with index and detail",
			err:  New("E110").ForNode("ul").AtIndex(2).WithDetail("expected :li*, got :li,:li,:div"),
			want: "E110: Invalid children (ul [2]): expected :li*, got :li,:li,:div",
		},
		{
			name: "without code",
			err:  &MarkupError{Message: "test error", Index: -1},
			want: "test error",
		},
		{
			name: "wrapped",
			err:  New("E140").Wrap(io.ErrUnexpectedEOF),
			want: "E140: Document could not be decoded: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkupError_IsAndUnwrap(t *testing.T) {
	err := New("E101").ForNode("img").ForAttribute("src")
	if !errors.Is(err, Sentinel("E101")) {
		t.Error("errors.Is should match on code")
	}
	if errors.Is(err, Sentinel("E100")) {
		t.Error("errors.Is should not match a different code")
	}

	wrapped := New("E150").Wrap(io.EOF)
	if !errors.Is(wrapped, io.EOF) {
		t.Error("errors.Is should see the wrapped error")
	}

	var me *MarkupError
	if !errors.As(error(wrapped), &me) || me.Code != "E150" {
		t.Error("errors.As should find the MarkupError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E140") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E100")
	if FromError(orig, "E140") != orig {
		t.Error("FromError should return an existing MarkupError unchanged")
	}

	got := FromError(io.EOF, "E140")
	if got.Code != "E140" || got.Wrapped != io.EOF {
		t.Errorf("FromError() = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E102").ForNode("div").ForAttribute("tabindex").
		WithDetail("expected int, got string").
		WithSuggestion("pass a number")
	out := err.Format()

	for _, want := range []string{
		"ERROR E102: Invalid attribute value",
		"div @tabindex",
		"expected int, got string",
		"Hint: pass a number",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "div @tabindex: E102: Invalid attribute value" {
		t.Errorf("FormatCompact() = %q", got)
	}

	js := err.FormatJSON()
	for _, want := range []string{`"code":"E102"`, `"nodeType":"div"`, `"attribute":"tabindex"`} {
		if !strings.Contains(js, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, js)
		}
	}
	if strings.Contains(js, `"index"`) {
		t.Errorf("FormatJSON() should omit unset index: %s", js)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %v", codes)
		}
	}

	Register("E999", ErrorTemplate{Category: CategoryRender, Message: "Custom"})
	defer delete(registry, "E999")
	if tpl, ok := GetTemplate("E999"); !ok || tpl.Message != "Custom" {
		t.Errorf("GetTemplate() = %+v, %v", tpl, ok)
	}
}
