package schema

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/markup/internal/errors"
)

// CoercionMode controls what happens when an attribute value has the wrong
// type but can be converted.
type CoercionMode int32

const (
	// CoercionSilent converts the value and proceeds.
	CoercionSilent CoercionMode = iota
	// CoercionWarn converts the value and emits a Notice.
	CoercionWarn
	// CoercionThrow rejects every value that is not already of the declared type.
	CoercionThrow
)

// String returns the configuration name of the mode.
func (m CoercionMode) String() string {
	switch m {
	case CoercionSilent:
		return "silent"
	case CoercionWarn:
		return "warn"
	case CoercionThrow:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseCoercionMode parses a configuration name. "throw" and "log" are
// accepted as aliases of "strict" and "warn".
func ParseCoercionMode(s string) (CoercionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "":
		return CoercionSilent, nil
	case "warn", "log":
		return CoercionWarn, nil
	case "strict", "throw":
		return CoercionThrow, nil
	}
	return CoercionSilent, errors.New("E130").WithDetailf("unknown coercion mode %q", s)
}

var coercionMode atomic.Int32

// SetCoercionMode sets the process-wide coercion mode and returns the
// previous one so scoped overrides can restore it.
func SetCoercionMode(m CoercionMode) CoercionMode {
	return CoercionMode(coercionMode.Swap(int32(m)))
}

// GetCoercionMode returns the process-wide coercion mode.
func GetCoercionMode() CoercionMode {
	return CoercionMode(coercionMode.Load())
}

// Notice is a non-fatal deprecation signal raised when a value was accepted
// only through coercion or legacy tolerance.
type Notice struct {
	NodeType  string
	Attribute string
	From      string
	To        string
	Message   string
}

// NoticeHandler receives deprecation notices.
type NoticeHandler func(Notice)

var noticeHandler atomic.Pointer[NoticeHandler]

// LogNotice is the default NoticeHandler. It logs through slog.Default().
func LogNotice(n Notice) {
	slog.Default().Warn("markup: deprecated attribute coercion",
		"type", n.NodeType,
		"attribute", n.Attribute,
		"from", n.From,
		"to", n.To,
		"message", n.Message,
	)
}

// SetNoticeHandler installs h and returns the previous handler. A nil h
// restores LogNotice.
func SetNoticeHandler(h NoticeHandler) NoticeHandler {
	var prev *NoticeHandler
	if h == nil {
		prev = noticeHandler.Swap(nil)
	} else {
		prev = noticeHandler.Swap(&h)
	}
	if prev == nil {
		return LogNotice
	}
	return *prev
}

func notify(n Notice) {
	if h := noticeHandler.Load(); h != nil {
		(*h)(n)
		return
	}
	LogNotice(n)
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// ValidateAttribute checks value against the declaration of attribute name
// on decl and returns the value to store. nil is always valid and means
// "explicitly unset".
func ValidateAttribute(decl *Declaration, name string, value any) (any, error) {
	spec, ok := decl.Attribute(name)
	if !ok {
		return nil, errors.New("E100").ForNode(decl.Name()).ForAttribute(name)
	}
	if value == nil {
		return nil, nil
	}
	v := validator{decl: decl, spec: spec, value: value}
	return v.validate()
}

type validator struct {
	decl  *Declaration
	spec  AttributeSpec
	value any
}

func (v validator) validate() (any, error) {
	switch v.spec.Type {
	case TypeString:
		if s, ok := v.value.(string); ok {
			return s, nil
		}
		return v.coerce("string", v.toString)

	case TypeBool:
		if b, ok := v.value.(bool); ok {
			return b, nil
		}
		return v.coerce("bool", v.toBool)

	case TypeInt:
		if i, ok := asInt(v.value); ok {
			return i, nil
		}
		return v.coerce("int", v.toInt)

	case TypeFloat:
		if f, ok := asFloat(v.value); ok {
			return f, nil
		}
		return v.coerce("float", v.toFloat)

	case TypeArray:
		if isSequence(v.value) {
			return v.value, nil
		}
		return nil, v.invalid("array")

	case TypeObject:
		return v.object()

	case TypeAny:
		return v.value, nil

	case TypeEnum:
		if s, ok := v.value.(string); ok && slices.Contains(v.spec.Enum, s) {
			return s, nil
		}
		return nil, v.invalid(enumString(v.spec.Enum))

	case TypeUnsupportedCallable:
		return nil, errors.New("E103").ForNode(v.decl.Name()).ForAttribute(v.spec.Name).
			WithDetail("callable attributes are not supported")
	}
	return nil, errors.New("E103").ForNode(v.decl.Name()).ForAttribute(v.spec.Name).
		WithDetailf("unknown attribute type %d", v.spec.Type)
}

// coerce applies the process coercion mode around a conversion.
func (v validator) coerce(to string, convert func() (any, bool)) (any, error) {
	mode := GetCoercionMode()
	if mode == CoercionThrow {
		return nil, v.invalid(to)
	}
	out, ok := convert()
	if !ok {
		return nil, v.invalid(to)
	}
	if mode == CoercionWarn {
		notify(Notice{
			NodeType:  v.decl.Name(),
			Attribute: v.spec.Name,
			From:      typeName(v.value),
			To:        to,
			Message:   fmt.Sprintf("coerced %s to %s", typeName(v.value), to),
		})
	}
	return out, nil
}

func (v validator) toString() (any, bool) {
	if n, ok := formatNumber(v.value); ok {
		return n, true
	}
	if s, ok := v.value.(fmt.Stringer); ok {
		return s.String(), true
	}
	return nil, false
}

func (v validator) toBool() (any, bool) {
	s, ok := v.value.(string)
	if !ok {
		return nil, false
	}
	switch s {
	case v.spec.Name, "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return nil, false
}

func (v validator) toInt() (any, bool) {
	s, ok := v.value.(string)
	if !ok || !intPattern.MatchString(s) {
		return nil, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return i, true
}

func (v validator) toFloat() (any, bool) {
	if i, ok := asInt(v.value); ok {
		return float64(i), true
	}
	s, ok := v.value.(string)
	if !ok || !floatPattern.MatchString(s) {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (v validator) object() (any, error) {
	class := v.spec.Class
	if class.Type != nil && reflect.TypeOf(v.value).AssignableTo(class.Type) {
		return v.value, nil
	}
	if class.Valid != nil && class.Valid(v.value) {
		return v.value, nil
	}
	switch class.Name {
	case ArrayKey.Name:
		if _, ok := v.value.(string); ok {
			return v.value, nil
		}
		if _, ok := asInt(v.value); ok {
			return v.value, nil
		}
	case Num.Name:
		if _, ok := asInt(v.value); ok {
			return v.value, nil
		}
		if _, ok := asFloat(v.value); ok {
			return v.value, nil
		}
	}
	if reflect.TypeOf(v.value).Kind() == reflect.Map {
		notify(Notice{
			NodeType:  v.decl.Name(),
			Attribute: v.spec.Name,
			From:      typeName(v.value),
			To:        class.Name,
			Message:   "allowing map as object type " + class.Name,
		})
		return v.value, nil
	}
	return nil, v.invalid(class.Name)
}

func (v validator) invalid(expected string) error {
	return errors.New("E102").ForNode(v.decl.Name()).ForAttribute(v.spec.Name).
		WithValue(v.value).
		WithDetailf("expected %s, got %s", expected, typeName(v.value))
}

// asInt reports whether x is of an integer kind and returns it as int.
func asInt(x any) (int, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	}
	return 0, false
}

// asFloat reports whether x is of a float kind and returns it as float64.
func asFloat(x any) (float64, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// formatNumber renders integer and float kinds as decimal strings.
func formatNumber(x any) (string, bool) {
	if i, ok := asInt(x); ok {
		return strconv.Itoa(i), true
	}
	if f, ok := asFloat(x); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// FormatScalar renders a number, bool or string the way attribute coercion
// and text serialization do.
func FormatScalar(x any) (string, bool) {
	switch t := x.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	}
	return formatNumber(x)
}

func isSequence(x any) bool {
	switch reflect.TypeOf(x).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func typeName(x any) string {
	if x == nil {
		return "nil"
	}
	return reflect.TypeOf(x).String()
}

func enumString(values []string) string {
	return `enum("` + strings.Join(values, `","`) + `")`
}
