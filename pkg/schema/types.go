package schema

import (
	"reflect"
	"slices"
)

// AttrType is the declared value type of an attribute.
type AttrType uint8

const (
	TypeString AttrType = iota + 1
	TypeBool
	TypeInt
	TypeArray
	TypeObject
	TypeAny
	TypeEnum
	TypeFloat
	TypeUnsupportedCallable
)

// String returns the declaration keyword for the type.
func (t AttrType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeAny:
		return "mixed"
	case TypeEnum:
		return "enum"
	case TypeFloat:
		return "float"
	case TypeUnsupportedCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// ClassRef names the accepted value type of an object attribute.
type ClassRef struct {
	// Name is the human-readable type name used in errors and descriptions.
	Name string

	// Type, when set, accepts any value assignable to it.
	Type reflect.Type

	// Valid, when set, accepts any value it returns true for.
	Valid func(any) bool
}

// Pseudo-types accepted without an instance check.
var (
	// ArrayKey accepts integers and strings.
	ArrayKey = ClassRef{Name: "arraykey"}

	// Num accepts integers and floats.
	Num = ClassRef{Name: "num"}
)

// ClassOf returns a ClassRef accepting values assignable to T. T may be an
// interface type.
func ClassOf[T any]() ClassRef {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return ClassRef{Name: t.String(), Type: t}
}

// AttributeSpec declares one attribute of a node type.
type AttributeSpec struct {
	Name string
	Type AttrType

	// Class is the accepted type for TypeObject attributes.
	Class ClassRef

	// Enum lists the allowed literals for TypeEnum attributes.
	Enum []string

	// Default is returned on read when the attribute is unset. nil means no default.
	Default any

	// Required makes reading the attribute fail while it is unset.
	Required bool
}

// HasDefault reports whether the attribute declares a default value.
func (a AttributeSpec) HasDefault() bool {
	return a.Default != nil
}

// WithDefault returns a copy of a with the given default.
func (a AttributeSpec) WithDefault(v any) AttributeSpec {
	a.Default = v
	return a
}

// MarkRequired returns a copy of a marked as required.
func (a AttributeSpec) MarkRequired() AttributeSpec {
	a.Required = true
	return a
}

func StringAttr(name string) AttributeSpec { return AttributeSpec{Name: name, Type: TypeString} }
func BoolAttr(name string) AttributeSpec   { return AttributeSpec{Name: name, Type: TypeBool} }
func IntAttr(name string) AttributeSpec    { return AttributeSpec{Name: name, Type: TypeInt} }
func FloatAttr(name string) AttributeSpec  { return AttributeSpec{Name: name, Type: TypeFloat} }
func ArrayAttr(name string) AttributeSpec  { return AttributeSpec{Name: name, Type: TypeArray} }
func AnyAttr(name string) AttributeSpec    { return AttributeSpec{Name: name, Type: TypeAny} }

// ObjectAttr declares an attribute holding values of the given class.
func ObjectAttr(name string, class ClassRef) AttributeSpec {
	return AttributeSpec{Name: name, Type: TypeObject, Class: class}
}

// EnumAttr declares an attribute restricted to the given string literals.
func EnumAttr(name string, values ...string) AttributeSpec {
	return AttributeSpec{Name: name, Type: TypeEnum, Enum: slices.Clone(values)}
}

// CallableAttr declares a function-valued attribute. Such attributes are
// unsupported: every write to them fails.
func CallableAttr(name string) AttributeSpec {
	return AttributeSpec{Name: name, Type: TypeUnsupportedCallable}
}
