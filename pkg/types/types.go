// Package types defines the semantic type descriptors used by the
// analyzer, distinct from the surface type syntax in pkg/ast.
package types

import (
	"strings"

	"github.com/slatelang/slate/pkg/ast"
)

// Type is a semantic type descriptor. Descriptors compare
// structurally; there is no interning or identity.
type Type interface {
	String() string
	typeDesc()
}

// Primitive is one of int, str, bool, double, void.
type Primitive struct {
	Name string
}

// Array is an array of Elem, nesting to arbitrary depth.
type Array struct {
	Elem Type
}

// Function is a callable with a fixed arity.
type Function struct {
	Return Type
	Params []Type
}

// Enum names a declared enumeration. Members carry their enum's
// descriptor, so two members of the same enum share a type.
type Enum struct {
	Name string
}

// Range is the pseudo-type of `start..end` expressions. It unifies
// with nothing else.
type Range struct{}

func (*Primitive) typeDesc() {}
func (*Array) typeDesc()     {}
func (*Function) typeDesc()  {}
func (*Enum) typeDesc()      {}
func (*Range) typeDesc()     {}

func (t *Primitive) String() string { return t.Name }
func (t *Array) String() string     { return t.Elem.String() + "[]" }
func (t *Enum) String() string      { return "enum " + t.Name }
func (*Range) String() string       { return "range" }

func (t *Function) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return t.Return.String() + "(" + strings.Join(params, ", ") + ")"
}

// The primitive singletons. Using the shared values is a convenience,
// not a requirement: equality is structural throughout.
var (
	Int    = &Primitive{Name: "int"}
	Str    = &Primitive{Name: "str"}
	Bool   = &Primitive{Name: "bool"}
	Double = &Primitive{Name: "double"}
	Void   = &Primitive{Name: "void"}
)

// Equal reports structural equality of two descriptors.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Name == bt.Name
	case *Array:
		bt, ok := b.(*Array)
		return ok && Equal(at.Elem, bt.Elem)
	case *Function:
		bt, ok := b.(*Function)
		if !ok || !Equal(at.Return, bt.Return) || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case *Enum:
		bt, ok := b.(*Enum)
		return ok && at.Name == bt.Name
	case *Range:
		_, ok := b.(*Range)
		return ok
	default:
		return false
	}
}

// Compatible reports whether a value of type actual may be used where
// expected is required: equal types always, and int where double is
// expected (implicit widening). Everything else is incompatible: no
// array covariance, no enum-to-int, no struct subtyping.
func Compatible(expected, actual Type) bool {
	if Equal(expected, actual) {
		return true
	}
	return Equal(expected, Double) && Equal(actual, Int)
}

// IsNumeric reports whether t is int or double.
func IsNumeric(t Type) bool {
	return Equal(t, Int) || Equal(t, Double)
}

// FromAST converts a surface type expression into its descriptor.
func FromAST(t ast.Type) Type {
	switch v := t.(type) {
	case *ast.Primitive:
		return &Primitive{Name: v.Name}
	case *ast.ArrayType:
		return &Array{Elem: FromAST(v.Elem)}
	default:
		// The parser only produces the two kinds above.
		return nil
	}
}
