package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/types"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Type
		want bool
	}{
		{name: "same_primitive", a: types.Int, b: &types.Primitive{Name: "int"}, want: true},
		{name: "different_primitives", a: types.Int, b: types.Double, want: false},
		{name: "same_array", a: &types.Array{Elem: types.Int}, b: &types.Array{Elem: types.Int}, want: true},
		{name: "array_element_differs", a: &types.Array{Elem: types.Int}, b: &types.Array{Elem: types.Str}, want: false},
		{name: "nested_arrays", a: &types.Array{Elem: &types.Array{Elem: types.Int}}, b: &types.Array{Elem: &types.Array{Elem: types.Int}}, want: true},
		{name: "array_vs_element", a: &types.Array{Elem: types.Int}, b: types.Int, want: false},
		{
			name: "same_function",
			a:    &types.Function{Return: types.Int, Params: []types.Type{types.Str}},
			b:    &types.Function{Return: types.Int, Params: []types.Type{types.Str}},
			want: true,
		},
		{
			name: "function_arity_differs",
			a:    &types.Function{Return: types.Int, Params: []types.Type{types.Str}},
			b:    &types.Function{Return: types.Int},
			want: false,
		},
		{
			name: "function_param_differs",
			a:    &types.Function{Return: types.Int, Params: []types.Type{types.Str}},
			b:    &types.Function{Return: types.Int, Params: []types.Type{types.Bool}},
			want: false,
		},
		{name: "same_enum", a: &types.Enum{Name: "Color"}, b: &types.Enum{Name: "Color"}, want: true},
		{name: "different_enums", a: &types.Enum{Name: "Color"}, b: &types.Enum{Name: "Size"}, want: false},
		{name: "ranges", a: &types.Range{}, b: &types.Range{}, want: true},
		{name: "range_vs_array", a: &types.Range{}, b: &types.Array{Elem: types.Int}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, types.Equal(tt.b, tt.a))
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name             string
		expected, actual types.Type
		want             bool
	}{
		{name: "identical", expected: types.Int, actual: types.Int, want: true},
		{name: "int_widens_to_double", expected: types.Double, actual: types.Int, want: true},
		{name: "double_never_narrows", expected: types.Int, actual: types.Double, want: false},
		{name: "str_vs_int", expected: types.Str, actual: types.Int, want: false},
		{name: "no_array_covariance", expected: &types.Array{Elem: types.Double}, actual: &types.Array{Elem: types.Int}, want: false},
		{name: "equal_arrays", expected: &types.Array{Elem: types.Int}, actual: &types.Array{Elem: types.Int}, want: true},
		{name: "enum_is_not_int", expected: types.Int, actual: &types.Enum{Name: "Color"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.Compatible(tt.expected, tt.actual))
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		typ  types.Type
		want string
	}{
		{name: "primitive", typ: types.Int, want: "int"},
		{name: "array", typ: &types.Array{Elem: types.Str}, want: "str[]"},
		{name: "nested_array", typ: &types.Array{Elem: &types.Array{Elem: types.Int}}, want: "int[][]"},
		{name: "function", typ: &types.Function{Return: types.Int, Params: []types.Type{types.Str, types.Bool}}, want: "int(str, bool)"},
		{name: "nullary_function", typ: &types.Function{Return: types.Void}, want: "void()"},
		{name: "enum", typ: &types.Enum{Name: "Color"}, want: "enum Color"},
		{name: "range", typ: &types.Range{}, want: "range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestFromAST(t *testing.T) {
	tests := []struct {
		name string
		in   ast.Type
		want types.Type
	}{
		{name: "primitive", in: &ast.Primitive{Name: "bool"}, want: types.Bool},
		{
			name: "array",
			in:   &ast.ArrayType{Elem: &ast.Primitive{Name: "int"}},
			want: &types.Array{Elem: types.Int},
		},
		{
			name: "nested_array",
			in:   &ast.ArrayType{Elem: &ast.ArrayType{Elem: &ast.Primitive{Name: "str"}}},
			want: &types.Array{Elem: &types.Array{Elem: types.Str}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, types.Equal(tt.want, types.FromAST(tt.in)))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, types.IsNumeric(types.Int))
	assert.True(t, types.IsNumeric(types.Double))
	assert.False(t, types.IsNumeric(types.Str))
	assert.False(t, types.IsNumeric(&types.Array{Elem: types.Int}))
}
