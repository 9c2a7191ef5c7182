// Package irgen is the boundary to the code generator. The generator
// consumes the validated AST produced by the frontend; it is an
// external collaborator of the core pipeline, not part of it.
package irgen

import (
	"context"

	"github.com/slatelang/slate/pkg/ast"
	"gitlab.com/tozd/go/errors"
)

// Generator lowers a validated program to an IR module.
type Generator interface {
	// Generate emits IR for a program that has passed semantic
	// analysis. Passing an unvalidated program is undefined behavior.
	Generate(ctx context.Context, program []ast.Stmt) (string, error)
}

// NotImplementedGenerator is a placeholder until a backend lands.
type NotImplementedGenerator struct{}

// NewNotImplementedGenerator creates the placeholder generator.
func NewNotImplementedGenerator() *NotImplementedGenerator {
	return &NotImplementedGenerator{}
}

// Generate implements Generator.
func (g *NotImplementedGenerator) Generate(ctx context.Context, program []ast.Stmt) (string, error) {
	return "", errors.Errorf("code generation is not implemented")
}
