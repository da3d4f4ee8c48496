// Package catalog owns the product list: identity generation, validation and the
// only mutation paths (add and remove).
package catalog

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jask/stockpile/internal/capture"
)

// MaxNameLength is the longest product name accepted, in characters.
const MaxNameLength = 50

// Product is one catalog entry. Values are immutable once created.
type Product struct {
	ID          string
	Name        string
	Description string
	Image       capture.ImageRef
	CreatedAt   time.Time
}

// HasImage reports whether a photo is attached.
func (p Product) HasImage() bool { return !p.Image.Empty() }

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid product")

// FieldProblem names one rejected field.
type FieldProblem struct {
	Field  string
	Reason string
}

// ValidationError lists every problem found with a candidate product.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "catalog: " + ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+" "+p.Reason)
	}
	return "catalog: " + ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Fields returns the names of the offending fields, in the order found.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Field)
	}
	return out
}

// Validate checks name and description after trimming surrounding whitespace.
// It returns nil or a *ValidationError.
func Validate(name, description string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	var problems []FieldProblem
	switch {
	case name == "":
		problems = append(problems, FieldProblem{Field: "name", Reason: "is required"})
	case utf8.RuneCountInString(name) > MaxNameLength:
		problems = append(problems, FieldProblem{Field: "name", Reason: "is longer than 50 characters"})
	}
	if description == "" {
		problems = append(problems, FieldProblem{Field: "description", Reason: "is required"})
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
