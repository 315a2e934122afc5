package parser

import (
	"errors"
	"fmt"

	"github.com/cmmoran/nestgen/internal/model"
)

var (
	ErrSpecSyntax     = errors.New("spec syntax error")
	ErrDepthExhausted = errors.New("nesting depth exhausted")
	ErrDuplicateType  = errors.New("duplicate type")
	ErrNoInput        = errors.New("no input")
)

// SpecSyntaxError reports input that matches no grammar alternative.
type SpecSyntaxError struct {
	Pos model.Position
	Msg string
}

func (e *SpecSyntaxError) Error() string {
	if e.Pos.Line == 0 {
		if e.Pos.Filename != "" {
			return fmt.Sprintf("%s: %s", e.Pos.Filename, e.Msg)
		}
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *SpecSyntaxError) Unwrap() error { return ErrSpecSyntax }

// DepthExhaustedError reports a specification nested deeper than the
// configured limit.
type DepthExhaustedError struct {
	Name  string // struct being entered when the limit was hit
	Depth int
	Limit int
}

func (e *DepthExhaustedError) Error() string {
	return fmt.Sprintf("struct %q at depth %d exceeds nesting limit %d", e.Name, e.Depth, e.Limit)
}

func (e *DepthExhaustedError) Unwrap() error { return ErrDepthExhausted }
