package compiler

import "fmt"

// The three stage error kinds. Each stage fails fast: once one of these is
// returned, no partial tokens, AST, or assembly from that invocation is valid.

// LexError reports an illegal character or malformed literal in the source.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error on line %d: %s", e.Line, e.Msg)
}

func lexErrorf(line int, format string, args ...any) error {
	return &LexError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ParseError reports a grammar or semantic violation, pointing at the token
// where it was detected.
type ParseError struct {
	Line    int
	Snippet string // trimmed source line, "" when unavailable
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error on line %d: %s\n  |> %s", e.Line, e.Msg, e.Snippet)
}

// CodegenError reports a violated invariant during code generation, such as
// an operand that resolved to no register or register allocator exhaustion.
type CodegenError struct {
	Msg string
}

func (e *CodegenError) Error() string {
	return "codegen error: " + e.Msg
}

func codegenErrorf(format string, args ...any) error {
	return &CodegenError{Msg: fmt.Sprintf(format, args...)}
}
