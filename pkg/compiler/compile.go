package compiler

// Compile runs the full pipeline over one source text and returns the
// generated assembly lines. Each invocation owns its own symbol table and
// allocator state, so concurrent compilations of independent sources do not
// interfere.
func Compile(src string) ([]string, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, err
	}

	syms := NewSymbolTable()
	lines, err := Generate(prog, syms)
	if err != nil {
		return nil, err
	}

	return lines, nil
}
