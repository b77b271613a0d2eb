package compiler

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = "main" "{" statement* "}" EOF
//	statement  = varDecl | regAssign | binaryOp | pointerOp | ifStmt
//	varDecl    = IDENTIFIER "=" HEX ";"
//	regAssign  = "reg" REGISTER "=" HEX ";"
//	           | "reg" REGPAIR "=" (HEX | "malloc" "(" HEX ")") ";"
//	binaryOp   = REGISTER ("+" | "-" | "&" | "|" | "^") REGISTER ";"
//	pointerOp  = REGPAIR ("++" | "--") ";"
//	ifStmt     = "if" "(" operand ("<" | ">" | "==") operand ")" "{" statement* "}"
//	operand    = REGISTER | IDENTIFIER
//
// Width rules are enforced here rather than in codegen: 8-bit registers only
// take literals up to 0xFF, malloc and 16-bit immediates only target register
// pairs, and ++/-- only apply to register pairs. Conditional operands that
// name a variable must refer to a declaration earlier in the source; the
// symbol table is built incrementally as declarations are parsed.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
	syms        *SymbolTable
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(rawSource, "\n"),
		syms:        NewSymbolTable(),
	}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based

	snippet := ""
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return &ParseError{Line: tok.Line, Snippet: snippet, Msg: msg}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// expectByte consumes a HEX token and checks it fits in 8 bits.
func (p *Parser) expectByte(context string) (Token, error) {
	tok, err := p.expect(HEX)
	if err != nil {
		return tok, err
	}
	if tok.Value > 0xFF {
		return tok, p.fmtError(tok, "8-bit value %s exceeds maximum (0xFF) in %s", tok.Lexeme, context)
	}
	return tok, nil
}

// parseVarDecl handles  name = 0xNN;
func (p *Parser) parseVarDecl() (Stmt, error) {
	name := p.advance() // IDENTIFIER, checked by caller
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expectByte(fmt.Sprintf("declaration of %q", name.Lexeme))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	if !p.syms.Declare(name.Lexeme) {
		return nil, p.fmtError(name, "variable %q is already declared", name.Lexeme)
	}
	return &VarDecl{Name: name.Lexeme, Value: value.Value}, nil
}

// parseRegAssign handles the three "reg" forms:
//
//	reg A = 0x08;
//	reg HL = 0x6000;
//	reg HL = malloc(0x6000);
func (p *Parser) parseRegAssign() (Stmt, error) {
	p.advance() // REG, checked by caller

	target := p.advance()
	if target.Type != REGISTER && target.Type != REGPAIR {
		return nil, p.fmtError(target, "expected a register name after 'reg', got %s (%q)", target.Type, target.Lexeme)
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}

	var stmt Stmt
	switch p.peek().Type {
	case HEX:
		value := p.advance()
		if target.Type == REGPAIR {
			stmt = &MallocAssign{Pair: target.Lexeme, Address: value.Value}
		} else {
			if value.Value > 0xFF {
				return nil, p.fmtError(value, "16-bit value %s cannot be assigned to 8-bit register %s", value.Lexeme, target.Lexeme)
			}
			stmt = &RegAssign{Register: target.Lexeme, Value: value.Value}
		}
	case MALLOC:
		if target.Type != REGPAIR {
			return nil, p.fmtError(target, "malloc() requires a 16-bit register pair, got %s", target.Lexeme)
		}
		p.advance() // malloc
		if _, err := p.expect(LPAREN); err != nil {
			return nil, err
		}
		addr, err := p.expect(HEX)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		stmt = &MallocAssign{Pair: target.Lexeme, Address: addr.Value}
	default:
		tok := p.peek()
		return nil, p.fmtError(tok, "expected a hex literal or malloc() after '=', got %s (%q)", tok.Type, tok.Lexeme)
	}

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseRegisterStmt handles statements that begin with an 8-bit register:
// the binary operation form  A + B;
func (p *Parser) parseRegisterStmt() (Stmt, error) {
	left := p.advance() // REGISTER, checked by caller

	op := p.advance()
	switch op.Type {
	case PLUS, MINUS, AMP, PIPE, CARET:
		// fall through to the operand below
	case PLUS_PLUS, MINUS_MINUS:
		return nil, p.fmtError(op, "%s requires a 16-bit register pair, got %s", op.Lexeme, left.Lexeme)
	default:
		return nil, p.fmtError(op, "expected an operator after register %s, got %s (%q)", left.Lexeme, op.Type, op.Lexeme)
	}

	right, err := p.expect(REGISTER)
	if err != nil {
		return nil, err
	}
	// The target machine only supports accumulator-relative operations
	// against a fixed right operand.
	if right.Lexeme != "B" {
		return nil, p.fmtError(right, "second operand of %s must be register B, got %s", op.Lexeme, right.Lexeme)
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &BinaryOp{Left: left.Lexeme, Op: op.Type, Right: right.Lexeme}, nil
}

// parsePointerOp handles  HL++;  and  HL--;
func (p *Parser) parsePointerOp() (Stmt, error) {
	pair := p.advance() // REGPAIR, checked by caller

	op := p.advance()
	if op.Type != PLUS_PLUS && op.Type != MINUS_MINUS {
		return nil, p.fmtError(op, "expected ++ or -- after register pair %s, got %s (%q)", pair.Lexeme, op.Type, op.Lexeme)
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &PointerOp{Pair: pair.Lexeme, Increment: op.Type == PLUS_PLUS}, nil
}

// parseOperand reads one side of a conditional comparison: a raw 8-bit
// register or a previously declared variable name.
func (p *Parser) parseOperand() (Operand, error) {
	tok := p.advance()
	switch tok.Type {
	case REGISTER:
		return Operand{Register: tok.Lexeme}, nil
	case IDENTIFIER:
		if _, ok := p.syms.Lookup(tok.Lexeme); !ok {
			return Operand{}, p.fmtError(tok, "variable %q is not declared at this point", tok.Lexeme)
		}
		return Operand{Name: tok.Lexeme}, nil
	case REGPAIR:
		return Operand{}, p.fmtError(tok, "cannot compare 16-bit register pair %s, conditions are 8-bit", tok.Lexeme)
	default:
		return Operand{}, p.fmtError(tok, "expected a register or variable name in condition, got %s (%q)", tok.Type, tok.Lexeme)
	}
}

// parseIf handles  if (left cmp right) { body }
func (p *Parser) parseIf() (Stmt, error) {
	p.advance() // IF, checked by caller

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	cond := p.advance()
	switch cond.Type {
	case LESS, GREATER, EQUALS:
	default:
		return nil, p.fmtError(cond, "expected '<', '>' or '==' in condition, got %s (%q)", cond.Type, cond.Lexeme)
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	return &IfStmt{Left: left, Cond: cond.Type, Right: right, Body: body}, nil
}

// parseStatement dispatches on the leading token of a statement.
func (p *Parser) parseStatement() (Stmt, error) {
	switch p.peek().Type {
	case IDENTIFIER:
		return p.parseVarDecl()
	case REG:
		return p.parseRegAssign()
	case REGISTER:
		return p.parseRegisterStmt()
	case REGPAIR:
		return p.parsePointerOp()
	case IF:
		return p.parseIf()
	default:
		tok := p.peek()
		return nil, p.fmtError(tok, "expected a statement, got %s (%q)", tok.Type, tok.Lexeme)
	}
}

// parseBlock collects statements until the closing brace or EOF. The caller
// consumes the braces.
func (p *Parser) parseBlock() ([]Stmt, error) {
	var stmts []Stmt
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// Parse builds the Program for the single main block in tokens. rawSource is
// only used to attach source snippets to error messages.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	p := NewParser(tokens, rawSource)

	if tok, err := p.expect(MAIN); err != nil {
		return nil, p.fmtError(tok, "expected 'main {' at the beginning of the file")
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}

	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	switch tok := p.peek(); tok.Type {
	case EOF:
	case MAIN:
		return nil, p.fmtError(tok, "duplicate main block, exactly one is allowed")
	default:
		return nil, p.fmtError(tok, "unexpected %s (%q) after the main block", tok.Type, tok.Lexeme)
	}

	return &Program{Stmts: stmts}, nil
}
