package compiler

import "unicode"

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"main":   MAIN,
	"reg":    REG,
	"malloc": MALLOC,
	"if":     IF,
}

// registerNames maps a register identifier to REGISTER or REGPAIR.
// Anything alphabetic that is neither a keyword nor a register name
// lexes as IDENTIFIER (a variable name).
var registerNames = map[string]TokenType{
	"A": REGISTER, "B": REGISTER, "C": REGISTER, "D": REGISTER,
	"E": REGISTER, "H": REGISTER, "L": REGISTER,
	"BC": REGPAIR, "DE": REGPAIR, "HL": REGPAIR,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// scanIdent collects a full identifier, keyword, or register name.
// The first letter must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	} else if rt, ok := registerNames[lexeme]; ok {
		tt = rt
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexDigitValue(r rune) uint16 {
	switch {
	case r >= '0' && r <= '9':
		return uint16(r - '0')
	case r >= 'a' && r <= 'f':
		return uint16(r-'a') + 10
	default:
		return uint16(r-'A') + 10
	}
}

// scanHex collects a hex literal. The leading '0' must still be at l.peek();
// only the 0x form is legal, bare decimal literals are rejected.
func (l *Lexer) scanHex() (Token, error) {
	line := l.line
	start := l.pos

	if l.peek() != '0' || (l.peek2() != 'x' && l.peek2() != 'X') {
		return Token{}, lexErrorf(line, "invalid number literal starting with %q, use a 0x-prefixed hex value", l.peek())
	}
	l.advance() // 0
	l.advance() // x

	var value uint16
	digits := 0
	for l.pos < len(l.src) && isHexDigit(l.peek()) {
		if digits == 4 {
			return Token{}, lexErrorf(line, "hex literal %s... exceeds 16 bits", string(l.src[start:l.pos]))
		}
		value = value<<4 | hexDigitValue(l.peek())
		digits++
		l.advance()
	}
	if digits == 0 {
		return Token{}, lexErrorf(line, "malformed hex literal %q, expected digits after 0x", string(l.src[start:l.pos]))
	}

	return Token{Type: HEX, Lexeme: string(l.src[start:l.pos]), Value: value, Line: line}, nil
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if unicode.IsLetter(ch) {
		return l.scanIdent(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanHex()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '{':
		return Token{Type: LBRACE, Lexeme: "{", Line: line}, nil
	case '}':
		return Token{Type: RBRACE, Lexeme: "}", Line: line}, nil
	case '(':
		return Token{Type: LPAREN, Lexeme: "(", Line: line}, nil
	case ')':
		return Token{Type: RPAREN, Lexeme: ")", Line: line}, nil
	case ';':
		return Token{Type: SEMICOLON, Lexeme: ";", Line: line}, nil
	case '&':
		return Token{Type: AMP, Lexeme: "&", Line: line}, nil
	case '|':
		return Token{Type: PIPE, Lexeme: "|", Line: line}, nil
	case '^':
		return Token{Type: CARET, Lexeme: "^", Line: line}, nil
	case '<':
		return Token{Type: LESS, Lexeme: "<", Line: line}, nil
	case '>':
		return Token{Type: GREATER, Lexeme: ">", Line: line}, nil
	case '+':
		if l.peek() == '+' { // lookahead: ++ before +
			l.advance()
			return Token{Type: PLUS_PLUS, Lexeme: "++", Line: line}, nil
		}
		return Token{Type: PLUS, Lexeme: "+", Line: line}, nil
	case '-':
		if l.peek() == '-' {
			l.advance()
			return Token{Type: MINUS_MINUS, Lexeme: "--", Line: line}, nil
		}
		return Token{Type: MINUS, Lexeme: "-", Line: line}, nil
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return Token{Type: EQUALS, Lexeme: "==", Line: line}, nil
		}
		return Token{Type: ASSIGN, Lexeme: "=", Line: line}, nil
	default:
		return Token{}, lexErrorf(line, "unexpected character %q", ch)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character or malformed literal.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
