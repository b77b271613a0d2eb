package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	HEX        // hex literal 0x.., value 0x00-0xFFFF

	// Keywords
	MAIN   // "main"
	REG    // "reg"
	MALLOC // "malloc"
	IF     // "if"

	// Registers (classified by the lexer, see registerNames)
	REGISTER // 8-bit: A, B, C, D, E, H, L
	REGPAIR  // 16-bit pair: BC, DE, HL

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	// Punctuation
	SEMICOLON // ;

	// Operators
	PLUS        // +
	MINUS       // -
	AMP         // & (bitwise AND)
	PIPE        // |
	CARET       // ^
	PLUS_PLUS   // ++
	MINUS_MINUS // --

	// Assignment / comparison  (order matters: ASSIGN before EQUALS)
	ASSIGN  // =
	EQUALS  // ==
	LESS    // <
	GREATER // >
)

var tokenNames = [...]string{
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	HEX:         "HEX",
	MAIN:        "MAIN",
	REG:         "REG",
	MALLOC:      "MALLOC",
	IF:          "IF",
	REGISTER:    "REGISTER",
	REGPAIR:     "REGPAIR",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	SEMICOLON:   "SEMICOLON",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	AMP:         "AMP",
	PIPE:        "PIPE",
	CARET:       "CARET",
	PLUS_PLUS:   "PLUS_PLUS",
	MINUS_MINUS: "MINUS_MINUS",
	ASSIGN:      "ASSIGN",
	EQUALS:      "EQUALS",
	LESS:        "LESS",
	GREATER:     "GREATER",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Value  uint16 // numeric value for HEX tokens, zero otherwise
	Line   int    // 1-based source line
}

func (t Token) String() string {
	if t.Type == HEX {
		return fmt.Sprintf("%-10s %-14q (0x%04X)  line %d", t.Type, t.Lexeme, t.Value, t.Line)
	}
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
