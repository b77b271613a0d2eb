// Package compiler provides a lexer, parser, and code generator for the c85
// register-oriented source language, targeting Intel 8085 assembly text.
//
// Pipeline: c85 source → Lex → Parse → Generate → 8085 assembly lines
package compiler
