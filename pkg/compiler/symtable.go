package compiler

import (
	"fmt"
	"strings"
)

// Symbol is the placement of one static variable: the register it lives in
// and the memory address it was stored to. Both are bound by the code
// generator; until then a declared symbol has empty placement.
type Symbol struct {
	Register string
	Address  uint16
}

// SymbolTable maps variable names to their Symbol, preserving declaration
// order. Names are unique; redeclaring is an error.
//
// The parser declares names as it accepts VarDecl statements, so conditional
// operands can be checked against what is in scope at that point in the
// source. The code generator later binds registers and addresses during its
// single walk. One table belongs to one compilation; it is never shared.
type SymbolTable struct {
	symbols map[string]Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Declare registers name with no placement yet. It reports whether the name
// was new; declaring a name twice returns false.
func (s *SymbolTable) Declare(name string) bool {
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = Symbol{}
	s.order = append(s.order, name)
	return true
}

// Bind records the register and address assigned to a declared name.
func (s *SymbolTable) Bind(name, register string, address uint16) {
	s.symbols[name] = Symbol{Register: register, Address: address}
}

// Lookup returns the symbol for name and whether it is declared.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Names returns the declared names in declaration order.
func (s *SymbolTable) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// String returns a dump of the table in declaration order.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.order) == 0 {
		sb.WriteString("Symbols: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Symbols:\n")
	for _, name := range s.order {
		sym := s.symbols[name]
		if sym.Register == "" {
			fmt.Fprintf(&sb, "  %-20s  (unbound)\n", name)
			continue
		}
		fmt.Fprintf(&sb, "  %-20s  Register: %s  Address: %04XH\n", name, sym.Register, sym.Address)
	}
	return sb.String()
}
