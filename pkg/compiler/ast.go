package compiler

import "fmt"

// Program is the root node: the ordered statements of the single main block.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(stmts=%d)", len(p.Stmts))
}

// Stmt is implemented by every statement node. The variant set is closed:
// the code generator matches exhaustively over it.
type Stmt interface {
	stmtNode()
	String() string
}

// VarDecl declares a static byte variable with an initial literal.
//
//	counter = 0x06;
//	^^^^^^^   ^^^^  VarDecl{Name: "counter", Value: 0x06}
//
// Codegen gives each declaration a fixed memory address and, while any remain
// free, a resident register.
type VarDecl struct {
	Name  string
	Value uint16
}

func (*VarDecl) stmtNode() {}
func (d *VarDecl) String() string {
	return fmt.Sprintf("VarDecl(%s = 0x%02X)", d.Name, d.Value)
}

// RegAssign loads a literal directly into a named 8-bit register, bypassing
// variable allocation.
//
//	reg D = 0xAA;
type RegAssign struct {
	Register string
	Value    uint16
}

func (*RegAssign) stmtNode() {}
func (a *RegAssign) String() string {
	return fmt.Sprintf("RegAssign(%s = 0x%02X)", a.Register, a.Value)
}

// BinaryOp is an expression statement of the accumulator-relative form
// "register op B". The left operand is restricted by the language to be
// already resident in the accumulator; the right operand is always B.
//
//	A + B;
type BinaryOp struct {
	Left  string
	Op    TokenType // PLUS, MINUS, AMP, PIPE or CARET
	Right string
}

func (*BinaryOp) stmtNode() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("BinaryOp(%s %s %s)", b.Left, b.Op, b.Right)
}

// PointerOp increments or decrements a 16-bit register pair.
//
//	HL++;
//	HL--;
type PointerOp struct {
	Pair      string
	Increment bool
}

func (*PointerOp) stmtNode() {}
func (p *PointerOp) String() string {
	op := "--"
	if p.Increment {
		op = "++"
	}
	return fmt.Sprintf("PointerOp(%s%s)", p.Pair, op)
}

// MallocAssign loads an immediate 16-bit address into a register pair. Both
// the malloc form and a plain 16-bit literal assignment produce this node.
//
//	reg HL = malloc(0x6000);
//	reg HL = 0x6000;
type MallocAssign struct {
	Pair    string
	Address uint16
}

func (*MallocAssign) stmtNode() {}
func (m *MallocAssign) String() string {
	return fmt.Sprintf("MallocAssign(%s = 0x%04X)", m.Pair, m.Address)
}

// Operand is one side of a conditional comparison: either a declared
// variable reference or a raw register name. Exactly one field is set.
type Operand struct {
	Name     string // variable name, "" for a raw register
	Register string // register name, "" for a variable reference
}

func (o Operand) String() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Register
}

// IfStmt guards a body of statements with a comparison.
//
//	if (counter < limit) { ... }
type IfStmt struct {
	Left  Operand
	Cond  TokenType // LESS, GREATER or EQUALS
	Right Operand
	Body  []Stmt
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	return fmt.Sprintf("IfStmt(if %s %s %s, body=%d)", i.Left, i.Cond, i.Right, len(i.Body))
}
