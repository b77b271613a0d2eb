package compiler

import "fmt"

// registerPriority is the fixed allocation order for static variables.
// Registers claimed by an explicit reg assignment earlier in the program are
// skipped.
var registerPriority = []string{"A", "B", "C", "D", "E", "H", "L"}

// variableBase is the first memory address handed to a static variable.
const variableBase uint16 = 0x8000

// allocatorState is the mutable allocation state of one generation pass:
// the register cursor, the static-variable address cursor, and the skip-label
// counter. It is owned by a single CodeGen and never shared, so independent
// compilations cannot interfere.
type allocatorState struct {
	claimed   map[string]bool // registers no longer free for variables
	nextAddr  uint16
	nextLabel int
}

func newAllocatorState() allocatorState {
	return allocatorState{
		claimed:  make(map[string]bool),
		nextAddr: variableBase,
	}
}

// takeRegister claims and returns the next free register in priority order.
func (a *allocatorState) takeRegister() (string, error) {
	for _, r := range registerPriority {
		if !a.claimed[r] {
			a.claimed[r] = true
			return r, nil
		}
	}
	return "", codegenErrorf("register allocator exhausted: only %d registers are available for static variables", len(registerPriority))
}

// takeAddress returns the next static-variable address and advances the cursor.
func (a *allocatorState) takeAddress() uint16 {
	addr := a.nextAddr
	a.nextAddr++
	return addr
}

// takeLabel returns a fresh skip label. Indices run from 0 in the textual
// order the conditionals are compiled.
func (a *allocatorState) takeLabel() string {
	l := fmt.Sprintf("SKIP_%d", a.nextLabel)
	a.nextLabel++
	return l
}

// binaryMnemonics maps a binary operator token to its accumulator-relative
// 8085 mnemonic.
var binaryMnemonics = map[TokenType]string{
	PLUS:  "ADD",
	MINUS: "SUB",
	AMP:   "ANA",
	PIPE:  "ORA",
	CARET: "XRA",
}

// CodeGen walks a Program once and emits 8085 assembly lines.
type CodeGen struct {
	syms  *SymbolTable
	alloc allocatorState
	lines []string
}

func newCodeGen(syms *SymbolTable) *CodeGen {
	return &CodeGen{syms: syms, alloc: newAllocatorState()}
}

func (cg *CodeGen) emit(format string, args ...any) {
	cg.lines = append(cg.lines, fmt.Sprintf(format, args...))
}

// resolve maps a conditional operand to its concrete register: identity for a
// raw register, symbol lookup for a variable name.
func (cg *CodeGen) resolve(o Operand) (string, error) {
	if o.Register != "" {
		return o.Register, nil
	}
	sym, ok := cg.syms.Lookup(o.Name)
	if !ok || sym.Register == "" {
		return "", codegenErrorf("condition operand %q resolved to no register", o.Name)
	}
	return sym.Register, nil
}

// genVarDecl places a static variable: load the literal through the
// accumulator, store it at the allocated address, and move it into its
// allocated register. The first variable lands in A itself and needs no move.
func (cg *CodeGen) genVarDecl(d *VarDecl) error {
	if _, exists := cg.syms.Lookup(d.Name); exists {
		return codegenErrorf("variable %q is already placed", d.Name)
	}
	register, err := cg.alloc.takeRegister()
	if err != nil {
		return err
	}
	address := cg.alloc.takeAddress()

	cg.emit("MVI A,%02XH;", d.Value)
	cg.emit("STA %04XH;", address)
	if register != "A" {
		cg.emit("MOV %s,A;", register)
	}

	cg.syms.Declare(d.Name)
	cg.syms.Bind(d.Name, register, address)
	return nil
}

// genIf emits the comparison, the skip jumps for the comparator, the body,
// and the skip label.
func (cg *CodeGen) genIf(s *IfStmt) error {
	left, err := cg.resolve(s.Left)
	if err != nil {
		return err
	}
	right, err := cg.resolve(s.Right)
	if err != nil {
		return err
	}

	label := cg.alloc.takeLabel()

	if left != "A" {
		cg.emit("MOV A,%s;", left)
	}
	if right == "A" {
		// Comparing the accumulator with itself; CMP A would be a no-op
		// encoding, compare against zero instead.
		cg.emit("CPI 00H;")
	} else {
		cg.emit("CMP %s;", right)
	}

	switch s.Cond {
	case LESS:
		// Skip unless left is strictly below right: equal or no borrow
		// both mean left >= right.
		cg.emit("JZ %s;", label)
		cg.emit("JNC %s;", label)
	case GREATER:
		// Skip unless left is strictly above right.
		cg.emit("JZ %s;", label)
		cg.emit("JC %s;", label)
	case EQUALS:
		cg.emit("JNZ %s;", label)
	default:
		return codegenErrorf("unknown comparator %s", s.Cond)
	}

	for _, stmt := range s.Body {
		if err := cg.genStmt(stmt); err != nil {
			return err
		}
	}
	cg.emit("%s:", label)
	return nil
}

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *VarDecl:
		return cg.genVarDecl(n)

	case *RegAssign:
		cg.emit("MVI %s,%02XH;", n.Register, n.Value)
		// The register is no longer free for variable allocation.
		cg.alloc.claimed[n.Register] = true
		return nil

	case *BinaryOp:
		// The language restricts binary operations to the accumulator
		// against register B; the left operand is already resident in A.
		mnemonic, ok := binaryMnemonics[n.Op]
		if !ok {
			return codegenErrorf("unknown binary operator %s", n.Op)
		}
		cg.emit("%s %s;", mnemonic, n.Right)
		return nil

	case *PointerOp:
		if n.Increment {
			cg.emit("INX %s;", n.Pair)
		} else {
			cg.emit("DCX %s;", n.Pair)
		}
		return nil

	case *MallocAssign:
		cg.emit("LXI %s,%04XH;", n.Pair, n.Address)
		return nil

	case *IfStmt:
		return cg.genIf(n)

	default:
		return codegenErrorf("unknown statement %T", s)
	}
}

// Generate walks prog once and returns the assembly lines, binding every
// static variable's register and address into syms as it goes. The walk is
// deterministic: the same program always yields the same lines.
func Generate(prog *Program, syms *SymbolTable) ([]string, error) {
	cg := newCodeGen(syms)
	for _, s := range prog.Stmts {
		if err := cg.genStmt(s); err != nil {
			return nil, err
		}
	}
	return cg.lines, nil
}
