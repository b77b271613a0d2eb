// Package asm assembles the 8085 assembly text produced by pkg/compiler
// into machine code bytes. It covers the instruction subset the code
// generator emits plus the usual suspects for hand-written sources.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// registerCodes holds the 3-bit encoding of each 8-bit register operand.
var registerCodes = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "H": 4, "L": 5, "M": 6, "A": 7,
}

// pairCodes holds the 2-bit encoding of each register pair. The compiler
// writes full pair names; classic 8085 syntax abbreviates them to their
// first register, so both spellings are accepted.
var pairCodes = map[string]byte{
	"B": 0, "BC": 0,
	"D": 1, "DE": 1,
	"H": 2, "HL": 2,
	"SP": 3,
}

// zeroOperandOps encode as a single fixed byte.
var zeroOperandOps = map[string]byte{
	"NOP": 0x00,
	"HLT": 0x76,
	"RET": 0xC9,
}

// registerOps take one 8-bit register in the low bits: base | reg.
var registerOps = map[string]byte{
	"ADD": 0x80,
	"ADC": 0x88,
	"SUB": 0x90,
	"SBB": 0x98,
	"ANA": 0xA0,
	"XRA": 0xA8,
	"ORA": 0xB0,
	"CMP": 0xB8,
}

// immediateByteOps take one 8-bit immediate: opcode, then the byte.
var immediateByteOps = map[string]byte{
	"ADI": 0xC6,
	"SUI": 0xD6,
	"ANI": 0xE6,
	"XRI": 0xEE,
	"ORI": 0xF6,
	"CPI": 0xFE,
}

// addressOps take one 16-bit address or label: opcode, then little-endian
// address.
var addressOps = map[string]byte{
	"STA":  0x32,
	"LDA":  0x3A,
	"SHLD": 0x22,
	"LHLD": 0x2A,
	"JMP":  0xC3,
	"JNZ":  0xC2,
	"JZ":   0xCA,
	"JNC":  0xD2,
	"JC":   0xDA,
	"CALL": 0xCD,
}

// pairOps take one register pair in bits 4-5: base | pair<<4.
var pairOps = map[string]byte{
	"LXI": 0x01, // also takes a 16-bit immediate
	"INX": 0x03,
	"DCX": 0x0B,
}

type Assembler struct {
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble is a convenience wrapper around a one-shot Assembler.
func Assemble(code string) ([]byte, error) {
	return NewAssembler().Assemble(code)
}

// Assemble translates code into 8085 machine bytes starting at address 0.
// Pass 1 sizes every instruction and records label addresses; pass 2 encodes.
func (a *Assembler) Assemble(code string) ([]byte, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, err
	}
	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	var address uint32

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			if address > 0xFFFF {
				return fmt.Errorf("label %q on line %d points past addressable memory", lbl, lineNo)
			}
			if _, exists := a.labels[lbl]; exists {
				return fmt.Errorf("duplicate label %q on line %d", lbl, lineNo)
			}
			a.labels[lbl] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}
		size, err := instructionSize(p)
		if err != nil {
			return err
		}
		address += uint32(size)
	}

	if address > 0x10000 {
		return fmt.Errorf("program of %d bytes exceeds addressable memory", address)
	}
	return nil
}

func (a *Assembler) pass2(lines []string) ([]byte, error) {
	var out []byte

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if p.mnemonic == "" {
			continue
		}
		encoded, err := a.encode(p)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// instructionSize returns the encoded byte count of one instruction.
func instructionSize(p parsedLine) (int, error) {
	m := p.mnemonic
	if _, ok := zeroOperandOps[m]; ok {
		return 1, nil
	}
	if _, ok := registerOps[m]; ok {
		return 1, nil
	}
	if _, ok := immediateByteOps[m]; ok {
		return 2, nil
	}
	if _, ok := addressOps[m]; ok {
		return 3, nil
	}
	switch m {
	case "MOV", "INX", "DCX":
		return 1, nil
	case "MVI":
		return 2, nil
	case "LXI":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown mnemonic %q on line %d", m, p.lineNo)
}

func (a *Assembler) encode(p parsedLine) ([]byte, error) {
	m := p.mnemonic

	expect := func(n int) error {
		if len(p.operands) != n {
			return fmt.Errorf("%s on line %d takes %d operand(s), got %d", m, p.lineNo, n, len(p.operands))
		}
		return nil
	}

	if op, ok := zeroOperandOps[m]; ok {
		if err := expect(0); err != nil {
			return nil, err
		}
		return []byte{op}, nil
	}

	if base, ok := registerOps[m]; ok {
		if err := expect(1); err != nil {
			return nil, err
		}
		r, err := registerCode(p.operands[0], p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{base | r}, nil
	}

	if op, ok := immediateByteOps[m]; ok {
		if err := expect(1); err != nil {
			return nil, err
		}
		v, err := a.immediate(p.operands[0], 0xFF, p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{op, byte(v)}, nil
	}

	if op, ok := addressOps[m]; ok {
		if err := expect(1); err != nil {
			return nil, err
		}
		v, err := a.immediate(p.operands[0], 0xFFFF, p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{op, byte(v), byte(v >> 8)}, nil
	}

	switch m {
	case "MOV":
		if err := expect(2); err != nil {
			return nil, err
		}
		dst, err := registerCode(p.operands[0], p.lineNo)
		if err != nil {
			return nil, err
		}
		src, err := registerCode(p.operands[1], p.lineNo)
		if err != nil {
			return nil, err
		}
		if dst == registerCodes["M"] && src == registerCodes["M"] {
			return nil, fmt.Errorf("MOV M,M on line %d is not encodable", p.lineNo)
		}
		return []byte{0x40 | dst<<3 | src}, nil

	case "MVI":
		if err := expect(2); err != nil {
			return nil, err
		}
		r, err := registerCode(p.operands[0], p.lineNo)
		if err != nil {
			return nil, err
		}
		v, err := a.immediate(p.operands[1], 0xFF, p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{0x06 | r<<3, byte(v)}, nil

	case "LXI":
		if err := expect(2); err != nil {
			return nil, err
		}
		rp, err := pairCode(p.operands[0], p.lineNo)
		if err != nil {
			return nil, err
		}
		v, err := a.immediate(p.operands[1], 0xFFFF, p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{pairOps["LXI"] | rp<<4, byte(v), byte(v >> 8)}, nil

	case "INX", "DCX":
		if err := expect(1); err != nil {
			return nil, err
		}
		rp, err := pairCode(p.operands[0], p.lineNo)
		if err != nil {
			return nil, err
		}
		return []byte{pairOps[m] | rp<<4}, nil
	}

	return nil, fmt.Errorf("unknown mnemonic %q on line %d", m, p.lineNo)
}

func registerCode(operand string, lineNo int) (byte, error) {
	r, ok := registerCodes[operand]
	if !ok {
		return 0, fmt.Errorf("unknown register %q on line %d", operand, lineNo)
	}
	return r, nil
}

func pairCode(operand string, lineNo int) (byte, error) {
	rp, ok := pairCodes[operand]
	if !ok {
		return 0, fmt.Errorf("unknown register pair %q on line %d", operand, lineNo)
	}
	return rp, nil
}

// immediate resolves a label reference or numeric operand. Labels are
// checked before numbers so a label spelled like a hex value (SKIP_0 is
// safe, but so is something like DEADH) still resolves; pass 1 has recorded
// every label before encoding runs. Numbers may be written with a trailing H
// (8085 style, 00H or FFH), a 0x prefix, or as plain decimal.
func (a *Assembler) immediate(operand string, max uint32, lineNo int) (uint16, error) {
	if addr, ok := a.labels[operand]; ok {
		return addr, nil
	}

	var value uint64
	var err error

	switch {
	case strings.HasSuffix(operand, "H") && isHexBody(strings.TrimSuffix(operand, "H")):
		value, err = strconv.ParseUint(strings.TrimSuffix(operand, "H"), 16, 32)
	case strings.HasPrefix(operand, "0x") || strings.HasPrefix(operand, "0X"):
		value, err = strconv.ParseUint(operand[2:], 16, 32)
	case operand != "" && unicode.IsDigit(rune(operand[0])):
		value, err = strconv.ParseUint(operand, 10, 32)
	default:
		return 0, fmt.Errorf("undefined label or bad operand %q on line %d", operand, lineNo)
	}

	if err != nil {
		return 0, fmt.Errorf("bad numeric operand %q on line %d", operand, lineNo)
	}
	if uint32(value) > max {
		return 0, fmt.Errorf("operand %q on line %d exceeds %d-bit range", operand, lineNo, bitsFor(max))
	}
	return uint16(value), nil
}

func bitsFor(max uint32) int {
	if max > 0xFF {
		return 16
	}
	return 8
}

func isHexBody(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return false
		}
	}
	return true
}

// parseLine splits a raw source line into labels, mnemonic, and operands.
// Instruction terminators (';' at end of line, as the compiler emits) and
// everything after a comment ';' following whitespace are tolerated the same
// way: the semicolon ends the instruction text.
func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	text := raw
	if idx := strings.IndexByte(text, ';'); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return p, nil
	}

	// Leading labels: NAME:
	for {
		idx := strings.IndexByte(text, ':')
		if idx < 0 {
			break
		}
		label := strings.TrimSpace(text[:idx])
		if label == "" || strings.ContainsAny(label, " \t,") {
			return p, fmt.Errorf("malformed label on line %d: %q", lineNo, raw)
		}
		p.labels = append(p.labels, label)
		text = strings.TrimSpace(text[idx+1:])
	}
	if text == "" {
		return p, nil
	}

	fields := strings.Fields(text)
	p.mnemonic = strings.ToUpper(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	if rest != "" {
		for _, op := range strings.Split(rest, ",") {
			p.operands = append(p.operands, strings.TrimSpace(op))
		}
	}
	return p, nil
}
