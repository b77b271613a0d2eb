package asm

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssemble_Instructions(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		bytes []byte
	}{
		{
			name:  "MVI",
			code:  "MVI A,00H;",
			bytes: []byte{0x3E, 0x00},
		},
		{
			name:  "MVI Every Register",
			code:  "MVI B,01H;\nMVI C,02H;\nMVI D,03H;\nMVI E,04H;\nMVI H,05H;\nMVI L,06H;",
			bytes: []byte{0x06, 0x01, 0x0E, 0x02, 0x16, 0x03, 0x1E, 0x04, 0x26, 0x05, 0x2E, 0x06},
		},
		{
			name:  "STA",
			code:  "STA 8000H;",
			bytes: []byte{0x32, 0x00, 0x80}, // little-endian address
		},
		{
			name:  "MOV",
			code:  "MOV B,A;\nMOV A,C;",
			bytes: []byte{0x47, 0x79},
		},
		{
			name:  "Arithmetic Group",
			code:  "ADD B;\nSUB B;\nANA B;\nXRA B;\nORA B;\nCMP B;",
			bytes: []byte{0x80, 0x90, 0xA0, 0xA8, 0xB0, 0xB8},
		},
		{
			name:  "CPI",
			code:  "CPI 00H;",
			bytes: []byte{0xFE, 0x00},
		},
		{
			name:  "LXI Full Pair Names",
			code:  "LXI BC,1234H;\nLXI DE,1234H;\nLXI HL,6000H;",
			bytes: []byte{0x01, 0x34, 0x12, 0x11, 0x34, 0x12, 0x21, 0x00, 0x60},
		},
		{
			name:  "LXI Classic Pair Names",
			code:  "LXI H,6000H;\nLXI SP,0xFFFF;",
			bytes: []byte{0x21, 0x00, 0x60, 0x31, 0xFF, 0xFF},
		},
		{
			name:  "INX DCX",
			code:  "INX HL;\nDCX DE;\nINX BC;",
			bytes: []byte{0x23, 0x1B, 0x03},
		},
		{
			name:  "SHLD",
			code:  "SHLD 8000H;",
			bytes: []byte{0x22, 0x00, 0x80},
		},
		{
			name:  "Zero Operand",
			code:  "NOP\nHLT\nRET",
			bytes: []byte{0x00, 0x76, 0xC9},
		},
		{
			name:  "Decimal Operand",
			code:  "MVI A,255",
			bytes: []byte{0x3E, 0xFF},
		},
		{
			name:  "Blank Lines Ignored",
			code:  "\nMVI A,01H;\n\n\nHLT\n",
			bytes: []byte{0x3E, 0x01, 0x76},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(tt.code)
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.bytes) {
				t.Errorf("Assemble(%q)\n got: % X\nwant: % X", tt.code, got, tt.bytes)
			}
		})
	}
}

func TestAssemble_LabelResolution(t *testing.T) {
	code := strings.Join([]string{
		"MVI A,05H;", // 0x0000, 2 bytes
		"CMP B;",     // 0x0002, 1 byte
		"JZ SKIP_0;", // 0x0003, 3 bytes
		"MVI D,AAH;", // 0x0006, 2 bytes
		"SKIP_0:",    // = 0x0008
		"HLT",        // 0x0008
	}, "\n")

	got, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []byte{0x3E, 0x05, 0xB8, 0xCA, 0x08, 0x00, 0x16, 0xAA, 0x76}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble\n got: % X\nwant: % X", got, want)
	}
}

func TestAssemble_ForwardAndBackwardLabels(t *testing.T) {
	code := strings.Join([]string{
		"START:",
		"MVI A,01H;",
		"JZ DONE;",
		"JMP START;",
		"DONE:",
		"HLT",
	}, "\n")

	got, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// START = 0x0000, DONE = 0x0008
	want := []byte{0x3E, 0x01, 0xCA, 0x08, 0x00, 0xC3, 0x00, 0x00, 0x76}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble\n got: % X\nwant: % X", got, want)
	}
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "Unknown Mnemonic", code: "FLY A,B;"},
		{name: "Unknown Register", code: "MVI X,00H;"},
		{name: "Undefined Label", code: "JZ NOWHERE;"},
		{name: "Duplicate Label", code: "LOOP:\nLOOP:\nHLT"},
		{name: "Byte Operand Out Of Range", code: "MVI A,1FFH;"},
		{name: "Wrong Operand Count", code: "MOV A;"},
		{name: "Malformed Number", code: "MVI A,0xZZ;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(tt.code); err == nil {
				t.Errorf("Assemble(%q) succeeded, expected an error", tt.code)
			}
		})
	}
}
