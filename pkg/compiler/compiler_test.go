package compiler_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Mayan-101/c85c/pkg/compiler"
)

// The canonical sample program: three declarations, then one conditional per
// comparator.
const sampleSource = `main {
	counter = 0x00;
	limit = 0xFF;
	status = 0x05;

	if (counter < limit) {
		reg D = 0xAA;
	}
	if (status > limit) {
		reg E = 0xBB;
	}
	if (A == B) {
		reg H = 0xCC;
	}
}`

var sampleAssembly = []string{
	"MVI A,00H;",
	"STA 8000H;",
	"MVI A,FFH;",
	"STA 8001H;",
	"MOV B,A;",
	"MVI A,05H;",
	"STA 8002H;",
	"MOV C,A;",
	"CMP B;",
	"JZ SKIP_0;",
	"JNC SKIP_0;",
	"MVI D,AAH;",
	"SKIP_0:",
	"MOV A,C;",
	"CMP B;",
	"JZ SKIP_1;",
	"JC SKIP_1;",
	"MVI E,BBH;",
	"SKIP_1:",
	"CMP B;",
	"JNZ SKIP_2;",
	"MVI H,CCH;",
	"SKIP_2:",
}

func TestCompile_CanonicalSample(t *testing.T) {
	lines, err := compiler.Compile(sampleSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !reflect.DeepEqual(lines, sampleAssembly) {
		t.Errorf("Compile output\n got: %v\nwant: %v", lines, sampleAssembly)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	first, err := compiler.Compile(sampleSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	second, err := compiler.Compile(sampleSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("compiling the same source twice differs:\n%v\n%v", first, second)
	}
}

func TestCompile_PointerAndMalloc(t *testing.T) {
	src := `main {
		reg HL = malloc(0x6000); // video memory
		HL++;
		HL++;
		HL--;
		reg DE = 0x7000;
		DE--;
	}`

	lines, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	want := []string{
		"LXI HL,6000H;",
		"INX HL;",
		"INX HL;",
		"DCX HL;",
		"LXI DE,7000H;",
		"DCX DE;",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Compile output\n got: %v\nwant: %v", lines, want)
	}
}

func TestCompile_AccumulatorArithmetic(t *testing.T) {
	src := `main {
		reg A = 0x08;
		reg B = 0x04;
		A + B;
		A - B;
		A ^ B;
	}`

	lines, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	want := []string{
		"MVI A,08H;",
		"MVI B,04H;",
		"ADD B;",
		"SUB B;",
		"XRA B;",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Compile output\n got: %v\nwant: %v", lines, want)
	}
}

func TestCompile_ErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(error) bool
	}{
		{
			name: "Lex Error",
			src:  "main { counter = $0x05; }",
			check: func(err error) bool {
				var e *compiler.LexError
				return errors.As(err, &e)
			},
		},
		{
			name: "Parse Error",
			src:  "main { if (A == B) { }", // unterminated main block
			check: func(err error) bool {
				var e *compiler.ParseError
				return errors.As(err, &e)
			},
		},
		{
			name: "Codegen Error",
			src: `main {
				v0 = 0x00; v1 = 0x01; v2 = 0x02; v3 = 0x03;
				v4 = 0x04; v5 = 0x05; v6 = 0x06; v7 = 0x07;
			}`,
			check: func(err error) bool {
				var e *compiler.CodegenError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := compiler.Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, expected an error", tt.src)
			}
			if !tt.check(err) {
				t.Errorf("Compile(%q) error has wrong kind: %v (%T)", tt.src, err, err)
			}
			if lines != nil {
				t.Errorf("Compile(%q) returned partial output alongside error", tt.src)
			}
		})
	}
}

func TestCompile_IndependentInvocations(t *testing.T) {
	// Allocator and symbol state must not leak between compilations: a
	// second program starts from register A and address 0x8000 again.
	src := "main { x = 0x01; }"
	want := []string{"MVI A,01H;", "STA 8000H;"}

	for i := 0; i < 3; i++ {
		lines, err := compiler.Compile(src)
		if err != nil {
			t.Fatalf("Compile #%d failed: %v", i, err)
		}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("Compile #%d\n got: %v\nwant: %v", i, lines, want)
		}
	}
}
