package compiler_test

import (
	"strings"
	"testing"

	"github.com/Mayan-101/c85c/pkg/asm"
	"github.com/Mayan-101/c85c/pkg/compiler"
)

// TestIntegration_CompileAndAssemble feeds the compiler's output straight
// into the assembler: every emitted line must be a well-formed 8085
// instruction or label.
func TestIntegration_CompileAndAssemble(t *testing.T) {
	src := `main {
		counter = 0x00;
		limit = 0xFF;

		reg HL = malloc(0x6000);
		HL++;

		if (counter < limit) {
			reg D = 0xAA;
			A + B;
		}
		if (A == B) {
			HL--;
		}
	}`

	lines, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	binary, err := asm.Assemble(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("Assemble failed: %v\nAssembly:\n%s", err, strings.Join(lines, "\n"))
	}
	if len(binary) == 0 {
		t.Error("assembler produced an empty binary")
	}
}

// TestIntegration_SkipTargetsResolve checks that every skip label the
// compiler references is also declared exactly once.
func TestIntegration_SkipTargetsResolve(t *testing.T) {
	src := `main {
		a = 0x01;
		b = 0x02;
		if (a < b) { reg D = 0x01; }
		if (a > b) { reg E = 0x02; }
		if (a == b) { reg H = 0x03; }
	}`

	lines, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	declared := map[string]int{}
	referenced := map[string]int{}
	for _, line := range lines {
		if strings.HasSuffix(line, ":") {
			declared[strings.TrimSuffix(line, ":")]++
			continue
		}
		if strings.HasPrefix(line, "J") {
			fields := strings.Fields(line)
			target := strings.TrimSuffix(fields[len(fields)-1], ";")
			referenced[target]++
		}
	}

	for target := range referenced {
		if declared[target] != 1 {
			t.Errorf("jump target %s declared %d times, want exactly once", target, declared[target])
		}
	}
	if len(declared) != 3 {
		t.Errorf("declared %d skip labels, want 3", len(declared))
	}
}
